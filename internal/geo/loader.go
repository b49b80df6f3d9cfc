package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

const (
	// Attribute names carried by the parcel layer.
	ParcelProperty = "Talhao"
	FarmProperty   = "fazenda"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported parcel file format")
	ErrNotPolygonal      = errors.New("geometry is not a polygon")
	ErrMissingProperty   = errors.New("missing feature property")
)

// Feature is one parcel record as read from the source layer, before any
// attribute is derived.
type Feature struct {
	ID         string
	Farm       string
	Geometry   geom.T // *geom.Polygon or *geom.MultiPolygon, lon/lat
	Properties map[string]string
}

// LoadFeatures reads the parcel layer at path. The decoder is chosen by file
// extension. Any malformed record aborts the whole load.
func LoadFeatures(path string) ([]Feature, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return loadGeoJSON(path)
	case ".shp":
		return loadShapefile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func loadGeoJSON(path string) ([]Feature, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading parcel file: %w", err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("error parsing GeoJSON %s: %w", path, err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if err := checkPolygonal(f.Geometry); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		props := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = propertyString(v)
		}

		feature, err := newFeature(props, f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		features = append(features, feature)
	}
	return features, nil
}

// loadShapefile reads a polygon shapefile and its DBF attribute table.
func loadShapefile(path string) ([]Feature, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()

	var features []Feature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("record %d: %w", idx, ErrNotPolygonal)
		}

		g, err := polygonFromShape(poly)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}

		props := make(map[string]string, len(fields))
		for i, f := range fields {
			props[f.String()] = dbfString(r.ReadAttribute(idx, i))
		}

		feature, err := newFeature(props, g)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		features = append(features, feature)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("error reading shapefile: %w", err)
	}
	return features, nil
}

// dbfString drops the NUL and blank padding of fixed-width DBF fields.
func dbfString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// polygonFromShape splits the flat shapefile point list into rings. A clockwise
// ring starts a new polygon; counter-clockwise rings are holes of the current one.
func polygonFromShape(poly *shp.Polygon) (geom.T, error) {
	numParts := len(poly.Parts)
	var polygons [][][]geom.Coord

	for partIdx := 0; partIdx < numParts; partIdx++ {
		start := poly.Parts[partIdx]
		end := int32(len(poly.Points))
		if partIdx+1 < numParts {
			end = poly.Parts[partIdx+1]
		}

		ring := make([]geom.Coord, 0, end-start)
		for i := start; i < end; i++ {
			pt := poly.Points[i]
			ring = append(ring, geom.Coord{pt.X, pt.Y})
		}

		if len(polygons) == 0 || signedArea(ring) < 0 {
			polygons = append(polygons, [][]geom.Coord{ring})
			continue
		}
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)
	}

	switch len(polygons) {
	case 0:
		return nil, ErrNotPolygonal
	case 1:
		return geom.NewPolygon(geom.XY).SetCoords(polygons[0])
	default:
		return geom.NewMultiPolygon(geom.XY).SetCoords(polygons)
	}
}

// signedArea is the shoelace sum; negative for clockwise rings.
func signedArea(ring []geom.Coord) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum / 2
}

func newFeature(props map[string]string, g geom.T) (Feature, error) {
	id := props[ParcelProperty]
	if id == "" {
		return Feature{}, fmt.Errorf("%w: %s", ErrMissingProperty, ParcelProperty)
	}
	farm := props[FarmProperty]
	if farm == "" {
		return Feature{}, fmt.Errorf("%w: %s", ErrMissingProperty, FarmProperty)
	}
	return Feature{ID: id, Farm: farm, Geometry: g, Properties: props}, nil
}

func checkPolygonal(g geom.T) error {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return nil
	case nil:
		return fmt.Errorf("%w: null geometry", ErrNotPolygonal)
	default:
		return fmt.Errorf("%w: %T", ErrNotPolygonal, g)
	}
}

func propertyString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
