package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-polyline"
)

const squareMetresPerHectare = 10000.0

type areal interface {
	geom.T
	FlatCoords() []float64
	Stride() int
}

// Project returns a copy of g with every vertex reprojected to Brazil Polyconic.
func Project(g geom.T) (geom.T, error) {
	var out areal
	switch g := g.(type) {
	case *geom.Polygon:
		out = g.Clone()
	case *geom.MultiPolygon:
		out = g.Clone()
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotPolygonal, g)
	}

	flat := out.FlatCoords()
	stride := out.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = ToPolyconic(flat[i], flat[i+1])
	}
	return out, nil
}

// AreaHectares measures g in the projected CRS and converts m² to hectares.
// Ring orientation is ignored: each polygon counts its exterior minus its holes.
func AreaHectares(g geom.T) (float64, error) {
	projected, err := Project(g)
	if err != nil {
		return 0, err
	}

	var m2 float64
	switch p := projected.(type) {
	case *geom.Polygon:
		m2 = polygonArea(p)
	case *geom.MultiPolygon:
		for i := 0; i < p.NumPolygons(); i++ {
			m2 += polygonArea(p.Polygon(i))
		}
	}
	return m2 / squareMetresPerHectare, nil
}

func polygonArea(p *geom.Polygon) float64 {
	var area float64
	for i := 0; i < p.NumLinearRings(); i++ {
		a := math.Abs(p.LinearRing(i).Area())
		if i == 0 {
			area += a
		} else {
			area -= a
		}
	}
	return area
}

// Centroid returns the lon/lat centroid of g.
func Centroid(g geom.T) (lon, lat float64, err error) {
	c, err := xy.Centroid(g)
	if err != nil {
		return 0, 0, fmt.Errorf("error computing centroid: %w", err)
	}
	return c.X(), c.Y(), nil
}

// EncodeOutline encodes the exterior ring of every polygon in g as a Google
// polyline (lat, lon order), one string per polygon.
func EncodeOutline(g geom.T) ([]string, error) {
	var exteriors [][]geom.Coord
	switch g := g.(type) {
	case *geom.Polygon:
		if g.NumLinearRings() > 0 {
			exteriors = append(exteriors, g.LinearRing(0).Coords())
		}
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			p := g.Polygon(i)
			if p.NumLinearRings() > 0 {
				exteriors = append(exteriors, p.LinearRing(0).Coords())
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotPolygonal, g)
	}

	lines := make([]string, 0, len(exteriors))
	for _, ring := range exteriors {
		coords := make([][]float64, len(ring))
		for i, c := range ring {
			coords[i] = []float64{c.Y(), c.X()}
		}
		lines = append(lines, string(polyline.EncodeCoords(coords)))
	}
	return lines, nil
}
