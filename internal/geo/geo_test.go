package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"talhoes.dashboard.org/internal/models"
)

func square(lon, lat, size float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{lon, lat}, {lon + size, lat}, {lon + size, lat + size}, {lon, lat + size}, {lon, lat},
	}})
}

func TestToPolyconic(t *testing.T) {
	t.Run("central meridian maps to false easting", func(t *testing.T) {
		x, _ := ToPolyconic(-54, -20)
		assert.InDelta(t, 5000000.0, x, 1e-6)
	})

	t.Run("equator", func(t *testing.T) {
		x, y := ToPolyconic(-53, 0)
		assert.InDelta(t, 5000000.0+grs80SemiMajor*(1.0*3.141592653589793/180), x, 1e-6)
		assert.InDelta(t, 10000000.0, y, 1e-6)
	})

	t.Run("southern hemisphere point", func(t *testing.T) {
		x, y := ToPolyconic(-51.7, -20.8)
		assert.InDelta(t, 5239440.9, x, 1)
		assert.InDelta(t, 7697359.6, y, 1)
	})
}

func TestAreaHectares(t *testing.T) {
	area, err := AreaHectares(square(-51.7, -20.8, 0.01))
	require.NoError(t, err)
	assert.InDelta(t, 115.35, area, 115.35*0.01)

	t.Run("multipolygon sums members", func(t *testing.T) {
		mp := geom.NewMultiPolygon(geom.XY)
		require.NoError(t, mp.Push(square(-51.7, -20.8, 0.01)))
		require.NoError(t, mp.Push(square(-51.68, -20.8, 0.01)))

		total, err := AreaHectares(mp)
		require.NoError(t, err)
		assert.InDelta(t, 2*area, total, 0.5)
	})

	t.Run("clockwise exterior", func(t *testing.T) {
		cw := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
			{-51.7, -20.8}, {-51.7, -20.79}, {-51.69, -20.79}, {-51.69, -20.8}, {-51.7, -20.8},
		}})
		got, err := AreaHectares(cw)
		require.NoError(t, err)
		assert.InDelta(t, area, got, 1e-6)
	})

	t.Run("clockwise multipolygon", func(t *testing.T) {
		mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
			{{{-51.7, -20.8}, {-51.7, -20.79}, {-51.69, -20.79}, {-51.69, -20.8}, {-51.7, -20.8}}},
			{{{-51.68, -20.8}, {-51.68, -20.79}, {-51.67, -20.79}, {-51.67, -20.8}, {-51.68, -20.8}}},
		})
		got, err := AreaHectares(mp)
		require.NoError(t, err)
		assert.Greater(t, got, 0.0)
		assert.InDelta(t, 2*area, got, 0.5)
	})

	t.Run("hole is subtracted whatever its orientation", func(t *testing.T) {
		outer := []geom.Coord{{-51.7, -20.8}, {-51.69, -20.8}, {-51.69, -20.79}, {-51.7, -20.79}, {-51.7, -20.8}}
		holeCCW := []geom.Coord{{-51.698, -20.798}, {-51.692, -20.798}, {-51.692, -20.792}, {-51.698, -20.792}, {-51.698, -20.798}}
		holeCW := []geom.Coord{{-51.698, -20.798}, {-51.698, -20.792}, {-51.692, -20.792}, {-51.692, -20.798}, {-51.698, -20.798}}

		a, err := AreaHectares(geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{outer, holeCCW}))
		require.NoError(t, err)
		b, err := AreaHectares(geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{outer, holeCW}))
		require.NoError(t, err)

		assert.InDelta(t, a, b, 1e-6)
		assert.InDelta(t, area*(1-0.36), a, 1.0)
	})

	t.Run("rejects non-polygonal geometry", func(t *testing.T) {
		_, err := AreaHectares(geom.NewPointFlat(geom.XY, []float64{-51.7, -20.8}))
		assert.ErrorIs(t, err, ErrNotPolygonal)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		sq := square(-51.7, -20.8, 0.01)
		_, err := AreaHectares(sq)
		require.NoError(t, err)
		assert.Equal(t, -51.7, sq.FlatCoords()[0])
	})
}

func TestCentroid(t *testing.T) {
	lon, lat, err := Centroid(square(-51.7, -20.8, 0.01))
	require.NoError(t, err)
	assert.InDelta(t, -51.695, lon, 1e-9)
	assert.InDelta(t, -20.795, lat, 1e-9)
}

func TestEncodeOutline(t *testing.T) {
	lines, err := EncodeOutline(square(-51.7, -20.8, 0.01))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0])

	_, err = EncodeOutline(geom.NewLineString(geom.XY))
	assert.ErrorIs(t, err, ErrNotPolygonal)
}

func TestLoadFeaturesGeoJSON(t *testing.T) {
	features, err := LoadFeatures(models.GetFixturePath(t, "talhoes.geojson"))
	require.NoError(t, err)
	require.Len(t, features, 12)

	assert.Equal(t, "T01", features[0].ID)
	assert.Equal(t, "Fazenda 1", features[0].Farm)
	assert.Equal(t, "Fazenda 2", features[11].Farm)
	assert.IsType(t, &geom.Polygon{}, features[0].Geometry)

	for _, f := range features {
		area, err := AreaHectares(f.Geometry)
		require.NoError(t, err)
		assert.Greater(t, area, 100.0)
	}
}

func TestLoadFeaturesErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "point geometry",
			path:    func(t *testing.T) string { return models.GetFixturePath(t, "invalid_geometry.geojson") },
			wantErr: ErrNotPolygonal,
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "talhoes.kml")
				require.NoError(t, os.WriteFile(p, []byte("<kml/>"), 0o600))
				return p
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name: "missing farm attribute",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "talhoes.geojson")
				body := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Talhao":"T01"},` +
					`"geometry":{"type":"Polygon","coordinates":[[[-51.7,-20.8],[-51.69,-20.8],[-51.69,-20.79],[-51.7,-20.8]]]}}]}`
				require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
				return p
			},
			wantErr: ErrMissingProperty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFeatures(tt.path(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFeatures(filepath.Join(t.TempDir(), "nope.geojson"))
		assert.Error(t, err)
	})
}

func writeShapefile(t *testing.T, rows [][]string, parts [][][]shp.Point) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talhoes.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField(ParcelProperty, 16),
		shp.StringField(FarmProperty, 32),
	}))

	for i, p := range parts {
		poly := shp.Polygon(*shp.NewPolyLine(p))
		row := int(w.Write(&poly))
		for j, v := range rows[i] {
			require.NoError(t, w.WriteAttribute(row, j, v))
		}
	}
	w.Close()

	// go-shp v0.1.1 names the attribute table "<base>dbf", without the dot.
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	require.FileExists(t, base+".dbf")
	return path
}

// clockwise ring in x/y
func shpSquare(lon, lat, size float64) []shp.Point {
	return []shp.Point{
		{X: lon, Y: lat}, {X: lon, Y: lat + size}, {X: lon + size, Y: lat + size}, {X: lon + size, Y: lat}, {X: lon, Y: lat},
	}
}

func TestLoadFeaturesShapefile(t *testing.T) {
	path := writeShapefile(t,
		[][]string{{"T01", "Fazenda 1"}, {"T02", "Fazenda 2"}},
		[][][]shp.Point{
			{shpSquare(-51.7, -20.8, 0.01)},
			{shpSquare(-51.6, -20.8, 0.01), shpSquare(-51.58, -20.8, 0.01)},
		},
	)

	features, err := LoadFeatures(path)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "T01", features[0].ID)
	assert.Equal(t, "Fazenda 1", features[0].Farm)
	assert.IsType(t, &geom.Polygon{}, features[0].Geometry)

	assert.Equal(t, "T02", features[1].ID)
	assert.Equal(t, "Fazenda 2", features[1].Farm)
	assert.NotContains(t, features[1].Properties[FarmProperty], "\x00")
	mp, ok := features[1].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())

	single, err := AreaHectares(features[0].Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 115.35, single, 1.2)

	double, err := AreaHectares(features[1].Geometry)
	require.NoError(t, err)
	assert.InDelta(t, 2*single, double, 1.0)
}

func TestPolygonFromShapeHoles(t *testing.T) {
	outer := shpSquare(-51.7, -20.8, 0.01)
	// counter-clockwise inner ring
	hole := []shp.Point{
		{X: -51.698, Y: -20.798}, {X: -51.692, Y: -20.798}, {X: -51.692, Y: -20.792}, {X: -51.698, Y: -20.792}, {X: -51.698, Y: -20.798},
	}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{outer, hole}))

	g, err := polygonFromShape(&poly)
	require.NoError(t, err)
	p, ok := g.(*geom.Polygon)
	require.True(t, ok)
	assert.Equal(t, 2, p.NumLinearRings())

	withHole, err := AreaHectares(p)
	require.NoError(t, err)
	assert.InDelta(t, 115.35*(1-0.36), withHole, 1.5)
}

func TestDBFString(t *testing.T) {
	assert.Equal(t, "Fazenda 1", dbfString("Fazenda 1\x00\x00\x00"))
	assert.Equal(t, "T01", dbfString("  T01   \x00"))
	assert.Equal(t, "", dbfString("\x00\x00"))
}
