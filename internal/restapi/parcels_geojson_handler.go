package restapi

import (
	"net/http"

	"github.com/twpayne/go-geom/encoding/geojson"

	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/colormap"
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/report"
)

const geoJSONContentType = "application/geo+json"

// parcelsGeoJSONHandler serves the filtered parcels for the map layer. Fill
// colours are relative to the min/max of the selected indicator within the view.
func (api *RestAPI) parcelsGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	params, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	fc := featureCollection(view, params.Color, api.Catalog)
	api.sendJSON(w, r, geoJSONContentType, fc)
}

func featureCollection(view *dataset.View, color models.Indicator, c catalog.Catalog) *geojson.FeatureCollection {
	lo, hi, _ := view.MinMax(color)
	features := make([]*geojson.Feature, 0, view.Len())
	for _, p := range view.Parcels() {
		features = append(features, &geojson.Feature{
			ID:       p.ID,
			Geometry: p.Geometry,
			Properties: map[string]interface{}{
				"id":               p.ID,
				"farm":             p.Farm,
				"farmAlias":        c.Alias(p.Farm),
				"species":          p.Species,
				"age":              p.Age,
				"productivity":     p.Productivity,
				"volume":           p.Volume,
				"area":             p.Area,
				"survivalRate":     p.SurvivalRate,
				"operationalYield": p.OperationalYield,
				"cost":             p.Cost,
				"fill":             colormap.ColorClamped(color.Value(p), lo, hi),
				"border":           c.Border(p.Farm),
				"tooltip":          report.Tooltip(p),
			},
		})
	}
	return &geojson.FeatureCollection{Features: features}
}
