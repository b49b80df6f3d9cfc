package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/colormap"
	"talhoes.dashboard.org/internal/models"
)

type mapEntry struct {
	View       models.MapView         `json:"view"`
	Color      models.Indicator       `json:"color"`
	ColorLabel string                 `json:"colorLabel"`
	Min        *float64               `json:"min"`
	Max        *float64               `json:"max"`
	Legend     []colormap.LegendEntry `json:"legend"`
	TileLayers []models.TileLayer     `json:"tileLayers"`
	Parcels    int                    `json:"parcels"`
}

// mapHandler describes how to draw the parcel layer: initial view, colour
// range and legend. An empty selection keeps the view of the whole dataset.
func (api *RestAPI) mapHandler(w http.ResponseWriter, r *http.Request) {
	params, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	mapView, ok := view.MapView()
	if !ok {
		ds := api.Manager.Dataset()
		mapView, _ = api.Manager.View(ds.DefaultFilter()).MapView()
	}

	lo, hi, ok := view.MinMax(params.Color)
	entry := mapEntry{
		View:       mapView,
		Color:      params.Color,
		ColorLabel: params.Color.Label(),
		Min:        floatPtr(lo, ok),
		Max:        floatPtr(hi, ok),
		Legend:     colormap.Legend(api.Catalog),
		TileLayers: models.DefaultTileLayers(),
		Parcels:    view.Len(),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, params.Model()))
}
