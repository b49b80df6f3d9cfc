package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/colormap"
	"talhoes.dashboard.org/internal/geo"
	"talhoes.dashboard.org/internal/models"
)

// outline is a parcel reduced to its encoded rings and styling, a much
// smaller payload than the GeoJSON layer.
type outline struct {
	ID     string   `json:"id"`
	Farm   string   `json:"farm"`
	Fill   string   `json:"fill"`
	Border string   `json:"border"`
	Rings  []string `json:"rings"`
}

func (api *RestAPI) outlinesHandler(w http.ResponseWriter, r *http.Request) {
	params, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	lo, hi, _ := view.MinMax(params.Color)
	outlines := make([]outline, 0, view.Len())
	for _, p := range view.Parcels() {
		rings, err := geo.EncodeOutline(p.Geometry)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		outlines = append(outlines, outline{
			ID:     p.ID,
			Farm:   p.Farm,
			Fill:   colormap.ColorClamped(params.Color.Value(p), lo, hi),
			Border: api.Catalog.Border(p.Farm),
			Rings:  rings,
		})
	}

	api.sendResponse(w, r, models.NewListResponse(outlines, params.Model(), false))
}
