package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/utils"
)

// viewFromRequest parses the sidebar filter and returns the matching view.
// On invalid parameters the 400 response has already been written.
func (api *RestAPI) viewFromRequest(w http.ResponseWriter, r *http.Request) (utils.FilterParams, *dataset.View, bool) {
	ds := api.Manager.Dataset()
	params, fieldErrors := utils.ParseFilter(r.URL.Query(), ds)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return params, nil, false
	}
	return params, api.Manager.View(params.Filter), true
}

func floatPtr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
