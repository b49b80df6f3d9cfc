package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/report"
)

func (api *RestAPI) reportHandler(w http.ResponseWriter, r *http.Request) {
	params, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	api.sendResponse(w, r, models.NewListResponse(report.Rankings(view), params.Model(), false))
}
