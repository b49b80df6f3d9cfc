package restapi

import (
	"bytes"
	"errors"
	"net/http"

	"talhoes.dashboard.org/internal/charts"
	"talhoes.dashboard.org/internal/utils"
)

const svgContentType = "image/svg+xml"

// chartHandler renders one dashboard chart as SVG. An empty selection has
// nothing to draw and answers 204.
func (api *RestAPI) chartHandler(w http.ResponseWriter, r *http.Request) {
	spec, err := charts.ParseSpec(utils.ExtractIDFromParams(r, "name"))
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

	_, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err = charts.Render(&buf, spec, view, api.Catalog)
	if errors.Is(err, charts.ErrNoData) {
		api.sendNoContent(w)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendBody(w, svgContentType, buf.Bytes())
}
