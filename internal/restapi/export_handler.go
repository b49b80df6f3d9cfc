package restapi

import (
	"bytes"
	"net/http"

	"talhoes.dashboard.org/internal/report"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "talhoes.xlsx"
)

func (api *RestAPI) exportHandler(w http.ResponseWriter, r *http.Request) {
	_, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, view.Parcels()); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	api.sendBody(w, xlsxContentType, buf.Bytes())
}
