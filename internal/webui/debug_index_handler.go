package webui

import (
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"talhoes.dashboard.org/internal/utils"
)

type debugData struct {
	Title string
	Pre   string
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := webUI.templates.ExecuteTemplate(w, "debug_index.html", debugData{
		Title: title,
		Pre:   content,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	ds := webUI.Manager.Dataset()

	switch dataType {
	case "parcels":
		data = ds.Parcels()
		title = "Parcels"
	case "farms":
		data = map[string]interface{}{
			"farms":   ds.Farms(),
			"catalog": webUI.Catalog,
		}
		title = "Farms"
	case "filter":
		params, fieldErrors := utils.ParseFilter(r.URL.Query(), ds)
		view := webUI.Manager.View(params.Filter)
		data = map[string]interface{}{
			"filter":      params.Filter.String(),
			"key":         params.Filter.Key(),
			"color":       params.Color,
			"parcels":     view.Len(),
			"fieldErrors": fieldErrors,
		}
		title = "Filter"
	case "cache":
		hits, misses := webUI.Manager.CacheStats()
		data = map[string]interface{}{
			"hits":        hits,
			"misses":      misses,
			"lastUpdated": webUI.Manager.LastUpdated(),
		}
		title = "View cache"
	default:
		data = map[string]string{
			"error": "Please use one of the following: parcels, farms, filter, cache.",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, title, data)
}
