package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func requireAdminKey(api *RestAPI, finalHandler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAdminKey(r) {
			api.invalidAdminKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	}
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/v1/summary.json", api.summaryHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/map.json", api.mapHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/parcels.geojson", api.parcelsGeoJSONHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/outlines.json", api.outlinesHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/report.json", api.reportHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/stats/:indicator", api.statsHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/table.json", api.tableHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/export.xlsx", api.exportHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/charts/:name", api.chartHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/color", api.colorHandler)
	router.HandlerFunc(http.MethodPost, "/api/v1/reload", requireAdminKey(api, api.reloadHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}
