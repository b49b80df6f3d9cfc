package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"talhoes.dashboard.org/internal/appconf"
)

// SetWebUIRoutes registers the dashboard. Debug dumps are not served in production.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/", webUI.dashboardHandler)
	router.ServeFiles("/static/*filepath", http.FS(webUI.static))

	if webUI.Config.Env != appconf.Production {
		router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
	}
}
