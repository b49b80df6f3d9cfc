package restapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/models"
)

const reloadTimeout = 60 * time.Second

type reloadEntry struct {
	Parcels     int   `json:"parcels"`
	LastUpdated int64 `json:"lastUpdated"`
}

// reloadHandler re-reads the parcel layer. A failed reload answers 500 and
// the previous dataset stays in service.
func (api *RestAPI) reloadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reloadTimeout)
	defer cancel()

	if err := api.Manager.Reload(ctx); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	ds := api.Manager.Dataset()
	logging.LogOperation(logging.FromContext(r.Context()), "dataset_reloaded_via_api",
		slog.Int("parcels", ds.Len()))

	entry := reloadEntry{
		Parcels:     ds.Len(),
		LastUpdated: api.Manager.LastUpdated().UnixMilli(),
	}
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"entry": entry}))
}
