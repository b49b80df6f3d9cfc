package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/models"
)

type healthEntry struct {
	Status         string         `json:"status"`
	Parcels        int            `json:"parcels"`
	Farms          int            `json:"farms"`
	LastUpdated    int64          `json:"lastUpdated"`
	CacheHits      int            `json:"cacheHits"`
	CacheMisses    int            `json:"cacheMisses"`
	StoredParcels  int            `json:"storedParcels"`
	StoredByFarm   map[string]int `json:"storedByFarm"`
	ImportDuration int64          `json:"importDurationMs"`
}

// healthHandler reports "degraded" when the table store and the in-memory
// dataset disagree on the parcel count.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	ds := api.Manager.Dataset()
	hits, misses := api.Manager.CacheStats()

	stored, err := api.Manager.DB.CountParcels(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	byFarm, err := api.Manager.DB.CountByFarm(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entry := healthEntry{
		Status:         "ok",
		Parcels:        ds.Len(),
		Farms:          len(ds.Farms()),
		LastUpdated:    api.Manager.LastUpdated().UnixMilli(),
		CacheHits:      hits,
		CacheMisses:    misses,
		StoredParcels:  stored,
		StoredByFarm:   byFarm,
		ImportDuration: api.Manager.DB.ImportRuntime().Milliseconds(),
	}
	if stored != ds.Len() {
		entry.Status = "degraded"
	}
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"entry": entry}))
}
