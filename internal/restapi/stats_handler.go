package restapi

import (
	"net/http"

	"talhoes.dashboard.org/internal/charts"
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/utils"
)

type indicatorStats struct {
	Indicator models.Indicator      `json:"indicator"`
	Label     string                `json:"label"`
	Count     int                   `json:"count"`
	Mean      *float64              `json:"mean"`
	Min       *float64              `json:"min"`
	Max       *float64              `json:"max"`
	Histogram []dataset.Bin         `json:"histogram"`
	BoxStats  []dataset.BoxStat     `json:"boxStats"`
	ByParcel  []dataset.ParcelValue `json:"byParcel"`
}

// statsHandler backs the statistics tab: distribution, farm comparison and
// per-parcel series of one indicator.
func (api *RestAPI) statsHandler(w http.ResponseWriter, r *http.Request) {
	ind, err := models.ParseIndicator(utils.ExtractIDFromParams(r, "indicator"))
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

	params, view, ok := api.viewFromRequest(w, r)
	if !ok {
		return
	}

	mean, ok := view.Mean(ind)
	lo, hi, _ := view.MinMax(ind)
	entry := indicatorStats{
		Indicator: ind,
		Label:     ind.Label(),
		Count:     view.Len(),
		Mean:      floatPtr(mean, ok),
		Min:       floatPtr(lo, ok),
		Max:       floatPtr(hi, ok),
		Histogram: nonNil(view.Histogram(ind, charts.HistogramBins(ind))),
		BoxStats:  nonNil(view.BoxStats(ind)),
		ByParcel:  nonNil(view.ByParcel(ind)),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, params.Model()))
}

// nonNil keeps empty series as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
