package restapi

import (
	"fmt"
	"net/http"
	"slices"

	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/utils"
	"talhoes.dashboard.org/parceldb"
)

const (
	defaultTableLimit = 100
	maxTableLimit     = 1000
)

type tablePage struct {
	Rows   []models.Parcel `json:"rows"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	SortBy string          `json:"sortBy,omitempty"`
	Desc   bool            `json:"desc"`
}

// tableHandler pages through the raw data table held in the parcel database.
func (api *RestAPI) tableHandler(w http.ResponseWriter, r *http.Request) {
	ds := api.Manager.Dataset()
	query := r.URL.Query()
	params, fieldErrors := utils.ParseFilter(query, ds)

	sortBy := query.Get("sort")
	if sortBy != "" && !slices.Contains(parceldb.SortColumns(), sortBy) {
		fieldErrors["sort"] = append(fieldErrors["sort"], fmt.Sprintf("unknown sort column %q", sortBy))
	}
	desc, fieldErrors := utils.ParseBoolParam(query, "desc", fieldErrors)
	limit, fieldErrors := utils.ParseIntParam(query, "limit", defaultTableLimit, fieldErrors)
	offset, fieldErrors := utils.ParseIntParam(query, "offset", 0, fieldErrors)
	if limit < 1 || limit > maxTableLimit {
		fieldErrors["limit"] = append(fieldErrors["limit"], fmt.Sprintf("limit must be between 1 and %d", maxTableLimit))
	}
	if offset < 0 {
		fieldErrors["offset"] = append(fieldErrors["offset"], "offset must not be negative")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result, err := api.Manager.DB.QueryTable(r.Context(), parceldb.TableQuery{
		Farms:  params.Filter.Farms,
		AgeMin: params.Filter.AgeMin,
		AgeMax: params.Filter.AgeMax,
		SortBy: sortBy,
		Desc:   desc,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	page := tablePage{
		Rows:   nonNil(result.Rows),
		Total:  result.Total,
		Limit:  limit,
		Offset: offset,
		SortBy: sortBy,
		Desc:   desc,
	}
	api.sendResponse(w, r, models.NewEntryResponse(page, params.Model()))
}
