package restapi

import (
	"fmt"
	"net/http"

	"talhoes.dashboard.org/internal/colormap"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/utils"
)

type colorEntry struct {
	Value   float64 `json:"value"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Clamped bool    `json:"clamped"`
	Color   string  `json:"color"`
}

// colorHandler exposes the colour mapper. Without clamp=true, values outside
// [min, max] are mapped as is and may yield a malformed colour.
func (api *RestAPI) colorHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fieldErrors := make(map[string][]string)
	for _, key := range []string{"value", "min", "max"} {
		if query.Get(key) == "" {
			fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		}
	}

	value, fieldErrors := utils.ParseFloatParam(query, "value", fieldErrors)
	lo, fieldErrors := utils.ParseFloatParam(query, "min", fieldErrors)
	hi, fieldErrors := utils.ParseFloatParam(query, "max", fieldErrors)
	clamp, fieldErrors := utils.ParseBoolParam(query, "clamp", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	entry := colorEntry{Value: value, Min: lo, Max: hi, Clamped: clamp}
	if clamp {
		entry.Color = colormap.ColorClamped(value, lo, hi)
	} else {
		entry.Color = colormap.Color(value, lo, hi)
	}

	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{"entry": entry}))
}
