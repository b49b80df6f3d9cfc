package utils

import (
	"net/http"
	"path"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams retrieves a parameter value from the request context and
// removes a trailing format extension such as ".json" or ".svg".
func ExtractIDFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	raw := params.ByName(paramName)
	switch ext := path.Ext(raw); ext {
	case ".json", ".svg", ".xlsx", ".geojson":
		return strings.TrimSuffix(raw, ext)
	}
	return raw
}
