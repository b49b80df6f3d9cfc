package app

import (
	"crypto/subtle"
	"net/http"

	"talhoes.dashboard.org/internal/utils"
)

// AdminKeyHeader carries the key for administrative endpoints such as reload.
const AdminKeyHeader = "X-Admin-Key"

// RequestHasInvalidAdminKey checks the header first and falls back to the "key" query parameter.
func (app *Application) RequestHasInvalidAdminKey(r *http.Request) bool {
	key := r.Header.Get(AdminKeyHeader)
	if key == "" {
		key = r.URL.Query().Get("key")
	}
	return app.IsInvalidAdminKey(key)
}

// IsInvalidAdminKey reports whether key fails the configured admin key.
// With no admin key configured every request is accepted.
func (app *Application) IsInvalidAdminKey(key string) bool {
	if app.Config.AdminKey == "" {
		return false
	}
	if key == "" || utils.ValidateQuery(key) != nil {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(app.Config.AdminKey)) != 1
}
