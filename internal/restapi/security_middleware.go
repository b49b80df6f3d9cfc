package restapi

import (
	"net/http"
	"strings"
)

const (
	// APIContentSecurityPolicy applies to JSON, GeoJSON, SVG and spreadsheet responses.
	APIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none';"

	// DashboardContentSecurityPolicy lets the dashboard pull Leaflet from unpkg
	// and map tiles from OpenStreetMap and Esri.
	DashboardContentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self' https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline' https://unpkg.com; " +
		"img-src 'self' data: https://*.tile.openstreetmap.org https://server.arcgisonline.com https://unpkg.com; " +
		"connect-src 'self'; frame-ancestors 'none';"
)

// WithSecurityHeaders wraps the given handler with security headers middleware
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	return securityHeaders(handler, contentSecurityPolicyFor)
}

// contentSecurityPolicyFor picks the strict API policy for everything that is
// not a dashboard page.
func contentSecurityPolicyFor(r *http.Request) string {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/healthz" {
		return APIContentSecurityPolicy
	}
	return DashboardContentSecurityPolicy
}

// securityHeaders adds essential security headers to all HTTP responses
func securityHeaders(next http.Handler, csp func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking attacks
		w.Header().Set("X-Frame-Options", "DENY")

		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", csp(r))

		// CORS headers for API access
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Key")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
