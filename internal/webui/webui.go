// Package webui serves the server-rendered dashboard and the debug pages.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"talhoes.dashboard.org/internal/app"
	"talhoes.dashboard.org/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type WebUI struct {
	*app.Application
	templates *template.Template
	static    fs.FS
}

// NewWebUI parses the embedded templates once.
func NewWebUI(application *app.Application) (*WebUI, error) {
	webUI := &WebUI{Application: application}

	funcs := template.FuncMap{
		"alias":    application.Catalog.Alias,
		"fixed1":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"fixed2":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"currency": report.FormatCurrency,
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	webUI.templates = tmpl

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("error opening static assets: %w", err)
	}
	webUI.static = static

	return webUI, nil
}
