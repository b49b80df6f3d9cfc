package app

import (
	"log/slog"

	"talhoes.dashboard.org/internal/appconf"
	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/parcels"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config        appconf.Config
	ParcelsConfig parcels.Config
	Catalog       catalog.Catalog
	Logger        *slog.Logger
	Manager       *parcels.Manager
}
