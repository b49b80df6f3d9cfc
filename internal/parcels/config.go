package parcels

import (
	"time"

	"talhoes.dashboard.org/internal/appconf"
	"talhoes.dashboard.org/internal/synth"
)

const (
	defaultViewCacheSize = 64
	defaultDebounce      = 500 * time.Millisecond
)

type Config struct {
	DataPath      string // .geojson, .json or .shp parcel layer
	DBPath        string // SQLite path for the table store, ":memory:" when empty
	Env           appconf.Environment
	Verbose       bool
	Synth         synth.Options
	Watch         bool          // reload when DataPath changes on disk
	Debounce      time.Duration // quiet period before a watched change triggers a reload
	ViewCacheSize int           // filtered views kept per dataset generation
}

func (c Config) viewCacheSize() int {
	if c.ViewCacheSize <= 0 {
		return defaultViewCacheSize
	}
	return c.ViewCacheSize
}

func (c Config) debounce() time.Duration {
	if c.Debounce <= 0 {
		return defaultDebounce
	}
	return c.Debounce
}
