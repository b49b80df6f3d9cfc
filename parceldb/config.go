package parceldb

import "talhoes.dashboard.org/internal/appconf"

const InMemory = ":memory:"

// Config holds configuration options for the Client
type Config struct {
	DBPath  string // Path to SQLite database file, or ":memory:"
	Env     appconf.Environment
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	if dbPath == "" {
		dbPath = InMemory
	}
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
