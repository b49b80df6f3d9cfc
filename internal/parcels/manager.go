// Package parcels owns the dataset lifecycle: the initial load, explicit and
// file-triggered reloads, and the per-generation cache of filtered views.
package parcels

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/geo"
	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/synth"
	"talhoes.dashboard.org/parceldb"
)

// generation is one loaded dataset together with the views derived from it.
// Replacing the generation drops its views in the same step.
type generation struct {
	dataset  *dataset.Dataset
	loadedAt time.Time

	mu     sync.Mutex
	views  map[string]*dataset.View
	hits   int
	misses int
}

// Manager manages the parcel dataset and provides methods to access it
type Manager struct {
	config Config
	logger *slog.Logger
	DB     *parceldb.Client

	mu      sync.RWMutex
	current *generation

	reloadMu sync.Mutex

	watcher      *fsnotify.Watcher
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager loads the parcel layer, synthesizes attributes and fills the
// table store. Any failure here is fatal to startup.
func InitManager(config Config, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := parceldb.NewClient(parceldb.NewConfig(config.DBPath, config.Env, config.Verbose), logger)
	if err != nil {
		return nil, fmt.Errorf("error building parcel database: %w", err)
	}

	manager := &Manager{
		config:       config,
		logger:       logger,
		DB:           db,
		shutdownChan: make(chan struct{}),
	}

	if err := manager.Reload(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	if config.Watch {
		if err := manager.startWatcher(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error watching %s: %w", config.DataPath, err)
		}
	}

	return manager, nil
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		if manager.watcher != nil {
			logging.SafeCloseWithLogging(manager.watcher, manager.logger, "parcel_watcher")
		}
		manager.wg.Wait()
		if manager.DB != nil {
			logging.SafeCloseWithLogging(manager.DB, manager.logger, "parcel_database")
		}
	})
}

func (manager *Manager) generation() *generation {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.current
}

// Dataset returns the current immutable dataset.
func (manager *Manager) Dataset() *dataset.Dataset {
	return manager.generation().dataset
}

// LastUpdated is when the current dataset was loaded.
func (manager *Manager) LastUpdated() time.Time {
	return manager.generation().loadedAt
}

// View returns the filtered view for f, computing it at most once per
// dataset generation.
func (manager *Manager) View(f dataset.Filter) *dataset.View {
	gen := manager.generation()
	key := f.Key()

	gen.mu.Lock()
	defer gen.mu.Unlock()

	if v, ok := gen.views[key]; ok {
		gen.hits++
		return v
	}
	gen.misses++

	v := gen.dataset.Apply(f)
	if len(gen.views) >= manager.config.viewCacheSize() {
		clear(gen.views)
	}
	gen.views[key] = v
	return v
}

// CacheStats reports view cache hits and misses for the current generation.
func (manager *Manager) CacheStats() (hits, misses int) {
	gen := manager.generation()
	gen.mu.Lock()
	defer gen.mu.Unlock()
	return gen.hits, gen.misses
}

// Reload rebuilds the dataset from the source file. On failure the previous
// dataset stays in place.
func (manager *Manager) Reload(ctx context.Context) error {
	manager.reloadMu.Lock()
	defer manager.reloadMu.Unlock()

	start := time.Now()

	parcels, err := manager.load(ctx)
	if err != nil {
		logging.LogError(manager.logger, "parcel load failed", err,
			slog.String("source", manager.config.DataPath))
		return err
	}

	if err := manager.DB.ReplaceParcels(ctx, parcels); err != nil {
		return fmt.Errorf("error storing parcels: %w", err)
	}

	gen := &generation{
		dataset:  dataset.New(parcels),
		loadedAt: time.Now(),
		views:    make(map[string]*dataset.View),
	}

	manager.mu.Lock()
	manager.current = gen
	manager.mu.Unlock()

	logging.LogOperation(manager.logger, "parcels_loaded",
		slog.String("source", manager.config.DataPath),
		slog.Int("parcels", gen.dataset.Len()),
		slog.Any("farms", gen.dataset.Farms()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

func (manager *Manager) load(ctx context.Context) ([]models.Parcel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features, err := geo.LoadFeatures(manager.config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("error loading parcels: %w", err)
	}

	opts := manager.config.Synth
	if opts.Catalog.Farms == nil {
		opts.Catalog = synth.DefaultOptions().Catalog
	}

	parcels, err := synth.Synthesize(features, opts)
	if err != nil {
		return nil, fmt.Errorf("error synthesizing attributes: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parcels, nil
}
