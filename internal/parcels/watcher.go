package parcels

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"talhoes.dashboard.org/internal/logging"
)

const reloadTimeout = 60 * time.Second

// startWatcher watches the directory holding the data file, since editors and
// copy tools often replace the file instead of writing it in place.
func (manager *Manager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(manager.config.DataPath)); err != nil {
		_ = watcher.Close()
		return err
	}
	manager.watcher = watcher

	manager.wg.Add(1)
	go manager.watch()

	manager.logger.Info("watching parcel source", slog.String("path", manager.config.DataPath))
	return nil
}

// relevant reports whether path belongs to the data file. A shapefile is a
// set of sidecar files sharing one stem.
func (manager *Manager) relevant(path string) bool {
	src := filepath.Clean(manager.config.DataPath)
	path = filepath.Clean(path)
	if path == src {
		return true
	}
	if !strings.EqualFold(filepath.Ext(src), ".shp") {
		return false
	}
	stem := strings.TrimSuffix(src, filepath.Ext(src))
	return strings.TrimSuffix(path, filepath.Ext(path)) == stem
}

func (manager *Manager) watch() {
	defer manager.wg.Done()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-manager.shutdownChan:
			return

		case event, ok := <-manager.watcher.Events:
			if !ok {
				return
			}
			if !manager.relevant(event.Name) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounce.Reset(manager.config.debounce())

		case err, ok := <-manager.watcher.Errors:
			if !ok {
				return
			}
			logging.LogError(manager.logger, "parcel watcher error", err)

		case <-debounce.C:
			ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
			if err := manager.Reload(ctx); err != nil {
				manager.logger.Warn("keeping previous dataset", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}
