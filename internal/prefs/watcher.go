package prefs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts an fsnotify watcher on the preference file's directory and
// reloads the store when the file changes, until ctx is cancelled. Watching
// the directory instead of the file survives the atomic rename Save uses.
//
// Reloads are debounced, since editors and Save both produce event bursts.
func (st *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory must exist before it can be watched; a fresh install
	// has not saved anything yet.
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return err
	}

	st.logger.Info("preference watcher started", zap.String("dir", dir))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			st.logger.Info("preference watcher stopped")
			return nil

		case <-reloadCh:
			if err := st.Reload(); err != nil {
				st.logger.Warn("preference reload failed, keeping previous settings",
					zap.Error(err))
				continue
			}
			st.logger.Info("preferences reloaded",
				zap.String("storagePath", st.StoragePath()),
				zap.String("region", st.Region()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != st.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			st.logger.Warn("preference watcher error", zap.Error(err))
		}
	}
}
