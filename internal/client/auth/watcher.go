package auth

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/classpulse/classpulse/internal/logging"
)

// WatchStorage feeds external changes of the durable auth storage into the
// state's update path, the way a browser tab observes storage events from
// its siblings. It watches the directory containing dbPath (the database
// file itself is replaced by some writers) and reloads the state whenever a
// file belonging to the database changes.
//
// The watcher runs until ctx is cancelled. Last writer wins; there is no
// merge, since writes only originate from deliberate user action in one
// process at a time.
func WatchStorage(ctx context.Context, state *State, dbPath string, log logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	base := filepath.Base(dbPath)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// sqlite writes touch the db file plus -wal/-shm siblings
				if !strings.HasPrefix(filepath.Base(event.Name), base) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := state.Reload(ctx); err != nil {
					log.Warn(ctx, "failed to reload auth state", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn(ctx, "auth storage watcher error", "error", err)
			}
		}
	}()

	return nil
}
