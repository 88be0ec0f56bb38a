package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads Config from disk whenever its YAML file changes and
// hands the reloaded Config to a callback. It does not apply the new
// values to anything itself; motivad's callback only logs the change.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
}

// WatchConfigFile starts watching ConfigPath() for writes. onChange is
// called with the freshly reloaded Config after each write event; reload
// errors are logged and otherwise ignored so a transient bad write
// doesn't crash the watcher. Call Close when done.
func WatchConfigFile(onChange func(*Config)) (*Watcher, error) {
	path := ConfigPath()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsWatcher: fsw, path: path}

	if err := fsw.Add(path); err != nil {
		// The config file may not exist yet (pure env/default config); watch
		// its directory instead so a later `WriteYAML` still triggers a reload.
		if dirErr := fsw.Add(filepath.Dir(path)); dirErr != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(*Config)) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !(event.Op&(fsnotify.Write|fsnotify.Create) != 0) {
				continue
			}
			cfg, err := Load()
			if err != nil {
				slog.Warn("config_reload_failed", slog.String("error", err.Error()))
				continue
			}
			onChange(cfg)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config_watch_error", slog.String("error", err.Error()))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
