package hookconfig

import (
	"github.com/fsnotify/fsnotify"

	"github.com/agentcore/agentcore/internal/logging"
)

// Watcher reloads hook configuration whenever the watched files change.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// WatchFiles starts watching the given paths (missing files are skipped) and
// invokes onReload with the freshly merged configuration after every event.
func WatchFiles(directory string, paths []string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			logging.Warn().Err(err).Str("path", p).Msg("hookconfig: not watching missing file")
		}
	}

	w := &Watcher{fsw: fsw}

	go func() {
		for {
			select {
			case evt, ok := <-fsw.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(directory)
				if err != nil {
					logging.Warn().Err(err).Msg("hookconfig: reload failed, keeping previous configuration")
					continue
				}
				onReload(cfg)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logging.Warn().Err(err).Msg("hookconfig: watch error")
			}
		}
	}()

	return w, nil
}

// Close stops the watch. Idempotent.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
