package game

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const reloadDebounce = 100 * time.Millisecond

// TuningWatcher reloads a tuning file whenever it changes on disk
type TuningWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

// NewTuningWatcher watches the directory holding path so editors that
// replace the file on save are still seen.
func NewTuningWatcher(path string, log zerolog.Logger) (*TuningWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve %s", path)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, eris.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	return &TuningWatcher{path: abs, watcher: w, log: log.With().Str("tuning", abs).Logger()}, nil
}

// Run forwards each successfully parsed tuning to out until ctx ends.
// Bursts of events are coalesced and the file is read once it has been
// quiet for reloadDebounce. A file that fails to load or validate is
// logged and the old tuning stays in effect.
func (t *TuningWatcher) Run(ctx context.Context, out chan<- Tuning) error {
	defer t.watcher.Close()

	settle := time.NewTimer(reloadDebounce)
	if !settle.Stop() {
		<-settle.C
	}

	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != t.path {
				continue
			}
			settle.Reset(reloadDebounce)

		case <-settle.C:
			tuning, err := LoadTuning(t.path)
			if err != nil {
				t.log.Warn().Err(err).Msg("keeping previous tuning")
				continue
			}
			t.log.Debug().Msg("tuning file changed")
			select {
			case out <- tuning:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			t.log.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}
