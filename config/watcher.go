package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaijs/hub/timing"
)

// ErrWatcherClosed is returned when operations are attempted on a closed
// watcher.
var ErrWatcherClosed = errors.New("config watcher is closed")

// ReloadFunc receives the freshly loaded option tree, or the load error.
type ReloadFunc func(options map[string]any, err error)

// Watcher reloads one TOML option file whenever it changes on disk and
// hands the result to a callback. Editors typically replace files with a
// rename-plus-write burst, so reloads are debounced.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	path    string
	onload  ReloadFunc
	control *timing.Control
	done    chan struct{}
	closed  bool
}

// WatchFile starts watching path and calls onload after each change.
// The initial load is the caller's responsibility (via LoadTOML).
func WatchFile(path string, debounce time.Duration, onload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: rename-based saves drop the watch on the file
	// itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		path:    abs,
		onload:  onload,
		control: timing.NewControl(),
		done:    make(chan struct{}),
	}
	go w.loop(debounce)
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string { return w.path }

// Close stops the watcher and cancels any pending reload. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.control.CancelAll()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(debounce time.Duration) {
	defer close(w.done)

	reload := timing.Debounce(w.control, func(struct{}) {
		w.onload(LoadTOML(w.path))
	}, debounce, "reload")

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				reload(struct{}{})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onload(nil, err)
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}
