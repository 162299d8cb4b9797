package swagger

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// errorBacklog is how many watch errors wait for a reader before new ones are
// counted as dropped.
const errorBacklog = 8

// Watcher reports changes of a single file on Update and watch failures on
// Errors. Bursts of events are debounced into one update.
type Watcher struct {
	watcher      *fsnotify.Watcher
	filename     string
	debounceTime time.Duration

	mu    sync.Mutex
	timer *time.Timer

	done      chan struct{}
	closeOnce sync.Once

	updates chan struct{}
	errs    chan error
	dropped atomic.Uint64

	Update <-chan struct{}
	Errors <-chan error
}

const DEFAULT_DEBOUNCE_TIME = 100 * time.Millisecond

// WatchFile watches the parent directory so editors replacing the file on
// save keep being followed.
func WatchFile(filename string, debounceTime time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := newWatcher(watcher, abs, debounceTime)
	go out.process(watcher.Events, watcher.Errors)

	return out, nil
}

func newWatcher(watcher *fsnotify.Watcher, filename string, debounceTime time.Duration) *Watcher {
	updates := make(chan struct{}, 1)
	errs := make(chan error, errorBacklog)

	return &Watcher{
		watcher:      watcher,
		filename:     filename,
		debounceTime: debounceTime,
		done:         make(chan struct{}),
		updates:      updates,
		errs:         errs,
		Update:       updates,
		Errors:       errs,
	}
}

// Dropped returns how many watch errors were discarded because Errors was
// full.
func (w *Watcher) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *Watcher) notify() {
	select {
	case w.updates <- struct{}{}:
	case <-w.done:
	default:
		// an update is already pending
	}
}

func (w *Watcher) fail(err error) {
	select {
	case w.errs <- err:
	case <-w.done:
	default:
		w.dropped.Add(1)
	}
}

func (w *Watcher) debounceUpdate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounceTime, w.notify)
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *Watcher) process(events <-chan fsnotify.Event, errors <-chan error) {
	for {
		select {
		case <-w.done:
			return
		case err, ok := <-errors:
			if !ok {
				return
			}
			w.fail(err)
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.filename {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.debounceUpdate()
			}
		}
	}
}
