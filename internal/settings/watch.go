package settings

import (
	"os"
	"sync"
	"time"
)

// Watcher polls a store's file and reloads it when the modification time
// moves forward. Fallback loads are reported too so callers can surface the
// notice.
type Watcher struct {
	store    *Store
	interval time.Duration
	onChange func(Record, LoadStatus, error)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	lastMod  time.Time
	seen     bool
}

// NewWatcher creates a watcher; call Start to begin polling.
func NewWatcher(store *Store, interval time.Duration, onChange func(Record, LoadStatus, error)) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		store:    store,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins polling in a goroutine. The current state of the file is
// recorded first and does not trigger onChange.
func (w *Watcher) Start() {
	w.scan(true)
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates polling and waits for the goroutine to exit. Only call it
// after Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}

func (w *Watcher) scan(prime bool) {
	fi, err := os.Stat(w.store.Path())
	if err != nil {
		// missing file; wait for it to appear
		return
	}
	mt := fi.ModTime()
	if !w.seen {
		w.seen = true
		w.lastMod = mt
		if prime {
			return
		}
	} else if !mt.After(w.lastMod) {
		return
	}
	w.lastMod = mt
	if w.onChange != nil {
		rec, status, err := w.store.Load()
		w.onChange(rec, status, err)
	}
}
