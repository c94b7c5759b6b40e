package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reloads a Store when YAML files in its override directory change.
// Bursts of writes (editors saving through temp files) are coalesced.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Catalog)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the store's override directory
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	if store.Dir() == "" {
		return nil, fmt.Errorf("catalog store has no override directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnReload registers a callback invoked after each successful reload
func (w *Watcher) OnReload(fn func(*Catalog)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir(), err)
	}
	w.running = true

	log.WithField("dir", w.store.Dir()).Info("Watching catalog directory")
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		log.Errorf("Error closing catalog watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".yaml" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.WithFields(log.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Catalog file changed")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("Catalog watcher error: %v", err)

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		log.Errorf("Keeping previous catalog: %v", err)
		return
	}

	w.mu.Lock()
	callback := w.onReload
	w.mu.Unlock()
	if callback != nil {
		callback(w.store.Get())
	}
}
