package inbox

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"highpitch/internal/logging"
)

// Watcher imports session files as they appear in the inbox directory.
// Writes are debounced per path so a file is imported once it settles.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	importer    *Importer
	dir         string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	events      chan Result
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Imported      int
	Failed        int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, importer *Importer, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		watcher:     fw,
		importer:    importer,
		dir:         dir,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		events:      make(chan Result, 16),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Events delivers one Result per settled file.
func (w *Watcher) Events() <-chan Result {
	return w.events
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		w.setRunning(false)
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		w.setRunning(false)
		return err
	}
	logging.Inbox("watching %s (debounce %s)", w.dir, w.debounceDur)

	go w.run(ctx)
	return nil
}

func (w *Watcher) setRunning(v bool) {
	w.mu.Lock()
	w.running = v
	w.mu.Unlock()
}

// Stop stops the watcher and waits for cleanup.
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
		logging.InboxError("error closing watcher: %v", err)
	}
	logging.Inbox("watcher stopped")
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

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
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.InboxError("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			if !w.processDebounced(ctx) {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !Supported(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.mu.Unlock()
}

// processDebounced imports settled files. It returns false once the
// watcher is shutting down.
func (w *Watcher) processDebounced(ctx context.Context) bool {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		sess, err := w.importer.ImportFile(ctx, path)

		w.mu.Lock()
		if err != nil {
			w.stats.Failed++
		} else {
			w.stats.Imported++
		}
		w.mu.Unlock()

		select {
		case w.events <- Result{Path: path, Session: sess, Err: err}:
		case <-w.stopCh:
			return false
		case <-ctx.Done():
			return false
		}
	}
	return true
}
