package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/langpack/pkg/logger"
)

// Callback receives the coalesced set of changed paths once they settle.
// Errors are logged and do not stop the watcher.
type Callback func(ctx context.Context, paths []string) error

const defaultDebounce = 300 * time.Millisecond

// Watcher reports filesystem changes under the added roots. Rapid event
// bursts for the same path are coalesced: a path is reported only after it
// has stayed quiet for the debounce window, and all paths that settle
// together form one change set.
type Watcher struct {
	fw       *fsnotify.Watcher
	cb       Callback
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New returns a watcher that invokes cb with each settled change set.
func New(cb Callback, opts ...Option) (*Watcher, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fw:       fw,
		cb:       cb,
		debounce: defaultDebounce,
		log:      logger.Discard(),
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches root and, when it is a directory, every directory below it.
// Hidden directories and node_modules are skipped.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		if err := w.fw.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// WatchList returns the currently watched paths.
func (w *Watcher) WatchList() []string {
	return w.fw.WatchList()
}

// Start begins delivering change sets. It does not block; cancel ctx or call
// Stop to end watching. Starting an already running watcher does nothing.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop ends watching and waits for the event loop to drain. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fw.Close(); err != nil {
		w.log.Error("close watcher", logger.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	sweep := w.debounce / 4
	if sweep < 10*time.Millisecond {
		sweep = 10 * time.Millisecond
	}
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", logger.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// Watch new directories so files created inside them are seen.
			if err := w.Add(ev.Name); err != nil {
				w.log.Error("watch new directory", logger.Path(ev.Name), logger.Error(err))
			}
			return
		}
	}

	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)

	w.log.Debug("change set settled", logger.Count(len(settled)))
	if err := w.cb(ctx, settled); err != nil {
		w.log.Error("rebuild failed", logger.Error(err))
	}
}

// ignored reports editor temp files that never hold source content.
func ignored(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, "~")
}

func skipDir(name string) bool {
	if name == "node_modules" {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
