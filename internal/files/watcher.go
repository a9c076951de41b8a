package files

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/websocket"
)

// DefaultDebounce is how long a master file must stay quiet before a change
// is announced
const DefaultDebounce = 250 * time.Millisecond

// Notifier receives master file changes
type Notifier interface {
	BroadcastDataUpdate(update websocket.DataUpdate)
}

// Watcher follows the data directory and announces created, rewritten or
// removed master files. Temp files and unknown names are ignored. Bursts of
// events for the same file collapse into one announcement.
type Watcher struct {
	dir      string
	notifier Notifier
	debounce time.Duration
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher for dir. debounce <= 0 uses DefaultDebounce.
func NewWatcher(dir string, notifier Notifier, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		dir:      dir,
		notifier: notifier,
		debounce: debounce,
		logger:   logger.With(slog.String("component", "file_watcher")),
		watcher:  fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directory is registered; events
// are processed until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.started.Store(true)
	if err := w.watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.InfoContext(ctx, "watching data directory", slog.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the event loop to exit. A watcher that
// was never started just releases its descriptor.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		if !w.started.Load() {
			w.watcher.Close()
			close(w.done)
		}
	})
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if _, known := masterSource(name); !known {
				continue
			}
			pending[name] |= ev.Op
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "watcher error", slog.String("error", err.Error()))
		case <-timer.C:
			for name, op := range pending {
				w.announce(ctx, name, op)
			}
			clear(pending)
		}
	}
}

func (w *Watcher) announce(ctx context.Context, name string, op fsnotify.Op) {
	src, _ := masterSource(name)
	kind := "updated"
	if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
		// a rename onto the name shows up as Create
		kind = "removed"
		if op.Has(fsnotify.Create) {
			kind = "updated"
		}
	}
	w.logger.InfoContext(ctx, "master file changed",
		slog.String("source", string(src)),
		slog.String("file", name),
		slog.String("op", kind))
	if w.notifier != nil {
		w.notifier.BroadcastDataUpdate(websocket.DataUpdate{Source: string(src), File: name, Op: kind})
	}
}

func masterSource(name string) (insights.Source, bool) {
	for _, s := range insights.Sources {
		if s.FileName == name {
			return s.Source, true
		}
	}
	return "", false
}
