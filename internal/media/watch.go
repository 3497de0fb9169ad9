package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"reelcut/internal/logging"
)

// DefaultSettle is how long a file must stay unchanged before it is imported.
const DefaultSettle = 2 * time.Second

// Watcher imports media files as they appear in a directory.
type Watcher struct {
	importer *Importer
	settle   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	seen    map[string]struct{}
}

// NewWatcher returns a watcher that hands settled files to importer.
func NewWatcher(importer *Importer, settle time.Duration, logger *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		importer: importer,
		settle:   settle,
		logger:   logging.NewComponentLogger(logger, "watch"),
		pending:  make(map[string]time.Time),
		seen:     make(map[string]struct{}),
	}
}

// Watch blocks until ctx is done, calling onImport for every supported file
// created or rewritten in dir once its writes have settled. Files already in
// dir are left alone.
func (w *Watcher) Watch(ctx context.Context, dir string, onImport func(ImportResult)) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve watch dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch dir %s is not a directory", abs)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsWatcher.Close()
	if err := fsWatcher.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	w.logger.Info("watching for media", logging.String("dir", abs), logging.Duration("settle", w.settle))

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			w.note(event, time.Now())
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file events may be missed"),
			)
		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				asset, err := w.importer.Probe(ctx, path)
				if onImport != nil {
					onImport(ImportResult{Path: path, Asset: asset, Err: err})
				}
			}
		}
	}
}

func (w *Watcher) note(event fsnotify.Event, now time.Time) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !Supported(event.Name) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, done := w.seen[event.Name]; done {
		return
	}
	w.pending[event.Name] = now
}

// settled pops files whose last write is older than the settle window.
func (w *Watcher) settled(now time.Time) []string {
	threshold := now.Add(-w.settle)
	w.mu.Lock()
	defer w.mu.Unlock()
	var ready []string
	for path, last := range w.pending {
		if last.Before(threshold) {
			ready = append(ready, path)
			delete(w.pending, path)
			w.seen[path] = struct{}{}
		}
	}
	return ready
}
