package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcherSettlesSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	notes := filepath.Join(dir, "notes.txt")
	for _, path := range []string{clip, notes} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	w := NewWatcher(nil, time.Second, nil)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.note(fsnotify.Event{Name: clip, Op: fsnotify.Create}, start)
	w.note(fsnotify.Event{Name: notes, Op: fsnotify.Create}, start)
	w.note(fsnotify.Event{Name: clip, Op: fsnotify.Chmod}, start.Add(5*time.Second))

	if ready := w.settled(start.Add(500 * time.Millisecond)); len(ready) != 0 {
		t.Fatalf("expected nothing settled yet, got %v", ready)
	}
	w.note(fsnotify.Event{Name: clip, Op: fsnotify.Write}, start.Add(800*time.Millisecond))
	if ready := w.settled(start.Add(1500 * time.Millisecond)); len(ready) != 0 {
		t.Fatalf("write should restart the settle window, got %v", ready)
	}
	ready := w.settled(start.Add(2 * time.Second))
	if len(ready) != 1 || ready[0] != clip {
		t.Fatalf("expected clip to settle, got %v", ready)
	}

	w.note(fsnotify.Event{Name: clip, Op: fsnotify.Write}, start.Add(3*time.Second))
	if ready := w.settled(start.Add(10 * time.Second)); len(ready) != 0 {
		t.Fatalf("imported files should not be queued again, got %v", ready)
	}
}
