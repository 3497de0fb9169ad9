package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/services"
)

type fakeInspector map[string]ffprobe.Result

func (f fakeInspector) Inspect(_ context.Context, path string) (ffprobe.Result, error) {
	result, ok := f[filepath.Base(path)]
	if !ok {
		return ffprobe.Result{}, errors.New("unsupported")
	}
	return result, nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImportClassifiesAndKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "clip_one.mp4"),
		writeFile(t, dir, "song.mp3"),
		writeFile(t, dir, "logo.png"),
		writeFile(t, dir, "broken.mp4"),
		filepath.Join(dir, "missing.mov"),
	}
	inspector := fakeInspector{
		"clip_one.mp4": {
			Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264"}, {CodecType: "audio"}},
			Format:  ffprobe.Format{Duration: "10.0", Size: "5000000"},
		},
		"song.mp3": {
			Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: "mp3"}},
			Format:  ffprobe.Format{Duration: "180.5"},
		},
		"logo.png": {
			Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "png"}},
			Format:  ffprobe.Format{FormatName: "png_pipe", Duration: "0.04"},
		},
	}

	importer := media.NewImporter(inspector, 2, logging.NewNop())
	results, err := importer.Import(context.Background(), paths)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d out of order: %s", i, res.Path)
		}
	}

	video := results[0]
	if video.Err != nil || video.Asset.Kind != media.KindVideo || video.Asset.Duration != 10*time.Second {
		t.Fatalf("unexpected video result %+v", video)
	}
	if video.Asset.SizeBytes != 5000000 || video.Asset.DisplayName != "Clip One" {
		t.Fatalf("unexpected video metadata %+v", video.Asset)
	}
	if results[1].Asset.Kind != media.KindAudio || results[1].Asset.Duration != 180500*time.Millisecond {
		t.Fatalf("unexpected audio result %+v", results[1])
	}
	if results[1].Asset.SizeBytes != 4 {
		t.Fatalf("expected size to fall back to stat, got %d", results[1].Asset.SizeBytes)
	}
	if results[2].Asset.Kind != media.KindImage || results[2].Asset.Duration != 0 {
		t.Fatalf("unexpected image result %+v", results[2])
	}
	for _, idx := range []int{3, 4} {
		if !errors.Is(results[idx].Err, services.ErrInvalidAsset) {
			t.Fatalf("expected ErrInvalidAsset for %s, got %v", results[idx].Path, results[idx].Err)
		}
	}
}

func TestImportRejectsZeroDurationVideo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.mp4")
	importer := media.NewImporter(fakeInspector{
		"empty.mp4": {Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264", NBFrames: "0"}}},
	}, 1, nil)

	if _, err := importer.Probe(context.Background(), path); !errors.Is(err, services.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestImportStopsOnCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clip.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := media.NewImporter(fakeInspector{}, 1, nil)
	results, err := importer.Import(ctx, []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected per-file error, got %+v", results)
	}
}
