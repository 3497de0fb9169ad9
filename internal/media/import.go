package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reelcut/internal/logging"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/services"
)

// Inspector probes a file. *ffprobe.Prober satisfies it.
type Inspector interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// ImportResult pairs an input path with its probed asset or failure.
type ImportResult struct {
	Path  string
	Asset Asset
	Err   error
}

// Importer converts files into assets.
type Importer struct {
	inspector   Inspector
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewImporter returns an importer probing at most concurrency files at once.
func NewImporter(inspector Inspector, concurrency int, logger *slog.Logger) *Importer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Importer{
		inspector:   inspector,
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "import"),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Import probes every path concurrently. Results keep input order; a failure
// on one file does not stop the others. The returned error is only set when
// ctx ends before all files were probed.
func (im *Importer) Import(ctx context.Context, paths []string) ([]ImportResult, error) {
	results := make([]ImportResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			asset, err := im.Probe(gctx, path)
			results[i].Asset = asset
			results[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("import canceled: %w", err)
	}
	return results, nil
}

// Probe inspects a single file and classifies it.
func (im *Importer) Probe(ctx context.Context, path string) (Asset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrInvalidAsset, "import", "resolve path", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrInvalidAsset, "import", "stat", abs, err)
	}
	if info.IsDir() {
		return Asset{}, services.Wrap(services.ErrInvalidAsset, "import", "stat", abs+" is a directory", nil)
	}

	result, err := im.inspector.Inspect(ctx, abs)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrInvalidAsset, "import", "probe", abs, err)
	}

	kind, err := classify(result, abs)
	if err != nil {
		return Asset{}, err
	}
	size := result.SizeBytes()
	if size == 0 {
		size = info.Size()
	}

	asset := Asset{
		ID:          im.newID(),
		Kind:        kind,
		DisplayName: DisplayNameFromPath(abs),
		URI:         abs,
		SizeBytes:   size,
		ImportedAt:  im.now(),
	}
	if kind != KindImage {
		asset.Duration = result.Duration()
	}
	if err := asset.Validate(); err != nil {
		return Asset{}, err
	}
	im.logger.Info("media probed",
		logging.String(logging.FieldMediaID, asset.ID),
		logging.String("path", abs),
		logging.String("kind", string(kind)),
		logging.Seconds("duration", asset.Duration),
	)
	return asset, nil
}

func classify(result ffprobe.Result, path string) (Kind, error) {
	switch {
	case result.IsStillImage():
		return KindImage, nil
	case result.VideoStreamCount() > 0:
		return KindVideo, nil
	case result.AudioStreamCount() > 0:
		return KindAudio, nil
	}
	if kind, ok := KindForPath(path); ok && kind == KindImage && len(result.Streams) > 0 {
		return KindImage, nil
	}
	return "", services.Wrap(services.ErrInvalidAsset, "import", "classify", fmt.Sprintf("%s has no audio or video streams", path), nil)
}
