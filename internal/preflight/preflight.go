package preflight

import (
	"context"
	"log/slog"

	"reelcut/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes the filesystem and database checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	// Exports print an ffmpeg command; the directory only has to exist
	// once that command is run.
	exports := CheckDirectoryAccess("Export directory", cfg.Export.OutputDir)
	exports.Optional = true
	results = append(results, exports)

	results = append(results, CheckProjectStore(ctx, cfg, logger))
	return results
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
