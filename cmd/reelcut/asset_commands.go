package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/project"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "asset",
		Aliases: []string{"media"},
		Short:   "Manage the project's media library",
	}
	cmd.AddCommand(newAssetImportCommand(ctx))
	cmd.AddCommand(newAssetAddCommand(ctx))
	cmd.AddCommand(newAssetListCommand(ctx))
	cmd.AddCommand(newAssetRemoveCommand(ctx))
	cmd.AddCommand(newAssetWatchCommand(ctx))
	return cmd
}

func (c *commandContext) importer() (*media.Importer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return media.NewImporter(ffprobe.NewProber(cfg.FFprobeBinary()), cfg.Probe.Concurrency, logger), nil
}

func newAssetImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Probe files with ffprobe and add them to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer, err := ctx.importer()
			if err != nil {
				return err
			}
			// Probing runs before the write lock so slow files never block
			// other editors.
			results, err := importer.Import(cmd.Context(), args)
			if err != nil {
				return err
			}

			err = ctx.editSession(cmd.Context(), func(session *project.Session) error {
				for i := range results {
					if results[i].Err != nil {
						continue
					}
					added, err := session.AddAsset(cmd.Context(), results[i].Asset)
					if err != nil {
						results[i].Err = err
						continue
					}
					results[i].Asset = added
				}
				return nil
			})
			if err != nil {
				return err
			}
			return printImportResults(cmd, ctx, results)
		},
	}
}

type importView struct {
	Path  string               `json:"path"`
	Asset *project.AssetRecord `json:"asset,omitempty"`
	Error string               `json:"error,omitempty"`
}

func printImportResults(cmd *cobra.Command, ctx *commandContext, results []media.ImportResult) error {
	failed := 0
	views := make([]importView, 0, len(results))
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			failed++
			views = append(views, importView{Path: result.Path, Error: result.Err.Error()})
			rows = append(rows, []string{"-", "failed", filepath.Base(result.Path), "-", result.Err.Error()})
			continue
		}
		asset := result.Asset
		record := project.NewAssetRecord(asset)
		views = append(views, importView{Path: result.Path, Asset: &record})
		duration := "-"
		if asset.HasSourceDuration() {
			duration = formatClock(asset.Duration)
		}
		rows = append(rows, []string{shortID(asset.ID), string(asset.Kind), asset.Label(), duration, formatSize(asset.SizeBytes)})
	}
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, views); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Media", "Kind", "Name", "Length", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be imported", failed, len(results))
	}
	return nil
}

func newAssetAddCommand(ctx *commandContext) *cobra.Command {
	var (
		kindFlag string
		seconds  string
		name     string
	)
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a file without probing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			kind, err := assetKind(kindFlag, path)
			if err != nil {
				return err
			}
			var duration time.Duration
			if strings.TrimSpace(seconds) != "" {
				if duration, err = parseSeconds("duration", seconds); err != nil {
					return err
				}
			}
			if strings.TrimSpace(name) == "" {
				name = media.DisplayNameFromPath(path)
			}
			asset := media.NewAsset(kind, name, path, duration)
			if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
				asset.SizeBytes = info.Size()
			}

			err = ctx.editSession(cmd.Context(), func(session *project.Session) error {
				asset, err = session.AddAsset(cmd.Context(), asset)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, project.NewAssetRecord(asset))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s)\n", asset.Kind, asset.Label(), asset.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Media kind: video, audio, or image (default: from extension)")
	cmd.Flags().StringVar(&seconds, "duration", "", "Source length in seconds (required for video and audio)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (default: derived from the file name)")
	return cmd
}

func assetKind(flag, path string) (media.Kind, error) {
	if strings.TrimSpace(flag) != "" {
		return media.ParseKind(flag)
	}
	if kind, ok := media.KindForPath(path); ok {
		return kind, nil
	}
	return media.ParseKind(filepath.Ext(path))
}

func newAssetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the project's media",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, session.Snapshot().Assets)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAssetTable(session))
			return nil
		},
	}
}

func newAssetRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <media>",
		Aliases: []string{"rm"},
		Short:   "Remove media no clip or overlay uses",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var label string
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				id, err := matchID("media", args[0], assetIDs(session))
				if err != nil {
					return err
				}
				if asset, err := session.Asset(id); err == nil {
					label = asset.Label()
				}
				return session.RemoveAsset(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", label)
			return nil
		},
	}
}

func newAssetWatchCommand(ctx *commandContext) *cobra.Command {
	var settle time.Duration
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Import new files dropped into a directory until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer, err := ctx.importer()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			watcher := media.NewWatcher(importer, settle, logger)
			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", args[0])
			return watcher.Watch(cmd.Context(), args[0], func(result media.ImportResult) {
				if result.Err != nil {
					fmt.Fprintf(out, "skip %s: %v\n", filepath.Base(result.Path), result.Err)
					return
				}
				err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
					_, err := session.AddAsset(cmd.Context(), result.Asset)
					return err
				})
				if err != nil {
					if cmd.Context().Err() == nil {
						logger.Warn("watch import failed", logging.String("path", result.Path), logging.Error(err))
						fmt.Fprintf(out, "skip %s: %v\n", filepath.Base(result.Path), err)
					}
					return
				}
				fmt.Fprintf(out, "added %s %q\n", result.Asset.Kind, result.Asset.Label())
			})
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", media.DefaultSettle, "Quiet period before a written file is imported")
	return cmd
}

func assetIDs(session *project.Session) []string {
	assets := session.Assets()
	ids := make([]string, len(assets))
	for i, asset := range assets {
		ids[i] = asset.ID
	}
	return ids
}
