package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcut/internal/media"
	"reelcut/internal/project"
	"reelcut/internal/timeline"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Place and edit clips on the timeline",
	}
	cmd.AddCommand(newClipAddCommand(ctx))
	cmd.AddCommand(newClipListCommand(ctx))
	cmd.AddCommand(newClipSplitCommand(ctx))
	cmd.AddCommand(newClipTrimCommand(ctx))
	cmd.AddCommand(newClipDeleteCommand(ctx))
	cmd.AddCommand(newClipFilterCommand(ctx))
	cmd.AddCommand(newClipTransitionCommand(ctx))
	return cmd
}

func newClipAddCommand(ctx *commandContext) *cobra.Command {
	var trackFlag string
	cmd := &cobra.Command{
		Use:   "add <media>",
		Short: "Append media to the end of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var clip timeline.Clip
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				mediaID, err := matchID("media", args[0], assetIDs(session))
				if err != nil {
					return err
				}
				track, err := clipTrack(session, mediaID, trackFlag)
				if err != nil {
					return err
				}
				clip, err = session.InsertClip(cmd.Context(), mediaID, track)
				return err
			})
			if err != nil {
				return err
			}
			return printClip(cmd, ctx, "Added", clip)
		},
	}
	cmd.Flags().StringVar(&trackFlag, "track", "", "Target track: video or audio (default: audio for audio media, video otherwise)")
	return cmd
}

func clipTrack(session *project.Session, mediaID, flag string) (timeline.TrackKind, error) {
	if strings.TrimSpace(flag) != "" {
		return timeline.ParseTrack(flag)
	}
	asset, err := session.Asset(mediaID)
	if err != nil {
		return "", err
	}
	if asset.Kind == media.KindAudio {
		return timeline.TrackAudio, nil
	}
	return timeline.TrackVideo, nil
}

func newClipListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clips on both tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, session.Snapshot().Clips)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderClipTable(session))
			return nil
		},
	}
}

func newClipSplitCommand(ctx *commandContext) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "split <clip>",
		Short: "Split a clip at a timeline instant (default: its midpoint)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var point *time.Duration
			if strings.TrimSpace(at) != "" {
				d, err := parseSeconds("at", at)
				if err != nil {
					return err
				}
				point = &d
			}
			var left, right timeline.Clip
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				id, err := matchID("clip", args[0], clipIDs(session))
				if err != nil {
					return err
				}
				left, right, err = session.SplitClip(cmd.Context(), id, point)
				return err
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, []project.ClipRecord{project.NewClipRecord(left), project.NewClipRecord(right)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Split at %s\n", formatSeconds(left.TimelineEnd))
			writeClipLine(out, "left ", left)
			writeClipLine(out, "right", right)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Timeline instant in seconds")
	return cmd
}

func newClipTrimCommand(ctx *commandContext) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "trim <clip>",
		Short: "Move a clip's in-point and/or out-point",
		Long: "Positive --start removes material from the head, negative extends it.\n" +
			"Positive --end removes material from the tail, negative extends it.\n" +
			"Requests beyond the source media, the minimum clip length, or a neighbouring clip are clamped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
				return fmt.Errorf("nothing to trim: pass --start and/or --end")
			}
			var results []timeline.TrimResult
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				id, err := matchID("clip", args[0], clipIDs(session))
				if err != nil {
					return err
				}
				if strings.TrimSpace(start) != "" {
					delta, err := parseSeconds("start", start)
					if err != nil {
						return err
					}
					result, err := session.TrimStart(cmd.Context(), id, delta)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
				if strings.TrimSpace(end) != "" {
					delta, err := parseSeconds("end", end)
					if err != nil {
						return err
					}
					result, err := session.TrimEnd(cmd.Context(), id, delta)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
				return nil
			})
			if err != nil {
				return err
			}
			final := results[len(results)-1].Clip
			if ctx.jsonOutput() {
				return writeJSON(cmd, project.NewClipRecord(final))
			}
			out := cmd.OutOrStdout()
			for _, result := range results {
				if result.Clamped {
					fmt.Fprintf(out, "Trim clamped: requested %s, applied %s\n", formatSeconds(result.Requested), formatSeconds(result.Applied))
				}
			}
			writeClipLine(out, "trimmed", final)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Seconds to move the in-point (positive shortens)")
	cmd.Flags().StringVar(&end, "end", "", "Seconds to move the out-point (positive shortens)")
	return cmd
}

func newClipDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <clip>",
		Aliases: []string{"rm"},
		Short:   "Remove a clip, leaving a gap",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				var err error
				if id, err = matchID("clip", args[0], clipIDs(session)); err != nil {
					return err
				}
				return session.DeleteClip(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted clip %s\n", shortID(id))
			return nil
		},
	}
}

func newClipFilterCommand(ctx *commandContext) *cobra.Command {
	var (
		brightness, contrast, saturation, volume int
		look                                     string
		reset                                    bool
	)
	cmd := &cobra.Command{
		Use:   "filter <clip>",
		Short: "Adjust a clip's look and volume (percentages 0-200, clamped)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var clip timeline.Clip
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				id, err := matchID("clip", args[0], clipIDs(session))
				if err != nil {
					return err
				}
				current, err := session.Clip(id)
				if err != nil {
					return err
				}
				filters, vol := current.Filters, current.Volume
				if reset {
					filters, vol = timeline.DefaultFilters(), timeline.DefaultPercent
				}
				if flags.Changed("brightness") {
					filters.Brightness = brightness
				}
				if flags.Changed("contrast") {
					filters.Contrast = contrast
				}
				if flags.Changed("saturation") {
					filters.Saturation = saturation
				}
				if flags.Changed("look") {
					if filters.Kind, err = timeline.ParseFilterKind(look); err != nil {
						return err
					}
				}
				if flags.Changed("volume") {
					vol = volume
				}
				clip, err = session.ApplyFilters(cmd.Context(), id, filters, vol)
				return err
			})
			if err != nil {
				return err
			}
			return printClip(cmd, ctx, "Updated", clip)
		},
	}
	cmd.Flags().IntVar(&brightness, "brightness", timeline.DefaultPercent, "Brightness percent")
	cmd.Flags().IntVar(&contrast, "contrast", timeline.DefaultPercent, "Contrast percent")
	cmd.Flags().IntVar(&saturation, "saturation", timeline.DefaultPercent, "Saturation percent")
	cmd.Flags().IntVar(&volume, "volume", timeline.DefaultPercent, "Volume percent")
	cmd.Flags().StringVar(&look, "look", "", "Preset look: none, grayscale, sepia, blur, brightness, contrast")
	cmd.Flags().BoolVar(&reset, "reset", false, "Start from neutral settings")
	return cmd
}

func newClipTransitionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <clip> <none|fade|slide|zoom>",
		Short: "Set the entry transition of a clip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := timeline.ParseTransition(args[1])
			if err != nil {
				return err
			}
			var clip timeline.Clip
			err = ctx.editSession(cmd.Context(), func(session *project.Session) error {
				id, err := matchID("clip", args[0], clipIDs(session))
				if err != nil {
					return err
				}
				clip, err = session.SetTransition(cmd.Context(), id, kind)
				return err
			})
			if err != nil {
				return err
			}
			return printClip(cmd, ctx, "Updated", clip)
		},
	}
}

func printClip(cmd *cobra.Command, ctx *commandContext, verb string, clip timeline.Clip) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, project.NewClipRecord(clip))
	}
	writeClipLine(cmd.OutOrStdout(), strings.ToLower(verb), clip)
	return nil
}

func writeClipLine(out io.Writer, label string, clip timeline.Clip) {
	fmt.Fprintf(out, "%s clip %s on %s: %s-%s (source %s-%s) volume %d%% look %s entry %s\n",
		label,
		shortID(clip.ID),
		clip.Track,
		formatSeconds(clip.TimelineStart),
		formatSeconds(clip.TimelineEnd),
		formatSeconds(clip.TrimStart),
		formatSeconds(clip.TrimEnd),
		clip.Volume,
		describeFilters(clip.Filters),
		clip.Transition,
	)
}

func clipIDs(session *project.Session) []string {
	var ids []string
	for _, track := range timeline.Tracks {
		for _, clip := range session.Clips(track) {
			ids = append(ids, clip.ID)
		}
	}
	return ids
}
