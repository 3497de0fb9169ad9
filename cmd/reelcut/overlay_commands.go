package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/project"
	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

func newOverlayCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Add and edit text or image overlays",
	}
	cmd.AddCommand(newOverlayAddCommand(ctx))
	cmd.AddCommand(newOverlayMoveCommand(ctx))
	cmd.AddCommand(newOverlayResizeCommand(ctx))
	cmd.AddCommand(newOverlayRetimeCommand(ctx))
	cmd.AddCommand(newOverlayTextCommand(ctx))
	cmd.AddCommand(newOverlayDeleteCommand(ctx))
	return cmd
}

// overlayEdit resolves the overlay id inside the locked session and runs fn.
func overlayEdit(cmd *cobra.Command, ctx *commandContext, ref string, fn func(*project.Session, string) (timeline.Overlay, error)) error {
	var overlay timeline.Overlay
	err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
		id, err := matchID("overlay", ref, overlayIDs(session))
		if err != nil {
			return err
		}
		overlay, err = fn(session, id)
		return err
	})
	if err != nil {
		return err
	}
	return printOverlay(cmd, ctx, overlay)
}

func newOverlayAddCommand(ctx *commandContext) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "add <text|image> <content>",
		Short: "Add an overlay; content is the text or the image media id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := timeline.ParseOverlayKind(args[0])
			if err != nil {
				return err
			}
			anchor, err := parseSeconds("at", at)
			if err != nil {
				return err
			}
			var overlay timeline.Overlay
			err = ctx.editSession(cmd.Context(), func(session *project.Session) error {
				content := strings.Join(args[1:], " ")
				if kind == timeline.OverlayImage {
					if content, err = matchID("media", args[1], assetIDs(session)); err != nil {
						return err
					}
				}
				overlay, err = session.AddOverlay(cmd.Context(), kind, content, anchor)
				return err
			})
			if err != nil {
				return err
			}
			return printOverlay(cmd, ctx, overlay)
		},
	}
	cmd.Flags().StringVar(&at, "at", "0", "Timeline instant in seconds where the overlay starts")
	return cmd
}

func newOverlayMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <overlay> <x> <y>",
		Short: "Move an overlay (negative coordinates clamp to 0)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseNumber("x", args[1])
			if err != nil {
				return err
			}
			y, err := parseNumber("y", args[2])
			if err != nil {
				return err
			}
			return overlayEdit(cmd, ctx, args[0], func(session *project.Session, id string) (timeline.Overlay, error) {
				return session.MoveOverlay(cmd.Context(), id, x, y)
			})
		},
	}
}

func newOverlayResizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <overlay> <factor>",
		Short: "Scale an overlay's box (factor floors at 0.1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := parseNumber("factor", args[1])
			if err != nil {
				return err
			}
			return overlayEdit(cmd, ctx, args[0], func(session *project.Session, id string) (timeline.Overlay, error) {
				return session.ResizeOverlay(cmd.Context(), id, factor)
			})
		},
	}
}

func newOverlayRetimeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retime <overlay> <start> <end>",
		Short: "Change when an overlay is visible (seconds)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSeconds("start", args[1])
			if err != nil {
				return err
			}
			end, err := parseSeconds("end", args[2])
			if err != nil {
				return err
			}
			return overlayEdit(cmd, ctx, args[0], func(session *project.Session, id string) (timeline.Overlay, error) {
				return session.RetimeOverlay(cmd.Context(), id, start, end)
			})
		},
	}
}

func newOverlayTextCommand(ctx *commandContext) *cobra.Command {
	var update timeline.TextUpdate
	cmd := &cobra.Command{
		Use:   "text <overlay>",
		Short: "Edit a text overlay's text, font size, or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return overlayEdit(cmd, ctx, args[0], func(session *project.Session, id string) (timeline.Overlay, error) {
				return session.UpdateOverlayText(cmd.Context(), id, update)
			})
		},
	}
	cmd.Flags().StringVar(&update.Text, "text", "", "New text")
	cmd.Flags().Float64Var(&update.FontSize, "size", 0, "Font size in points")
	cmd.Flags().StringVar(&update.Color, "color", "", "Text color as #RRGGBB")
	return cmd
}

func newOverlayDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <overlay>",
		Aliases: []string{"rm"},
		Short:   "Remove an overlay",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				var err error
				if id, err = matchID("overlay", args[0], overlayIDs(session)); err != nil {
					return err
				}
				return session.DeleteOverlay(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted overlay %s\n", shortID(id))
			return nil
		},
	}
}

func printOverlay(cmd *cobra.Command, ctx *commandContext, overlay timeline.Overlay) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, project.NewOverlayRecord(overlay))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "overlay %s (%s) at %.0f,%.0f size %.0fx%.0f visible %s-%s\n",
		shortID(overlay.ID),
		overlay.Kind,
		overlay.X, overlay.Y,
		overlay.Width, overlay.Height,
		formatSeconds(overlay.Start),
		formatSeconds(overlay.End),
	)
	return nil
}

func parseNumber(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "cli", name, fmt.Sprintf("%q is not a number", value), nil)
	}
	return v, nil
}

func overlayIDs(session *project.Session) []string {
	overlays := session.Overlays()
	ids := make([]string, len(overlays))
	for i, overlay := range overlays {
		ids[i] = overlay.ID
	}
	return ids
}
