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

func newProjectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, inspect, and remove projects",
	}
	cmd.AddCommand(newProjectNewCommand(ctx))
	cmd.AddCommand(newProjectListCommand(ctx))
	cmd.AddCommand(newProjectShowCommand(ctx))
	cmd.AddCommand(newProjectDumpCommand(ctx))
	cmd.AddCommand(newProjectRenameCommand(ctx))
	cmd.AddCommand(newProjectDeleteCommand(ctx))
	return cmd
}

func newProjectNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			opts, err := ctx.sessionOptions()
			if err != nil {
				return err
			}
			session := project.New(strings.Join(args, " "), opts)
			env := session.Snapshot()
			if err := st.WithWriteLock(cmd.Context(), func() error {
				return st.Save(cmd.Context(), env)
			}); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, env.Project)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", env.Project.Name, env.Project.ID)
			return nil
		},
	}
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, most recently edited first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			summaries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet; create one with `reelcut project new <name>`")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					shortID(s.ID),
					s.Name,
					strconv.Itoa(s.ClipCount),
					formatClock(s.Duration),
					formatAgo(s.UpdatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Clips", "Duration", "Modified"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the project's media, clips, and overlays",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, session.Snapshot())
			}
			out := cmd.OutOrStdout()
			meta := session.Meta()
			fmt.Fprintf(out, "%s (%s)\n", meta.Name, meta.ID)
			fmt.Fprintf(out, "Duration %s, %d clips, updated %s\n\n", formatClock(session.Duration()), session.ClipCount(), formatAgo(meta.UpdatedAt))
			fmt.Fprintln(out, renderAssetTable(session))
			fmt.Fprintln(out, renderClipTable(session))
			if len(session.Overlays()) > 0 {
				fmt.Fprintln(out, renderOverlayTable(session))
			}
			return nil
		},
	}
}

func newProjectDumpCommand(ctx *commandContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the project envelope as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			env := session.Snapshot()
			var data []byte
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "json", "":
				data, err = env.Encode()
			case "yaml", "yml":
				data, err = env.YAML()
			default:
				return services.Wrap(services.ErrValidation, "cli", "dump", fmt.Sprintf("unknown format %q (want json or yaml)", format), nil)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			if len(data) > 0 && data[len(data)-1] != '\n' {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}

func newProjectRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var meta project.Meta
			err := ctx.editSession(cmd.Context(), func(session *project.Session) error {
				session.Rename(strings.Join(args, " "))
				meta = session.Meta()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed project to %q\n", meta.Name)
			return nil
		},
	}
}

func newProjectDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			var name string
			err = st.WithWriteLock(cmd.Context(), func() error {
				summary, err := st.Find(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				name = summary.Name
				return st.Delete(cmd.Context(), summary.ID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %q\n", name)
			return nil
		},
	}
}

func renderAssetTable(session *project.Session) string {
	assets := session.Assets()
	rows := make([][]string, 0, len(assets))
	for _, asset := range assets {
		duration := "-"
		if asset.HasSourceDuration() {
			duration = formatClock(asset.Duration)
		}
		rows = append(rows, []string{shortID(asset.ID), string(asset.Kind), asset.Label(), duration, formatSize(asset.SizeBytes)})
	}
	return renderTable(
		[]string{"Media", "Kind", "Name", "Length", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderClipTable(session *project.Session) string {
	var rows [][]string
	for _, track := range timeline.Tracks {
		for _, clip := range session.Clips(track) {
			name := shortID(clip.MediaID)
			if asset, err := session.Asset(clip.MediaID); err == nil {
				name = asset.Label()
			}
			rows = append(rows, []string{
				shortID(clip.ID),
				string(track),
				name,
				formatSeconds(clip.TimelineStart),
				formatSeconds(clip.TimelineEnd),
				formatSeconds(clip.TrimStart) + "-" + formatSeconds(clip.TrimEnd),
				strconv.Itoa(clip.Volume) + "%",
				describeFilters(clip.Filters),
				string(clip.Transition),
			})
		}
	}
	return renderTable(
		[]string{"Clip", "Track", "Media", "Start", "End", "Source", "Volume", "Look", "Entry"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderOverlayTable(session *project.Session) string {
	var rows [][]string
	for _, overlay := range session.Overlays() {
		content := overlay.Content
		if overlay.Kind == timeline.OverlayImage {
			if asset, err := session.Asset(overlay.Content); err == nil {
				content = asset.Label()
			}
		}
		rows = append(rows, []string{
			shortID(overlay.ID),
			string(overlay.Kind),
			content,
			fmt.Sprintf("%.0f,%.0f", overlay.X, overlay.Y),
			fmt.Sprintf("%.0fx%.0f", overlay.Width, overlay.Height),
			formatSeconds(overlay.Start) + "-" + formatSeconds(overlay.End),
		})
	}
	return renderTable(
		[]string{"Overlay", "Kind", "Content", "Position", "Size", "Window"},
		rows,
		nil,
	)
}

func describeFilters(f timeline.Filters) string {
	if f.IsNeutral() {
		return "-"
	}
	parts := make([]string, 0, 4)
	if f.Kind != timeline.FilterNone {
		parts = append(parts, string(f.Kind))
	}
	if f.Brightness != timeline.DefaultPercent {
		parts = append(parts, fmt.Sprintf("b%d", f.Brightness))
	}
	if f.Contrast != timeline.DefaultPercent {
		parts = append(parts, fmt.Sprintf("c%d", f.Contrast))
	}
	if f.Saturation != timeline.DefaultPercent {
		parts = append(parts, fmt.Sprintf("s%d", f.Saturation))
	}
	return strings.Join(parts, " ")
}
