package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reelcut/internal/compose"
	"reelcut/internal/logging"
	"reelcut/internal/playback"
	"reelcut/internal/project"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var (
		from  string
		limit time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Preview playback in the terminal until the end or Ctrl-C",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseSeconds("from", from)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderer := newStatusRenderer(out, session)
			controller := playback.NewController(session, renderer, playback.Options{Logger: logger})
			controller.Seek(start)
			if err := controller.Play(); err != nil {
				return err
			}

			runCtx, cancel := withTimeout(cmd.Context(), limit)
			defer cancel()
			err = controller.Run(runCtx, cfg.TickInterval())
			if runCtx.Err() != nil {
				controller.Pause()
				err = nil
			}
			renderer.finish(controller.Status())
			if dropped := controller.Dropped(); dropped > 0 {
				logger.Info("playback finished", logging.Int64("dropped_ticks", dropped))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "0", "Start position in seconds")
	cmd.Flags().DurationVar(&limit, "for", 0, "Stop after this long (e.g. 5s); 0 plays to the end")
	return cmd
}

func withTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// statusRenderer redraws one status line on a terminal, and prints a line
// per change of visible content otherwise.
type statusRenderer struct {
	out     io.Writer
	session *project.Session
	live    bool
	last    string
}

func newStatusRenderer(out io.Writer, session *project.Session) *statusRenderer {
	live := false
	if f, ok := out.(*os.File); ok {
		live = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &statusRenderer{out: out, session: session, live: live}
}

func (r *statusRenderer) Render(frame compose.FrameDescriptor) {
	content := describeClipFrame(r.session, frame.Video, "placeholder")
	if n := len(frame.Overlays); n > 0 {
		content += fmt.Sprintf(" +%d overlay(s)", n)
	}
	if r.live {
		fmt.Fprintf(r.out, "\r\033[K%s / %s  %s", formatClock(frame.At), formatClock(r.session.Duration()), content)
		return
	}
	key := "placeholder"
	if frame.Video != nil {
		key = frame.Video.ClipID
	}
	key += fmt.Sprintf("/%d", len(frame.Overlays))
	if key != r.last {
		fmt.Fprintf(r.out, "%s  %s\n", formatClock(frame.At), content)
		r.last = key
	}
}

func (r *statusRenderer) finish(status playback.Status) {
	if r.live {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "%s at %s of %s\n", status.State, formatClock(status.Position), formatClock(status.Duration))
}
