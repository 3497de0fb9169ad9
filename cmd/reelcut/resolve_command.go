package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/compose"
	"reelcut/internal/project"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show what plays and what is drawn at a timeline instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseSeconds("at", at)
			if err != nil {
				return err
			}
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			frame := session.Resolve(t)
			if ctx.jsonOutput() {
				return writeJSON(cmd, newFrameView(frame))
			}
			writeFrame(cmd.OutOrStdout(), session, frame)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "0", "Timeline instant in seconds")
	return cmd
}

type clipFrameView struct {
	ClipID       string   `json:"clip_id"`
	MediaID      string   `json:"media_id"`
	Track        string   `json:"track"`
	SourceOffset float64  `json:"source_offset"`
	Brightness   float64  `json:"brightness"`
	Contrast     float64  `json:"contrast"`
	Saturation   float64  `json:"saturation"`
	Gain         float64  `json:"gain"`
	Look         string   `json:"look"`
	Transition   string   `json:"transition,omitempty"`
	Progress     *float64 `json:"transition_progress,omitempty"`
}

type overlayFrameView struct {
	OverlayID string  `json:"overlay_id"`
	Kind      string  `json:"kind"`
	Text      string  `json:"text,omitempty"`
	MediaID   string  `json:"media_id,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	FontSize  float64 `json:"font_size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Layer     int     `json:"layer"`
}

type frameView struct {
	At       float64            `json:"at"`
	Video    *clipFrameView     `json:"video"`
	Audio    *clipFrameView     `json:"audio"`
	Overlays []overlayFrameView `json:"overlays"`
}

func newFrameView(frame compose.FrameDescriptor) frameView {
	view := frameView{
		At:       frame.At.Seconds(),
		Video:    newClipFrameView(frame.Video),
		Audio:    newClipFrameView(frame.Audio),
		Overlays: make([]overlayFrameView, 0, len(frame.Overlays)),
	}
	for _, o := range frame.Overlays {
		view.Overlays = append(view.Overlays, overlayFrameView{
			OverlayID: o.OverlayID,
			Kind:      string(o.Kind),
			Text:      o.Text,
			MediaID:   o.MediaID,
			X:         o.X,
			Y:         o.Y,
			Width:     o.Width,
			Height:    o.Height,
			FontSize:  o.FontSize,
			Color:     o.Color,
			Layer:     o.Layer,
		})
	}
	return view
}

func newClipFrameView(frame *compose.ClipFrame) *clipFrameView {
	if frame == nil {
		return nil
	}
	view := &clipFrameView{
		ClipID:       frame.ClipID,
		MediaID:      frame.MediaID,
		Track:        string(frame.Track),
		SourceOffset: frame.SourceOffset.Seconds(),
		Brightness:   frame.Adjustments.Brightness,
		Contrast:     frame.Adjustments.Contrast,
		Saturation:   frame.Adjustments.Saturation,
		Gain:         frame.Adjustments.Gain,
		Look:         string(frame.Filters.Kind),
	}
	if frame.Transition != nil {
		progress := frame.Transition.Progress
		view.Transition = string(frame.Transition.Kind)
		view.Progress = &progress
	}
	return view
}

func writeFrame(out io.Writer, session *project.Session, frame compose.FrameDescriptor) {
	fmt.Fprintf(out, "at %s\n", formatSeconds(frame.At))
	fmt.Fprintf(out, "video:    %s\n", describeClipFrame(session, frame.Video, "placeholder (no clip)"))
	fmt.Fprintf(out, "audio:    %s\n", describeClipFrame(session, frame.Audio, "silence"))
	if len(frame.Overlays) == 0 {
		fmt.Fprintln(out, "overlays: none")
		return
	}
	fmt.Fprintln(out, "overlays:")
	for _, o := range frame.Overlays {
		fmt.Fprintf(out, "  %d. %s\n", o.Layer, describeOverlayFrame(session, o))
	}
}

func describeClipFrame(session *project.Session, frame *compose.ClipFrame, empty string) string {
	if frame == nil {
		return empty
	}
	name := shortID(frame.MediaID)
	if asset, err := session.Asset(frame.MediaID); err == nil {
		name = asset.Label()
	}
	parts := []string{
		fmt.Sprintf("%s @ %s", name, formatSeconds(frame.SourceOffset)),
		fmt.Sprintf("clip %s", shortID(frame.ClipID)),
	}
	if look := describeFilters(frame.Filters); look != "-" {
		parts = append(parts, "look "+look)
	}
	if frame.Volume != 100 {
		parts = append(parts, fmt.Sprintf("volume %d%%", frame.Volume))
	}
	if frame.Transition != nil {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", frame.Transition.Kind, frame.Transition.Progress*100))
	}
	return strings.Join(parts, ", ")
}

func describeOverlayFrame(session *project.Session, o compose.OverlayFrame) string {
	content := fmt.Sprintf("%q", o.Text)
	if o.MediaID != "" {
		content = shortID(o.MediaID)
		if asset, err := session.Asset(o.MediaID); err == nil {
			content = asset.Label()
		}
	}
	return fmt.Sprintf("%s %s at %.0f,%.0f size %.0fx%.0f", o.Kind, content, o.X, o.Y, o.Width, o.Height)
}
