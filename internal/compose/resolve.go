package compose

import (
	"time"

	"reelcut/internal/timeline"
)

// DefaultTransitionDuration is the length of a clip's entry transition.
const DefaultTransitionDuration = 500 * time.Millisecond

// Source is the read-only view of a timeline the resolver needs.
// *timeline.Timeline satisfies it.
type Source interface {
	ClipAt(track timeline.TrackKind, t time.Duration) (timeline.Clip, bool)
	Overlays() []timeline.Overlay
}

// FrameDescriptor is everything a renderer needs for one instant. A nil
// Video means the renderer shows its placeholder; audio resolves
// independently of the video slot.
type FrameDescriptor struct {
	At       time.Duration
	Video    *ClipFrame
	Audio    *ClipFrame
	Overlays []OverlayFrame
}

// VideoEmpty reports whether no video clip covers the instant.
func (f FrameDescriptor) VideoEmpty() bool {
	return f.Video == nil
}

// ClipFrame is one active clip with its parameters resolved.
type ClipFrame struct {
	ClipID       string
	MediaID      string
	Track        timeline.TrackKind
	SourceOffset time.Duration
	Filters      timeline.Filters
	Volume       int
	Adjustments  Adjustments
	Transition   *TransitionFrame
}

// Adjustments are the filter sliders and volume as multipliers, 1.0 being
// neutral.
type Adjustments struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Gain       float64
}

// TransitionFrame reports an entry transition in progress. Progress runs
// from 0 at the clip start towards 1.
type TransitionFrame struct {
	Kind     timeline.TransitionKind
	Progress float64
}

// OverlayFrame is one visible overlay. Layer 0 is drawn first.
type OverlayFrame struct {
	OverlayID string
	Kind      timeline.OverlayKind
	Text      string
	MediaID   string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	FontSize  float64
	Color     string
	Layer     int
}

// Resolver resolves frames with a fixed transition length.
type Resolver struct {
	transition time.Duration
}

// NewResolver returns a resolver. A non-positive transition takes the default.
func NewResolver(transition time.Duration) Resolver {
	if transition <= 0 {
		transition = DefaultTransitionDuration
	}
	return Resolver{transition: transition}
}

// Resolve uses the default transition length.
func Resolve(src Source, t time.Duration) FrameDescriptor {
	return NewResolver(0).Resolve(src, t)
}

// Resolve computes the frame at t.
func (r Resolver) Resolve(src Source, t time.Duration) FrameDescriptor {
	t = timeline.Snap(t)
	frame := FrameDescriptor{At: t}
	if clip, ok := src.ClipAt(timeline.TrackVideo, t); ok {
		frame.Video = r.clipFrame(clip, t)
	}
	if clip, ok := src.ClipAt(timeline.TrackAudio, t); ok {
		frame.Audio = r.clipFrame(clip, t)
	}
	for _, overlay := range src.Overlays() {
		if !overlay.Active(t) {
			continue
		}
		frame.Overlays = append(frame.Overlays, overlayFrame(overlay, len(frame.Overlays)))
	}
	return frame
}

func (r Resolver) clipFrame(clip timeline.Clip, t time.Duration) *ClipFrame {
	frame := &ClipFrame{
		ClipID:       clip.ID,
		MediaID:      clip.MediaID,
		Track:        clip.Track,
		SourceOffset: clip.SourceOffset(t),
		Filters:      clip.Filters,
		Volume:       clip.Volume,
		Adjustments: Adjustments{
			Brightness: percent(clip.Filters.Brightness),
			Contrast:   percent(clip.Filters.Contrast),
			Saturation: percent(clip.Filters.Saturation),
			Gain:       percent(clip.Volume),
		},
	}
	if clip.Transition != timeline.TransitionNone && clip.Transition != "" {
		window := min(r.transition, clip.Duration())
		if elapsed := t - clip.TimelineStart; window > 0 && elapsed < window {
			frame.Transition = &TransitionFrame{
				Kind:     clip.Transition,
				Progress: float64(elapsed) / float64(window),
			}
		}
	}
	return frame
}

func overlayFrame(overlay timeline.Overlay, layer int) OverlayFrame {
	frame := OverlayFrame{
		OverlayID: overlay.ID,
		Kind:      overlay.Kind,
		X:         overlay.X,
		Y:         overlay.Y,
		Width:     overlay.Width,
		Height:    overlay.Height,
		Layer:     layer,
	}
	switch overlay.Kind {
	case timeline.OverlayText:
		frame.Text = overlay.Content
		frame.FontSize = overlay.FontSize
		frame.Color = overlay.Color
	case timeline.OverlayImage:
		frame.MediaID = overlay.Content
	}
	return frame
}

func percent(v int) float64 {
	return float64(v) / 100
}
