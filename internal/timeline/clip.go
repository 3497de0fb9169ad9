package timeline

import "time"

// Percentage bounds shared by volume and the filter sliders.
const (
	MinPercent     = 0
	MaxPercent     = 200
	DefaultPercent = 100
)

// MaxTimelineEnd is the latest instant a clip may reach. Extending an image
// clip stops here, which keeps every edit far from Duration overflow.
const MaxTimelineEnd = 24 * time.Hour

// Filters is the per-clip color adjustment block.
type Filters struct {
	Brightness int
	Contrast   int
	Saturation int
	Kind       FilterKind
}

// DefaultFilters returns neutral adjustments with no look applied.
func DefaultFilters() Filters {
	return Filters{
		Brightness: DefaultPercent,
		Contrast:   DefaultPercent,
		Saturation: DefaultPercent,
		Kind:       FilterNone,
	}
}

// Clamp pins the sliders into [0, 200] and maps unknown kinds to FilterNone.
func (f Filters) Clamp() Filters {
	f.Brightness = clampPercent(f.Brightness)
	f.Contrast = clampPercent(f.Contrast)
	f.Saturation = clampPercent(f.Saturation)
	if !f.Kind.Valid() {
		f.Kind = FilterNone
	}
	return f
}

// IsNeutral reports whether the filters leave the picture unchanged.
func (f Filters) IsNeutral() bool {
	return f == DefaultFilters()
}

func clampPercent(v int) int {
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}

// Clip is a trimmed placement of one asset on one track. The timeline span
// [TimelineStart, TimelineEnd) always has the same length as the source span
// [TrimStart, TrimEnd).
type Clip struct {
	ID            string
	MediaID       string
	Track         TrackKind
	TimelineStart time.Duration
	TimelineEnd   time.Duration
	TrimStart     time.Duration
	TrimEnd       time.Duration
	Volume        int
	Filters       Filters
	Transition    TransitionKind
}

// Duration is the placed length of the clip.
func (c Clip) Duration() time.Duration {
	return c.TimelineEnd - c.TimelineStart
}

// Contains reports whether t falls in [TimelineStart, TimelineEnd).
func (c Clip) Contains(t time.Duration) bool {
	return c.TimelineStart <= t && t < c.TimelineEnd
}

// SourceOffset maps a timeline instant onto the source media.
func (c Clip) SourceOffset(t time.Duration) time.Duration {
	return c.TrimStart + (t - c.TimelineStart)
}

// Overlay is a positioned text or image element shown during [Start, End).
// For image overlays Content holds the media asset ID.
type Overlay struct {
	ID       string
	Kind     OverlayKind
	Content  string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Start    time.Duration
	End      time.Duration
	FontSize float64
	Color    string
}

// Active reports whether the overlay is visible at t.
func (o Overlay) Active(t time.Duration) bool {
	return o.Start <= t && t < o.End
}

// TrimResult reports the clip after a trim and whether the requested delta
// had to be reduced to keep the clip valid.
type TrimResult struct {
	Clip      Clip
	Requested time.Duration
	Applied   time.Duration
	Clamped   bool
}

// Snap rounds d to the microsecond resolution used for all timeline values.
func Snap(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}

// Seconds converts user-facing seconds into a snapped duration.
func Seconds(s float64) time.Duration {
	return Snap(time.Duration(s * float64(time.Second)))
}
