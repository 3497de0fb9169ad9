package timeline

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
)

// AssetLookup resolves media IDs. *media.Registry satisfies it.
type AssetLookup interface {
	Lookup(id string) (media.Asset, bool)
}

// Defaults applied when creating clips and overlays.
const (
	DefaultMinClipDuration = 100 * time.Millisecond
	DefaultImageDuration   = 5 * time.Second
	DefaultOverlayDuration = 5 * time.Second
	DefaultTextFontSize    = 24
	DefaultTextColor       = "#FFFFFF"
	DefaultText            = "Text"
	MinResizeFactor        = 0.1
	defaultOverlayX        = 50
	defaultOverlayY        = 50
	defaultTextWidth       = 200
	defaultTextHeight      = 50
	defaultImageSide       = 200
)

// Options tunes a Timeline. Zero values take the package defaults.
type Options struct {
	MinClipDuration time.Duration
	ImageDuration   time.Duration
	OverlayDuration time.Duration
	NewID           func() string
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MinClipDuration <= 0 {
		o.MinClipDuration = DefaultMinClipDuration
	}
	if o.ImageDuration <= 0 {
		o.ImageDuration = DefaultImageDuration
	}
	if o.OverlayDuration <= 0 {
		o.OverlayDuration = DefaultOverlayDuration
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	o.MinClipDuration = Snap(o.MinClipDuration)
	o.ImageDuration = Snap(o.ImageDuration)
	o.OverlayDuration = Snap(o.OverlayDuration)
	return o
}

// Timeline owns the clips of each track, ordered by start, and the overlays
// in insertion order. Later overlays draw on top of earlier ones.
type Timeline struct {
	assets   AssetLookup
	opts     Options
	logger   *slog.Logger
	tracks   map[TrackKind][]Clip
	overlays []Overlay
}

// New returns an empty timeline resolving media through assets.
func New(assets AssetLookup, opts Options) *Timeline {
	opts = opts.withDefaults()
	return &Timeline{
		assets:   assets,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "timeline"),
		tracks:   map[TrackKind][]Clip{TrackVideo: nil, TrackAudio: nil},
		overlays: nil,
	}
}

// Load rebuilds a timeline from stored clips and overlays, rejecting any
// state that breaks an invariant with ErrValidation.
func Load(assets AssetLookup, opts Options, clips []Clip, overlays []Overlay) (*Timeline, error) {
	tl := New(assets, opts)
	for _, clip := range clips {
		if clip.Track != TrackVideo && clip.Track != TrackAudio {
			return nil, services.Wrap(services.ErrValidation, "timeline", "load", fmt.Sprintf("clip %s has unknown track %q", clip.ID, clip.Track), nil)
		}
		tl.tracks[clip.Track] = append(tl.tracks[clip.Track], clip)
	}
	for _, track := range Tracks {
		sortClips(tl.tracks[track])
	}
	tl.overlays = append(tl.overlays, overlays...)
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

// Options returns the effective options.
func (tl *Timeline) Options() Options {
	return tl.opts
}

// Clips returns a copy of one track's clips ordered by start.
func (tl *Timeline) Clips(track TrackKind) []Clip {
	return append([]Clip(nil), tl.tracks[track]...)
}

// AllClips returns every clip, video track first.
func (tl *Timeline) AllClips() []Clip {
	var out []Clip
	for _, track := range Tracks {
		out = append(out, tl.tracks[track]...)
	}
	return out
}

// ClipCount returns the number of clips across both tracks.
func (tl *Timeline) ClipCount() int {
	return len(tl.tracks[TrackVideo]) + len(tl.tracks[TrackAudio])
}

// HasVideo reports whether the video track holds any clip.
func (tl *Timeline) HasVideo() bool {
	return len(tl.tracks[TrackVideo]) > 0
}

// Clip returns the clip with id.
func (tl *Timeline) Clip(id string) (Clip, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return Clip{}, clipNotFound("get", id)
	}
	return tl.tracks[track][idx], nil
}

// ClipAt returns the clip on track covering t, if any.
func (tl *Timeline) ClipAt(track TrackKind, t time.Duration) (Clip, bool) {
	clips := tl.tracks[track]
	i := sort.Search(len(clips), func(i int) bool { return clips[i].TimelineEnd > t })
	if i < len(clips) && clips[i].Contains(t) {
		return clips[i], true
	}
	return Clip{}, false
}

// Overlays returns a copy of the overlays in draw order.
func (tl *Timeline) Overlays() []Overlay {
	return append([]Overlay(nil), tl.overlays...)
}

// Overlay returns the overlay with id.
func (tl *Timeline) Overlay(id string) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("get", id)
	}
	return tl.overlays[idx], nil
}

// Duration is the end of the last clip or overlay, or 0 when empty.
func (tl *Timeline) Duration() time.Duration {
	var end time.Duration
	for _, track := range Tracks {
		clips := tl.tracks[track]
		if n := len(clips); n > 0 && clips[n-1].TimelineEnd > end {
			end = clips[n-1].TimelineEnd
		}
	}
	for _, overlay := range tl.overlays {
		if overlay.End > end {
			end = overlay.End
		}
	}
	return end
}

// References counts clips and image overlays using mediaID.
func (tl *Timeline) References(mediaID string) int {
	count := 0
	for _, track := range Tracks {
		for _, clip := range tl.tracks[track] {
			if clip.MediaID == mediaID {
				count++
			}
		}
	}
	for _, overlay := range tl.overlays {
		if overlay.Kind == OverlayImage && overlay.Content == mediaID {
			count++
		}
	}
	return count
}

// Validate checks every clip and overlay invariant.
func (tl *Timeline) Validate() error {
	seen := make(map[string]struct{})
	for _, track := range Tracks {
		clips := tl.tracks[track]
		for i, clip := range clips {
			if _, dup := seen[clip.ID]; dup || clip.ID == "" {
				return invalid("clip id %q missing or duplicated", clip.ID)
			}
			seen[clip.ID] = struct{}{}
			if err := tl.validateClip(clip, track); err != nil {
				return err
			}
			if i > 0 && clips[i-1].TimelineEnd > clip.TimelineStart {
				return invalid("clips %s and %s overlap on %s track", clips[i-1].ID, clip.ID, track)
			}
		}
	}
	for _, overlay := range tl.overlays {
		if _, dup := seen[overlay.ID]; dup || overlay.ID == "" {
			return invalid("overlay id %q missing or duplicated", overlay.ID)
		}
		seen[overlay.ID] = struct{}{}
		if err := tl.validateOverlay(overlay); err != nil {
			return err
		}
	}
	return nil
}

func (tl *Timeline) validateClip(clip Clip, track TrackKind) error {
	switch {
	case clip.Track != track:
		return invalid("clip %s stored on %s track but tagged %s", clip.ID, track, clip.Track)
	case clip.TimelineStart < 0 || clip.TimelineStart >= clip.TimelineEnd:
		return invalid("clip %s has empty or negative timeline span", clip.ID)
	case clip.TimelineEnd > MaxTimelineEnd:
		return invalid("clip %s ends after %s", clip.ID, MaxTimelineEnd)
	case clip.TrimStart < 0 || clip.TrimStart >= clip.TrimEnd:
		return invalid("clip %s has empty or negative trim span", clip.ID)
	case clip.TrimEnd-clip.TrimStart != clip.Duration():
		return invalid("clip %s trim span does not match its placed duration", clip.ID)
	case clip.Volume < MinPercent || clip.Volume > MaxPercent:
		return invalid("clip %s volume %d outside [0,200]", clip.ID, clip.Volume)
	case clip.Filters.Clamp() != clip.Filters:
		return invalid("clip %s has out-of-range filters", clip.ID)
	case !clip.Transition.Valid():
		return invalid("clip %s has unknown transition %q", clip.ID, clip.Transition)
	}
	asset, ok := tl.assets.Lookup(clip.MediaID)
	if !ok {
		return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("clip %s references unknown asset %s", clip.ID, clip.MediaID), services.ErrAssetNotFound)
	}
	if err := compatible(asset, track); err != nil {
		return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("clip %s", clip.ID), err)
	}
	if asset.HasSourceDuration() && clip.TrimEnd > asset.Duration {
		return invalid("clip %s trims past the end of asset %s", clip.ID, asset.ID)
	}
	return nil
}

func (tl *Timeline) validateOverlay(overlay Overlay) error {
	switch {
	case overlay.Kind != OverlayText && overlay.Kind != OverlayImage:
		return invalid("overlay %s has unknown kind %q", overlay.ID, overlay.Kind)
	case overlay.Start < 0 || overlay.Start >= overlay.End:
		return invalid("overlay %s has empty or negative window", overlay.ID)
	case overlay.X < 0 || overlay.Y < 0 || overlay.Width < 0 || overlay.Height < 0:
		return invalid("overlay %s has negative geometry", overlay.ID)
	}
	if overlay.Kind == OverlayImage {
		asset, ok := tl.assets.Lookup(overlay.Content)
		if !ok || asset.Kind != media.KindImage {
			return invalid("image overlay %s references missing or non-image asset %s", overlay.ID, overlay.Content)
		}
	}
	return nil
}

func compatible(asset media.Asset, track TrackKind) error {
	switch {
	case asset.Kind == media.KindAudio && track != TrackAudio:
		return services.Wrap(services.ErrIncompatibleTrack, "timeline", "insert", fmt.Sprintf("audio asset %s only fits the audio track", asset.ID), nil)
	case asset.Kind == media.KindImage && track != TrackVideo:
		return services.Wrap(services.ErrIncompatibleTrack, "timeline", "insert", fmt.Sprintf("image asset %s only fits the video track", asset.ID), nil)
	case track != TrackVideo && track != TrackAudio:
		return services.Wrap(services.ErrIncompatibleTrack, "timeline", "insert", fmt.Sprintf("unknown track %q", track), nil)
	}
	return nil
}

func (tl *Timeline) locate(id string) (TrackKind, int, bool) {
	for _, track := range Tracks {
		for i, clip := range tl.tracks[track] {
			if clip.ID == id {
				return track, i, true
			}
		}
	}
	return "", -1, false
}

func (tl *Timeline) locateOverlay(id string) (int, bool) {
	for i, overlay := range tl.overlays {
		if overlay.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (tl *Timeline) trackEnd(track TrackKind) time.Duration {
	clips := tl.tracks[track]
	if len(clips) == 0 {
		return 0
	}
	return clips[len(clips)-1].TimelineEnd
}

func sortClips(clips []Clip) {
	sort.SliceStable(clips, func(i, j int) bool { return clips[i].TimelineStart < clips[j].TimelineStart })
}

func invalid(format string, args ...any) error {
	return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf(format, args...), nil)
}

func clipNotFound(op, id string) error {
	return services.Wrap(services.ErrClipNotFound, "timeline", op, fmt.Sprintf("clip %s", id), nil)
}

func overlayNotFound(op, id string) error {
	return services.Wrap(services.ErrOverlayNotFound, "timeline", op, fmt.Sprintf("overlay %s", id), nil)
}
