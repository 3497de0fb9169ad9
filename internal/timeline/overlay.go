package timeline

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Font size bounds for text overlays.
const (
	MinFontSize = 8
	MaxFontSize = 400
)

// AddOverlay places a text or image overlay at anchor (the playhead) for the
// default overlay duration. For image overlays content is the media ID of an
// image asset; for text overlays it is the text, defaulting to "Text".
func (tl *Timeline) AddOverlay(kind OverlayKind, content string, anchor time.Duration) (Overlay, error) {
	start := Snap(max(anchor, 0))
	overlay := Overlay{
		ID:    tl.opts.NewID(),
		Kind:  kind,
		X:     defaultOverlayX,
		Y:     defaultOverlayY,
		Start: start,
		End:   start + tl.opts.OverlayDuration,
	}

	switch kind {
	case OverlayText:
		overlay.Content = strings.TrimSpace(content)
		if overlay.Content == "" {
			overlay.Content = DefaultText
		}
		overlay.Width = defaultTextWidth
		overlay.Height = defaultTextHeight
		overlay.FontSize = DefaultTextFontSize
		overlay.Color = DefaultTextColor
	case OverlayImage:
		mediaID := strings.TrimSpace(content)
		asset, ok := tl.assets.Lookup(mediaID)
		if !ok {
			return Overlay{}, services.Wrap(services.ErrAssetNotFound, "timeline", "add_overlay", fmt.Sprintf("asset %s", mediaID), nil)
		}
		if asset.Kind != media.KindImage {
			return Overlay{}, services.Wrap(services.ErrInvalidAsset, "timeline", "add_overlay", fmt.Sprintf("asset %s is %s, not an image", mediaID, asset.Kind), nil)
		}
		overlay.Content = mediaID
		overlay.Width = defaultImageSide
		overlay.Height = defaultImageSide
	default:
		return Overlay{}, services.Wrap(services.ErrValidation, "timeline", "add_overlay", fmt.Sprintf("unknown overlay kind %q", kind), nil)
	}

	tl.overlays = append(tl.overlays, overlay)
	tl.logger.Debug("overlay added",
		logging.String(logging.FieldOverlayID, overlay.ID),
		logging.String("kind", string(kind)),
		logging.Seconds("start", overlay.Start),
		logging.Seconds("end", overlay.End),
	)
	return overlay, nil
}

// MoveOverlay sets the top-left corner, clamping negative coordinates to zero.
func (tl *Timeline) MoveOverlay(id string, x, y float64) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("move_overlay", id)
	}
	overlay := tl.overlays[idx]
	overlay.X = nonNegative(x)
	overlay.Y = nonNegative(y)
	tl.overlays[idx] = overlay
	tl.logger.Debug("overlay moved", logging.String(logging.FieldOverlayID, id), logging.Float64("x", overlay.X), logging.Float64("y", overlay.Y))
	return overlay, nil
}

// ResizeOverlay scales width and height by factor. Factors below
// MinResizeFactor are raised to it; non-finite factors leave the size as is.
func (tl *Timeline) ResizeOverlay(id string, factor float64) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("resize_overlay", id)
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		factor = 1
	}
	factor = math.Max(factor, MinResizeFactor)
	overlay := tl.overlays[idx]
	overlay.Width = nonNegative(overlay.Width * factor)
	overlay.Height = nonNegative(overlay.Height * factor)
	tl.overlays[idx] = overlay
	tl.logger.Debug("overlay resized", logging.String(logging.FieldOverlayID, id), logging.Float64("factor", factor))
	return overlay, nil
}

// RetimeOverlay moves the visibility window. The start is clamped to zero and
// the window to at least the minimum clip duration.
func (tl *Timeline) RetimeOverlay(id string, start, end time.Duration) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("retime_overlay", id)
	}
	start = Snap(max(start, 0))
	end = Snap(max(end, start+tl.opts.MinClipDuration))
	overlay := tl.overlays[idx]
	overlay.Start = start
	overlay.End = end
	tl.overlays[idx] = overlay
	tl.logger.Debug("overlay retimed", logging.String(logging.FieldOverlayID, id), logging.Seconds("start", start), logging.Seconds("end", end))
	return overlay, nil
}

// TextUpdate changes a text overlay. Zero fields keep the current value.
type TextUpdate struct {
	Text     string
	FontSize float64
	Color    string
}

// UpdateOverlayText edits the text, font size or color of a text overlay.
func (tl *Timeline) UpdateOverlayText(id string, update TextUpdate) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("update_overlay_text", id)
	}
	overlay := tl.overlays[idx]
	if overlay.Kind != OverlayText {
		return Overlay{}, services.Wrap(services.ErrValidation, "timeline", "update_overlay_text", fmt.Sprintf("overlay %s is not a text overlay", id), nil)
	}
	color := strings.TrimSpace(update.Color)
	if color != "" && !hexColor.MatchString(color) {
		return Overlay{}, services.Wrap(services.ErrValidation, "timeline", "update_overlay_text", fmt.Sprintf("color %q is not #RRGGBB", update.Color), nil)
	}

	if text := strings.TrimSpace(update.Text); text != "" {
		overlay.Content = text
	}
	if update.FontSize > 0 && !math.IsInf(update.FontSize, 0) {
		overlay.FontSize = math.Min(math.Max(update.FontSize, MinFontSize), MaxFontSize)
	}
	if color != "" {
		overlay.Color = strings.ToUpper(color)
	}
	tl.overlays[idx] = overlay
	tl.logger.Debug("overlay text updated", logging.String(logging.FieldOverlayID, id))
	return overlay, nil
}

// DeleteOverlay removes an overlay.
func (tl *Timeline) DeleteOverlay(id string) (Overlay, error) {
	idx, ok := tl.locateOverlay(id)
	if !ok {
		return Overlay{}, overlayNotFound("delete_overlay", id)
	}
	removed := tl.overlays[idx]
	next := make([]Overlay, 0, len(tl.overlays)-1)
	next = append(next, tl.overlays[:idx]...)
	next = append(next, tl.overlays[idx+1:]...)
	tl.overlays = next
	tl.logger.Debug("overlay deleted", logging.String(logging.FieldOverlayID, id))
	return removed, nil
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
