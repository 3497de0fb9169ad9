package timeline

import (
	"fmt"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
)

// Insert appends a clip for mediaID at the end of track using the asset's
// full duration. Images take the configured image duration.
func (tl *Timeline) Insert(mediaID string, track TrackKind) (Clip, error) {
	asset, ok := tl.assets.Lookup(mediaID)
	if !ok {
		return Clip{}, services.Wrap(services.ErrAssetNotFound, "timeline", "insert", fmt.Sprintf("asset %s", mediaID), nil)
	}
	if err := compatible(asset, track); err != nil {
		return Clip{}, err
	}

	length := asset.Duration
	if asset.Kind == media.KindImage {
		length = tl.opts.ImageDuration
	}
	// Truncate so the clip never reads past the end of its source.
	length = length.Truncate(time.Microsecond)
	if length <= 0 {
		return Clip{}, services.Wrap(services.ErrInvalidAsset, "timeline", "insert", fmt.Sprintf("asset %s has no duration", mediaID), nil)
	}

	start := tl.trackEnd(track)
	if start+length > MaxTimelineEnd {
		return Clip{}, services.Wrap(services.ErrValidation, "timeline", "insert", fmt.Sprintf("track %s would run past %s", track, MaxTimelineEnd), nil)
	}
	clip := Clip{
		ID:            tl.opts.NewID(),
		MediaID:       mediaID,
		Track:         track,
		TimelineStart: start,
		TimelineEnd:   start + length,
		TrimStart:     0,
		TrimEnd:       length,
		Volume:        DefaultPercent,
		Filters:       DefaultFilters(),
		Transition:    TransitionNone,
	}
	tl.tracks[track] = append(tl.tracks[track], clip)

	tl.logger.Debug("clip inserted",
		logging.String(logging.FieldClipID, clip.ID),
		logging.String(logging.FieldMediaID, mediaID),
		logging.String("track", string(track)),
		logging.Seconds("start", clip.TimelineStart),
		logging.Seconds("end", clip.TimelineEnd),
	)
	return clip, nil
}

// Delete removes a clip. Later clips keep their positions.
func (tl *Timeline) Delete(id string) (Clip, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return Clip{}, clipNotFound("delete", id)
	}
	clips := tl.tracks[track]
	removed := clips[idx]
	next := make([]Clip, 0, len(clips)-1)
	next = append(next, clips[:idx]...)
	next = append(next, clips[idx+1:]...)
	tl.tracks[track] = next

	tl.logger.Debug("clip deleted", logging.String(logging.FieldClipID, id), logging.String("track", string(track)))
	return removed, nil
}

// Split replaces a clip with two clips meeting at at, which must lie strictly
// inside the clip. The right half starts without a transition.
func (tl *Timeline) Split(id string, at time.Duration) (Clip, Clip, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return Clip{}, Clip{}, clipNotFound("split", id)
	}
	original := tl.tracks[track][idx]
	at = Snap(at)
	if at <= original.TimelineStart || at >= original.TimelineEnd {
		return Clip{}, Clip{}, services.Wrap(services.ErrInvalidSplitPoint, "timeline", "split",
			fmt.Sprintf("%.3fs is outside clip %s [%.3fs, %.3fs)", at.Seconds(), id, original.TimelineStart.Seconds(), original.TimelineEnd.Seconds()), nil)
	}

	left := original
	left.ID = tl.opts.NewID()
	left.TimelineEnd = at
	left.TrimEnd = original.TrimStart + (at - original.TimelineStart)

	right := original
	right.ID = tl.opts.NewID()
	right.TimelineStart = at
	right.TrimStart = left.TrimEnd
	right.Transition = TransitionNone

	clips := tl.tracks[track]
	next := make([]Clip, 0, len(clips)+1)
	next = append(next, clips[:idx]...)
	next = append(next, left, right)
	next = append(next, clips[idx+1:]...)
	tl.tracks[track] = next

	tl.logger.Debug("clip split",
		logging.String(logging.FieldClipID, id),
		logging.String("left_id", left.ID),
		logging.String("right_id", right.ID),
		logging.Seconds("at", at),
	)
	return left, right, nil
}

// SplitAtMidpoint splits a clip at the middle of its timeline span.
func (tl *Timeline) SplitAtMidpoint(id string) (Clip, Clip, error) {
	clip, err := tl.Clip(id)
	if err != nil {
		return Clip{}, Clip{}, clipNotFound("split", id)
	}
	return tl.Split(id, clip.TimelineStart+clip.Duration()/2)
}

// TrimStart moves the clip's in-point. A positive delta removes material from
// the head, a negative delta restores it. The delta is clamped so the clip
// keeps the minimum duration, stays within its source, does not start before
// zero and does not run into the previous clip.
func (tl *Timeline) TrimStart(id string, delta time.Duration) (TrimResult, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return TrimResult{}, clipNotFound("trim_start", id)
	}
	clips := tl.tracks[track]
	clip := clips[idx]
	requested := Snap(delta)

	lo := max(-clip.TrimStart, -clip.TimelineStart)
	if idx > 0 {
		lo = max(lo, clips[idx-1].TimelineEnd-clip.TimelineStart)
	}
	hi := max(clip.Duration()-tl.opts.MinClipDuration, 0)
	applied := clampDelta(requested, lo, hi)

	clip.TimelineStart += applied
	clip.TrimStart += applied
	clips[idx] = clip

	return tl.trimmed("trim_start", clip, requested, applied), nil
}

// TrimEnd moves the clip's out-point. A positive delta removes material from
// the tail, a negative delta extends it. Clamping mirrors TrimStart; images
// have no source limit and extend up to MaxTimelineEnd.
func (tl *Timeline) TrimEnd(id string, delta time.Duration) (TrimResult, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return TrimResult{}, clipNotFound("trim_end", id)
	}
	clips := tl.tracks[track]
	clip := clips[idx]
	requested := Snap(delta)

	lo := min(clip.TimelineEnd-MaxTimelineEnd, 0)
	if asset, ok := tl.assets.Lookup(clip.MediaID); !ok {
		lo = 0
	} else if asset.HasSourceDuration() {
		lo = max(lo, (clip.TrimEnd - asset.Duration).Truncate(time.Microsecond))
	}
	if idx+1 < len(clips) {
		lo = max(lo, clip.TimelineEnd-clips[idx+1].TimelineStart)
	}
	hi := max(clip.Duration()-tl.opts.MinClipDuration, 0)
	applied := clampDelta(requested, lo, hi)

	clip.TimelineEnd -= applied
	clip.TrimEnd -= applied
	clips[idx] = clip

	return tl.trimmed("trim_end", clip, requested, applied), nil
}

func (tl *Timeline) trimmed(op string, clip Clip, requested, applied time.Duration) TrimResult {
	result := TrimResult{Clip: clip, Requested: requested, Applied: applied, Clamped: requested != applied}
	attrs := []logging.Attr{
		logging.String(logging.FieldOperation, op),
		logging.String(logging.FieldClipID, clip.ID),
		logging.Seconds("requested", requested),
		logging.Seconds("applied", applied),
	}
	if result.Clamped {
		logging.WarnWithContext(tl.logger, "trim clamped", "trim_clamped", append(attrs,
			logging.String(logging.FieldErrorHint, "the clip reached its minimum length, source bounds or a neighbouring clip"),
			logging.String(logging.FieldImpact, "trim applied partially"),
		)...)
	} else {
		tl.logger.Debug("clip trimmed", logging.Args(attrs...)...)
	}
	return result
}

func clampDelta(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// ApplyFilters overwrites a clip's filter block and volume. Out-of-range
// values are clamped into [0, 200].
func (tl *Timeline) ApplyFilters(id string, filters Filters, volume int) (Clip, error) {
	track, idx, ok := tl.locate(id)
	if !ok {
		return Clip{}, clipNotFound("apply_filters", id)
	}
	clip := tl.tracks[track][idx]
	clip.Filters = filters.Clamp()
	clip.Volume = clampPercent(volume)
	tl.tracks[track][idx] = clip

	tl.logger.Debug("filters applied",
		logging.String(logging.FieldClipID, id),
		logging.String("filter", string(clip.Filters.Kind)),
		logging.Int("brightness", clip.Filters.Brightness),
		logging.Int("contrast", clip.Filters.Contrast),
		logging.Int("saturation", clip.Filters.Saturation),
		logging.Int("volume", clip.Volume),
	)
	return clip, nil
}

// SetTransition sets the entry transition of a clip.
func (tl *Timeline) SetTransition(id string, kind TransitionKind) (Clip, error) {
	if !kind.Valid() {
		return Clip{}, services.Wrap(services.ErrValidation, "timeline", "set_transition", fmt.Sprintf("unknown transition %q", kind), nil)
	}
	track, idx, ok := tl.locate(id)
	if !ok {
		return Clip{}, clipNotFound("set_transition", id)
	}
	tl.tracks[track][idx].Transition = kind
	tl.logger.Debug("transition set", logging.String(logging.FieldClipID, id), logging.String("transition", string(kind)))
	return tl.tracks[track][idx], nil
}
