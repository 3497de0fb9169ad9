package project

import (
	"context"
	"time"

	"reelcut/internal/media"
	"reelcut/internal/timeline"
)

// AddAsset registers an imported asset.
func (s *Session) AddAsset(ctx context.Context, asset media.Asset) (media.Asset, error) {
	var added media.Asset
	err := s.edit(ctx, "add_asset", func() error {
		var err error
		added, err = s.registry.Add(asset)
		return err
	})
	return added, err
}

// RemoveAsset forgets an asset unless a clip or overlay still uses it.
func (s *Session) RemoveAsset(ctx context.Context, id string) error {
	return s.edit(ctx, "remove_asset", func() error {
		return s.registry.Remove(id, s.timeline)
	})
}

// InsertClip appends mediaID to the end of track.
func (s *Session) InsertClip(ctx context.Context, mediaID string, track timeline.TrackKind) (timeline.Clip, error) {
	var clip timeline.Clip
	err := s.edit(ctx, "insert", func() error {
		var err error
		clip, err = s.timeline.Insert(mediaID, track)
		return err
	})
	return clip, err
}

// DeleteClip removes a clip and clears it from the selection.
func (s *Session) DeleteClip(ctx context.Context, id string) error {
	return s.edit(ctx, "delete", func() error {
		if _, err := s.timeline.Delete(id); err != nil {
			return err
		}
		if s.selection.ClipID == id {
			s.selection.ClipID = ""
		}
		return nil
	})
}

// SplitClip splits a clip at at, or at its midpoint when at is nil. A
// selected clip hands its selection to the left half.
func (s *Session) SplitClip(ctx context.Context, id string, at *time.Duration) (timeline.Clip, timeline.Clip, error) {
	var left, right timeline.Clip
	err := s.edit(ctx, "split", func() error {
		var err error
		if at == nil {
			left, right, err = s.timeline.SplitAtMidpoint(id)
		} else {
			left, right, err = s.timeline.Split(id, *at)
		}
		if err != nil {
			return err
		}
		if s.selection.ClipID == id {
			s.selection.ClipID = left.ID
		}
		return nil
	})
	return left, right, err
}

// TrimStart shifts a clip's in-point by delta, clamping as needed.
func (s *Session) TrimStart(ctx context.Context, id string, delta time.Duration) (timeline.TrimResult, error) {
	var res timeline.TrimResult
	err := s.edit(ctx, "trim_start", func() error {
		var err error
		res, err = s.timeline.TrimStart(id, delta)
		return err
	})
	return res, err
}

// TrimEnd shifts a clip's out-point by delta, clamping as needed.
func (s *Session) TrimEnd(ctx context.Context, id string, delta time.Duration) (timeline.TrimResult, error) {
	var res timeline.TrimResult
	err := s.edit(ctx, "trim_end", func() error {
		var err error
		res, err = s.timeline.TrimEnd(id, delta)
		return err
	})
	return res, err
}

// ApplyFilters overwrites a clip's filters and volume.
func (s *Session) ApplyFilters(ctx context.Context, id string, filters timeline.Filters, volume int) (timeline.Clip, error) {
	var clip timeline.Clip
	err := s.edit(ctx, "apply_filters", func() error {
		var err error
		clip, err = s.timeline.ApplyFilters(id, filters, volume)
		return err
	})
	return clip, err
}

// ApplyFiltersToSelection routes a filter-panel edit to the selected clip.
func (s *Session) ApplyFiltersToSelection(ctx context.Context, filters timeline.Filters, volume int) (timeline.Clip, error) {
	var clip timeline.Clip
	err := s.edit(ctx, "apply_filters", func() error {
		var err error
		clip, err = s.timeline.ApplyFilters(s.selection.ClipID, filters, volume)
		return err
	})
	return clip, err
}

// SetTransition changes a clip's entry transition.
func (s *Session) SetTransition(ctx context.Context, id string, kind timeline.TransitionKind) (timeline.Clip, error) {
	var clip timeline.Clip
	err := s.edit(ctx, "set_transition", func() error {
		var err error
		clip, err = s.timeline.SetTransition(id, kind)
		return err
	})
	return clip, err
}

// SelectClip focuses a clip. An empty id clears the clip selection.
func (s *Session) SelectClip(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if _, err := s.timeline.Clip(id); err != nil {
			return err
		}
	}
	s.selection.ClipID = id
	return nil
}

// SelectOverlay focuses an overlay. An empty id clears the overlay selection.
func (s *Session) SelectOverlay(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if _, err := s.timeline.Overlay(id); err != nil {
			return err
		}
	}
	s.selection.OverlayID = id
	return nil
}

// AddOverlay places an overlay at anchor.
func (s *Session) AddOverlay(ctx context.Context, kind timeline.OverlayKind, content string, anchor time.Duration) (timeline.Overlay, error) {
	var overlay timeline.Overlay
	err := s.edit(ctx, "add_overlay", func() error {
		var err error
		overlay, err = s.timeline.AddOverlay(kind, content, anchor)
		return err
	})
	return overlay, err
}

// MoveOverlay repositions an overlay.
func (s *Session) MoveOverlay(ctx context.Context, id string, x, y float64) (timeline.Overlay, error) {
	var overlay timeline.Overlay
	err := s.edit(ctx, "move_overlay", func() error {
		var err error
		overlay, err = s.timeline.MoveOverlay(id, x, y)
		return err
	})
	return overlay, err
}

// ResizeOverlay scales an overlay.
func (s *Session) ResizeOverlay(ctx context.Context, id string, factor float64) (timeline.Overlay, error) {
	var overlay timeline.Overlay
	err := s.edit(ctx, "resize_overlay", func() error {
		var err error
		overlay, err = s.timeline.ResizeOverlay(id, factor)
		return err
	})
	return overlay, err
}

// RetimeOverlay changes an overlay's visibility window.
func (s *Session) RetimeOverlay(ctx context.Context, id string, start, end time.Duration) (timeline.Overlay, error) {
	var overlay timeline.Overlay
	err := s.edit(ctx, "retime_overlay", func() error {
		var err error
		overlay, err = s.timeline.RetimeOverlay(id, start, end)
		return err
	})
	return overlay, err
}

// UpdateOverlayText edits a text overlay.
func (s *Session) UpdateOverlayText(ctx context.Context, id string, update timeline.TextUpdate) (timeline.Overlay, error) {
	var overlay timeline.Overlay
	err := s.edit(ctx, "update_overlay_text", func() error {
		var err error
		overlay, err = s.timeline.UpdateOverlayText(id, update)
		return err
	})
	return overlay, err
}

// DeleteOverlay removes an overlay and clears it from the selection.
func (s *Session) DeleteOverlay(ctx context.Context, id string) error {
	return s.edit(ctx, "delete_overlay", func() error {
		if _, err := s.timeline.DeleteOverlay(id); err != nil {
			return err
		}
		if s.selection.OverlayID == id {
			s.selection.OverlayID = ""
		}
		return nil
	})
}
