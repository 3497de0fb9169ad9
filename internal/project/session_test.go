package project_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/project"
	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

func newSession(t *testing.T) (*project.Session, media.Asset, media.Asset) {
	t.Helper()
	cfg := config.Default()
	s := project.New("  Holiday  ", project.OptionsFromConfig(&cfg, logging.NewNop()))
	ctx := context.Background()
	video, err := s.AddAsset(ctx, media.NewAsset(media.KindVideo, "Beach", "/m/beach.mp4", 10*time.Second))
	require.NoError(t, err)
	logo, err := s.AddAsset(ctx, media.NewAsset(media.KindImage, "Logo", "/m/logo.png", 0))
	require.NoError(t, err)
	return s, video, logo
}

func TestNewSessionMeta(t *testing.T) {
	s, _, _ := newSession(t)
	meta := s.Meta()
	assert.Equal(t, "Holiday", meta.Name)
	assert.NotEmpty(t, meta.ID)
	assert.False(t, meta.CreatedAt.IsZero())

	blank := project.New("", project.Options{})
	assert.Equal(t, "Untitled project", blank.Meta().Name)
}

func TestEditsTouchUpdatedAt(t *testing.T) {
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := project.New("Clocked", project.Options{Clock: func() time.Time { return clock }})
	created := s.Meta().UpdatedAt

	clock = clock.Add(time.Minute)
	_, err := s.AddAsset(context.Background(), media.NewAsset(media.KindVideo, "A", "", time.Second))
	require.NoError(t, err)
	assert.Equal(t, created.Add(time.Minute), s.Meta().UpdatedAt)

	clock = clock.Add(time.Minute)
	_, err = s.InsertClip(context.Background(), "missing", timeline.TrackVideo)
	require.ErrorIs(t, err, services.ErrAssetNotFound)
	assert.Equal(t, created.Add(time.Minute), s.Meta().UpdatedAt, "rejected edits do not touch the project")
}

func TestSelectionFollowsSplitAndDelete(t *testing.T) {
	s, video, _ := newSession(t)
	ctx := context.Background()
	clip, err := s.InsertClip(ctx, video.ID, timeline.TrackVideo)
	require.NoError(t, err)

	require.ErrorIs(t, s.SelectClip("missing"), services.ErrClipNotFound)
	require.NoError(t, s.SelectClip(clip.ID))

	at := 4 * time.Second
	left, right, err := s.SplitClip(ctx, clip.ID, &at)
	require.NoError(t, err)
	assert.Equal(t, left.ID, s.Selection().ClipID)

	updated, err := s.ApplyFiltersToSelection(ctx, timeline.Filters{Brightness: 120, Contrast: 100, Saturation: 100, Kind: timeline.FilterBlur}, 50)
	require.NoError(t, err)
	assert.Equal(t, left.ID, updated.ID)
	untouched, err := s.Clip(right.ID)
	require.NoError(t, err)
	assert.Equal(t, timeline.DefaultFilters(), untouched.Filters)

	require.NoError(t, s.DeleteClip(ctx, left.ID))
	assert.Empty(t, s.Selection().ClipID)

	_, err = s.ApplyFiltersToSelection(ctx, timeline.DefaultFilters(), 100)
	require.ErrorIs(t, err, services.ErrClipNotFound)
}

func TestSplitDefaultsToMidpoint(t *testing.T) {
	s, video, _ := newSession(t)
	clip, _ := s.InsertClip(context.Background(), video.ID, timeline.TrackVideo)

	left, right, err := s.SplitClip(context.Background(), clip.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, left.TimelineEnd)
	assert.Equal(t, 5*time.Second, right.TimelineStart)
}

func TestOverlaySelectionClearedOnDelete(t *testing.T) {
	s, _, logo := newSession(t)
	ctx := context.Background()
	overlay, err := s.AddOverlay(ctx, timeline.OverlayImage, logo.ID, time.Second)
	require.NoError(t, err)
	require.NoError(t, s.SelectOverlay(overlay.ID))
	assert.Equal(t, overlay.ID, s.Selection().OverlayID)

	require.NoError(t, s.DeleteOverlay(ctx, overlay.ID))
	assert.Empty(t, s.Selection().OverlayID)
	require.ErrorIs(t, s.SelectOverlay(overlay.ID), services.ErrOverlayNotFound)
}

func TestRemoveReferencedAssetLeavesProjectUnchanged(t *testing.T) {
	s, video, logo := newSession(t)
	ctx := context.Background()
	_, err := s.InsertClip(ctx, video.ID, timeline.TrackVideo)
	require.NoError(t, err)
	_, err = s.AddOverlay(ctx, timeline.OverlayImage, logo.ID, 0)
	require.NoError(t, err)
	before := s.Snapshot()

	require.ErrorIs(t, s.RemoveAsset(ctx, video.ID), services.ErrAssetInUse)
	require.ErrorIs(t, s.RemoveAsset(ctx, logo.ID), services.ErrAssetInUse)
	assert.Equal(t, before, s.Snapshot())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s, video, logo := newSession(t)
	ctx := context.Background()
	first, _ := s.InsertClip(ctx, video.ID, timeline.TrackVideo)
	_, _ = s.InsertClip(ctx, logo.ID, timeline.TrackVideo)
	_, err := s.TrimEnd(ctx, first.ID, 1500*time.Millisecond)
	require.NoError(t, err)
	_, err = s.SetTransition(ctx, first.ID, timeline.TransitionZoom)
	require.NoError(t, err)
	_, err = s.ApplyFilters(ctx, first.ID, timeline.Filters{Brightness: 80, Contrast: 130, Saturation: 0, Kind: timeline.FilterSepia}, 70)
	require.NoError(t, err)
	text, err := s.AddOverlay(ctx, timeline.OverlayText, "Hello", 2*time.Second)
	require.NoError(t, err)
	_, err = s.UpdateOverlayText(ctx, text.ID, timeline.TextUpdate{Color: "#00FF00", FontSize: 36})
	require.NoError(t, err)
	_, err = s.MoveOverlay(ctx, text.ID, 10, 20)
	require.NoError(t, err)

	env := s.Snapshot()
	raw, err := env.Encode()
	require.NoError(t, err)
	parsed, err := project.Parse(raw)
	require.NoError(t, err)

	restored, err := project.Restore(parsed, project.Options{})
	require.NoError(t, err)
	assert.Equal(t, s.Meta().ID, restored.Meta().ID)
	assert.Equal(t, s.Clips(timeline.TrackVideo), restored.Clips(timeline.TrackVideo))
	assert.Equal(t, s.Overlays(), restored.Overlays())
	assert.Equal(t, s.Duration(), restored.Duration())
	for _, at := range []time.Duration{0, 3 * time.Second, 9 * time.Second} {
		assert.Equal(t, s.Resolve(at), restored.Resolve(at), "at=%v", at)
	}
}

func TestRestoreRejectsBrokenInvariants(t *testing.T) {
	s, video, _ := newSession(t)
	_, _ = s.InsertClip(context.Background(), video.ID, timeline.TrackVideo)
	_, _ = s.InsertClip(context.Background(), video.ID, timeline.TrackVideo)

	env := s.Snapshot()
	env.Clips[1].TimelineStart = 5
	env.Clips[1].TimelineEnd = 15
	_, err := project.Restore(env, project.Options{})
	require.ErrorIs(t, err, services.ErrValidation)

	env = s.Snapshot()
	env.Assets = env.Assets[1:]
	_, err = project.Restore(env, project.Options{})
	require.ErrorIs(t, err, services.ErrValidation)

	env = s.Snapshot()
	env.Version = 2
	_, err = project.Restore(env, project.Options{})
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestYAMLDump(t *testing.T) {
	s, video, _ := newSession(t)
	_, _ = s.InsertClip(context.Background(), video.ID, timeline.TrackVideo)

	out, err := s.Snapshot().YAML()
	require.NoError(t, err)
	text := string(out)
	for _, want := range []string{"version: 1", "name: Holiday", "track: video", "timeline_end: 10", "kind: none"} {
		assert.True(t, strings.Contains(text, want), "expected %q in:\n%s", want, text)
	}
}

func TestResolveNeverObservesPartialEdits(t *testing.T) {
	s, video, _ := newSession(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := s.InsertClip(ctx, video.ID, timeline.TrackVideo)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			for at := time.Duration(0); at < 40*time.Second; at += 700 * time.Millisecond {
				frame := s.Resolve(at)
				if frame.Video != nil {
					clip, err := s.Clip(frame.Video.ClipID)
					if err == nil {
						assert.Equal(t, clip.SourceOffset(at), frame.Video.SourceOffset)
					}
				}
			}
		}
	}()

	for i := 0; i < 200; i++ {
		clips := s.Clips(timeline.TrackVideo)
		target := clips[i%len(clips)]
		if _, _, err := s.SplitClip(ctx, target.ID, nil); err != nil {
			require.ErrorIs(t, err, services.ErrInvalidSplitPoint)
		}
		_, err := s.TrimEnd(ctx, target.ID, 10*time.Millisecond)
		if err != nil {
			require.ErrorIs(t, err, services.ErrClipNotFound)
		}
	}
	close(stop)
	wg.Wait()
}
