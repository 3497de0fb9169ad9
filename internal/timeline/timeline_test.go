package timeline_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

type fixture struct {
	registry *media.Registry
	tl       *timeline.Timeline
	video    media.Asset
	audio    media.Asset
	image    media.Asset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := media.NewRegistry(logging.NewNop())
	add := func(id string, kind media.Kind, d time.Duration) media.Asset {
		asset, err := reg.Add(media.Asset{ID: id, Kind: kind, Duration: d, DisplayName: id})
		require.NoError(t, err)
		return asset
	}
	seq := 0
	tl := timeline.New(reg, timeline.Options{
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
		Logger: logging.NewNop(),
	})
	return &fixture{
		registry: reg,
		tl:       tl,
		video:    add("video", media.KindVideo, 10*time.Second),
		audio:    add("audio", media.KindAudio, 30*time.Second),
		image:    add("image", media.KindImage, 0),
	}
}

func sec(s float64) time.Duration { return timeline.Seconds(s) }

func assertSpan(t *testing.T, clip timeline.Clip, start, end, trimStart, trimEnd float64) {
	t.Helper()
	assert.Equal(t, sec(start), clip.TimelineStart, "timeline start")
	assert.Equal(t, sec(end), clip.TimelineEnd, "timeline end")
	assert.Equal(t, sec(trimStart), clip.TrimStart, "trim start")
	assert.Equal(t, sec(trimEnd), clip.TrimEnd, "trim end")
}

func TestInsertAppendsAtTrackEnd(t *testing.T) {
	f := newFixture(t)

	first, err := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	require.NoError(t, err)
	second, err := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	require.NoError(t, err)

	assertSpan(t, first, 0, 10, 0, 10)
	assertSpan(t, second, 10, 20, 0, 10)
	assert.Equal(t, 20*time.Second, f.tl.Duration())
	assert.Equal(t, timeline.DefaultFilters(), first.Filters)
	assert.Equal(t, 100, first.Volume)
	assert.Equal(t, timeline.TransitionNone, first.Transition)

	music, err := f.tl.Insert(f.audio.ID, timeline.TrackAudio)
	require.NoError(t, err)
	assertSpan(t, music, 0, 30, 0, 30)
	assert.Equal(t, 30*time.Second, f.tl.Duration())
}

func TestInsertImageUsesDefaultDuration(t *testing.T) {
	f := newFixture(t)
	clip, err := f.tl.Insert(f.image.ID, timeline.TrackVideo)
	require.NoError(t, err)
	assertSpan(t, clip, 0, 5, 0, 5)
}

func TestInsertRejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.tl.Insert("nope", timeline.TrackVideo)
	require.ErrorIs(t, err, services.ErrAssetNotFound)

	_, err = f.tl.Insert(f.audio.ID, timeline.TrackVideo)
	require.ErrorIs(t, err, services.ErrIncompatibleTrack)

	_, err = f.tl.Insert(f.image.ID, timeline.TrackAudio)
	require.ErrorIs(t, err, services.ErrIncompatibleTrack)

	assert.Zero(t, f.tl.ClipCount())
	assert.Zero(t, f.tl.Duration())
}

func TestDeleteLeavesGap(t *testing.T) {
	f := newFixture(t)
	first, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	removed, err := f.tl.Delete(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, removed.ID)

	clips := f.tl.Clips(timeline.TrackVideo)
	require.Len(t, clips, 1)
	assert.Equal(t, second, clips[0])
	assert.Equal(t, 20*time.Second, f.tl.Duration())

	_, err = f.tl.Delete(first.ID)
	require.ErrorIs(t, err, services.ErrClipNotFound)
}

func TestSplitScenario(t *testing.T) {
	f := newFixture(t)
	_, _ = f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	_, err := f.tl.ApplyFilters(second.ID, timeline.Filters{Brightness: 150, Contrast: 90, Saturation: 0, Kind: timeline.FilterSepia}, 40)
	require.NoError(t, err)
	_, err = f.tl.SetTransition(second.ID, timeline.TransitionFade)
	require.NoError(t, err)

	left, right, err := f.tl.Split(second.ID, 15*time.Second)
	require.NoError(t, err)

	assertSpan(t, left, 10, 15, 0, 5)
	assertSpan(t, right, 15, 20, 5, 10)
	assert.NotEqual(t, second.ID, left.ID)
	assert.NotEqual(t, left.ID, right.ID)
	for _, half := range []timeline.Clip{left, right} {
		assert.Equal(t, f.video.ID, half.MediaID)
		assert.Equal(t, 40, half.Volume)
		assert.Equal(t, timeline.FilterSepia, half.Filters.Kind)
		assert.Equal(t, 150, half.Filters.Brightness)
	}
	assert.Equal(t, timeline.TransitionFade, left.Transition)
	assert.Equal(t, timeline.TransitionNone, right.Transition)

	_, err = f.tl.Clip(second.ID)
	require.ErrorIs(t, err, services.ErrClipNotFound)
	require.Len(t, f.tl.Clips(timeline.TrackVideo), 3)
	require.NoError(t, f.tl.Validate())
}

func TestSplitConservesSpan(t *testing.T) {
	for _, k := range []float64{0.000001, 0.1, 2.5, 5, 9.999999} {
		t.Run(fmt.Sprintf("k=%v", k), func(t *testing.T) {
			f := newFixture(t)
			clip, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
			_, err := f.tl.TrimStart(clip.ID, sec(0))
			require.NoError(t, err)

			left, right, err := f.tl.Split(clip.ID, clip.TimelineStart+sec(k))
			require.NoError(t, err)
			assert.Equal(t, clip.Duration(), left.Duration()+right.Duration())
			assert.Equal(t, left.TrimEnd, right.TrimStart)
			assert.Equal(t, clip.TrimStart, left.TrimStart)
			assert.Equal(t, clip.TrimEnd, right.TrimEnd)
			assert.Equal(t, left.TimelineEnd, right.TimelineStart)
		})
	}
}

func TestSplitRejectsBoundaryPoints(t *testing.T) {
	f := newFixture(t)
	clip, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	before := f.tl.AllClips()

	for _, at := range []time.Duration{0, 10 * time.Second, -time.Second, 12 * time.Second, 300 * time.Nanosecond} {
		_, _, err := f.tl.Split(clip.ID, at)
		require.ErrorIs(t, err, services.ErrInvalidSplitPoint, "at=%v", at)
	}
	assert.Equal(t, before, f.tl.AllClips())

	_, _, err := f.tl.Split("missing", time.Second)
	require.ErrorIs(t, err, services.ErrClipNotFound)
}

func TestSplitAtMidpoint(t *testing.T) {
	f := newFixture(t)
	_, _ = f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	left, right, err := f.tl.SplitAtMidpoint(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, left.TimelineEnd)
	assert.Equal(t, 15*time.Second, right.TimelineStart)
}

func TestTrimEndScenario(t *testing.T) {
	f := newFixture(t)
	clip, _ := f.tl.Insert(f.image.ID, timeline.TrackVideo)

	res, err := f.tl.TrimEnd(clip.ID, sec(0.5))
	require.NoError(t, err)
	assert.False(t, res.Clamped)
	assertSpan(t, res.Clip, 0, 4.5, 0, 4.5)

	res, err = f.tl.TrimEnd(clip.ID, sec(10))
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, sec(4.4), res.Applied)
	assert.Equal(t, 100*time.Millisecond, res.Clip.Duration())
	assert.Equal(t, res.Clip.Duration(), res.Clip.TrimEnd-res.Clip.TrimStart)
}

func TestTrimEndRespectsSourceAndNeighbour(t *testing.T) {
	f := newFixture(t)
	first, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	res, err := f.tl.TrimEnd(first.ID, sec(3))
	require.NoError(t, err)
	assertSpan(t, res.Clip, 0, 7, 0, 7)

	res, err = f.tl.TrimEnd(first.ID, sec(-5))
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assertSpan(t, res.Clip, 0, 10, 0, 10)

	_, err = f.tl.Delete(second.ID)
	require.NoError(t, err)
	res, err = f.tl.TrimEnd(first.ID, sec(-5))
	require.NoError(t, err)
	assert.True(t, res.Clamped, "source end bounds the extension")
	assertSpan(t, res.Clip, 0, 10, 0, 10)
}

func TestTrimEndExtendsImagesFreely(t *testing.T) {
	f := newFixture(t)
	clip, _ := f.tl.Insert(f.image.ID, timeline.TrackVideo)

	res, err := f.tl.TrimEnd(clip.ID, sec(-20))
	require.NoError(t, err)
	assert.False(t, res.Clamped)
	assertSpan(t, res.Clip, 0, 25, 0, 25)
}

func TestTrimEndStopsImagesAtTimelineCeiling(t *testing.T) {
	f := newFixture(t)
	clip, err := f.tl.Insert(f.image.ID, timeline.TrackVideo)
	require.NoError(t, err)

	huge := -time.Duration(9e18)
	first, err := f.tl.TrimEnd(clip.ID, huge)
	require.NoError(t, err)
	assert.True(t, first.Clamped)
	assert.Equal(t, timeline.MaxTimelineEnd, first.Clip.TimelineEnd)

	second, err := f.tl.TrimEnd(clip.ID, huge)
	require.NoError(t, err)
	assert.True(t, second.Clamped)
	assert.Equal(t, time.Duration(0), second.Applied)
	assert.Equal(t, timeline.MaxTimelineEnd, second.Clip.TimelineEnd)
	assert.Equal(t, second.Clip.Duration(), second.Clip.TrimEnd-second.Clip.TrimStart)
	require.NoError(t, f.tl.Validate())

	_, err = f.tl.Insert(f.video.ID, timeline.TrackVideo)
	assert.ErrorIs(t, err, services.ErrValidation, "track is already at the ceiling")
}

// sourceOnly serves assets without the registry's rounding.
type sourceOnly map[string]media.Asset

func (s sourceOnly) Lookup(id string) (media.Asset, bool) {
	a, ok := s[id]
	return a, ok
}

func TestInsertNeverReadsPastSource(t *testing.T) {
	assets := sourceOnly{"v": {ID: "v", Kind: media.KindVideo, Duration: 10*time.Second + 600*time.Nanosecond}}
	tl := timeline.New(assets, timeline.Options{Logger: logging.NewNop()})

	clip, err := tl.Insert("v", timeline.TrackVideo)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, clip.TrimEnd)
	assert.LessOrEqual(t, clip.TrimEnd, assets["v"].Duration)
	require.NoError(t, tl.Validate())

	res, err := tl.TrimEnd(clip.ID, sec(-1))
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, 10*time.Second, res.Clip.TrimEnd, "extension stays on the microsecond grid")
	require.NoError(t, tl.Validate())
}

func TestRegisteredDurationKeepsInsertWithinSource(t *testing.T) {
	reg := media.NewRegistry(logging.NewNop())
	asset, err := reg.Add(media.Asset{ID: "v", Kind: media.KindVideo, Duration: 10*time.Second + 600*time.Nanosecond, DisplayName: "v"})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second+time.Microsecond, asset.Duration)

	tl := timeline.New(reg, timeline.Options{Logger: logging.NewNop()})
	clip, err := tl.Insert("v", timeline.TrackVideo)
	require.NoError(t, err)
	assert.LessOrEqual(t, clip.TrimEnd, asset.Duration)
	require.NoError(t, tl.Validate())
}

func TestTrimStart(t *testing.T) {
	f := newFixture(t)
	first, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	res, err := f.tl.TrimStart(second.ID, sec(2))
	require.NoError(t, err)
	assertSpan(t, res.Clip, 12, 20, 2, 10)

	res, err = f.tl.TrimStart(second.ID, sec(-5))
	require.NoError(t, err)
	assert.True(t, res.Clamped, "source start bounds the extension")
	assertSpan(t, res.Clip, 10, 20, 0, 10)

	res, err = f.tl.TrimStart(first.ID, sec(100))
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, 100*time.Millisecond, res.Clip.Duration())
	assertSpan(t, res.Clip, 9.9, 10, 9.9, 10)

	_, err = f.tl.TrimStart("missing", time.Second)
	require.ErrorIs(t, err, services.ErrClipNotFound)
	require.NoError(t, f.tl.Validate())
}

func TestTrimStartStopsAtPreviousClip(t *testing.T) {
	f := newFixture(t)
	still, _ := f.tl.Insert(f.image.ID, timeline.TrackVideo)
	movie, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	assertSpan(t, movie, 5, 15, 0, 10)

	_, err := f.tl.TrimStart(movie.ID, sec(6))
	require.NoError(t, err)
	res, err := f.tl.TrimEnd(still.ID, sec(-4))
	require.NoError(t, err)
	assertSpan(t, res.Clip, 0, 9, 0, 9)

	res, err = f.tl.TrimStart(movie.ID, sec(-10))
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, sec(-2), res.Applied)
	assertSpan(t, res.Clip, 9, 15, 4, 10)

	res, err = f.tl.TrimEnd(still.ID, sec(-1))
	require.NoError(t, err)
	assert.True(t, res.Clamped, "next clip bounds the extension")
	assertSpan(t, res.Clip, 0, 9, 0, 9)
	require.NoError(t, f.tl.Validate())
}

func TestApplyFiltersClamps(t *testing.T) {
	f := newFixture(t)
	clip, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	updated, err := f.tl.ApplyFilters(clip.ID, timeline.Filters{Brightness: 250, Contrast: -3, Saturation: 120, Kind: "vhs"}, 999)
	require.NoError(t, err)
	assert.Equal(t, timeline.Filters{Brightness: 200, Contrast: 0, Saturation: 120, Kind: timeline.FilterNone}, updated.Filters)
	assert.Equal(t, 200, updated.Volume)

	_, err = f.tl.ApplyFilters("missing", timeline.DefaultFilters(), 100)
	require.ErrorIs(t, err, services.ErrClipNotFound)
}

func TestClipAtBoundaries(t *testing.T) {
	f := newFixture(t)
	first, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	second, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)

	got, ok := f.tl.ClipAt(timeline.TrackVideo, 0)
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)

	got, ok = f.tl.ClipAt(timeline.TrackVideo, 10*time.Second)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	_, ok = f.tl.ClipAt(timeline.TrackVideo, 20*time.Second)
	assert.False(t, ok)
	_, ok = f.tl.ClipAt(timeline.TrackAudio, time.Second)
	assert.False(t, ok)
}

func TestReferencesAndAssetInUse(t *testing.T) {
	f := newFixture(t)
	clip, _ := f.tl.Insert(f.video.ID, timeline.TrackVideo)
	_, err := f.tl.AddOverlay(timeline.OverlayImage, f.image.ID, 0)
	require.NoError(t, err)
	before := f.tl.AllClips()

	assert.Equal(t, 1, f.tl.References(f.video.ID))
	assert.Equal(t, 1, f.tl.References(f.image.ID))
	assert.Zero(t, f.tl.References(f.audio.ID))

	require.ErrorIs(t, f.registry.Remove(f.video.ID, f.tl), services.ErrAssetInUse)
	assert.Equal(t, before, f.tl.AllClips())
	_, ok := f.registry.Lookup(f.video.ID)
	assert.True(t, ok)

	_, err = f.tl.Delete(clip.ID)
	require.NoError(t, err)
	require.NoError(t, f.registry.Remove(f.video.ID, f.tl))
	require.NoError(t, f.registry.Remove(f.audio.ID, f.tl))
}

func TestLoadRejectsBrokenState(t *testing.T) {
	f := newFixture(t)
	good := timeline.Clip{
		ID: "a", MediaID: f.video.ID, Track: timeline.TrackVideo,
		TimelineStart: 0, TimelineEnd: 4 * time.Second, TrimStart: 0, TrimEnd: 4 * time.Second,
		Volume: 100, Filters: timeline.DefaultFilters(), Transition: timeline.TransitionNone,
	}
	tl, err := timeline.Load(f.registry, timeline.Options{}, []timeline.Clip{good}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, tl.Duration())

	overlapping := good
	overlapping.ID = "b"
	overlapping.TimelineStart = 3 * time.Second
	overlapping.TimelineEnd = 7 * time.Second

	mismatched := good
	mismatched.TrimEnd = 5 * time.Second

	pastSource := good
	pastSource.TimelineEnd = 12 * time.Second
	pastSource.TrimEnd = 12 * time.Second

	wrongTrack := good
	wrongTrack.MediaID = f.audio.ID

	cases := map[string][]timeline.Clip{
		"overlap":     {good, overlapping},
		"mismatch":    {mismatched},
		"past source": {pastSource},
		"wrong track": {wrongTrack},
		"duplicate":   {good, good},
	}
	for name, clips := range cases {
		_, err := timeline.Load(f.registry, timeline.Options{}, clips, nil)
		require.ErrorIs(t, err, services.ErrValidation, name)
	}
}

// TestInvariantsHoldUnderRandomEdits drives a random edit sequence and checks
// every invariant after each step.
func TestInvariantsHoldUnderRandomEdits(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(7))
	assets := []struct {
		id    string
		track timeline.TrackKind
	}{
		{f.video.ID, timeline.TrackVideo},
		{f.image.ID, timeline.TrackVideo},
		{f.audio.ID, timeline.TrackAudio},
	}

	for step := 0; step < 500; step++ {
		clips := f.tl.AllClips()
		var target timeline.Clip
		if len(clips) > 0 {
			target = clips[rng.Intn(len(clips))]
		}
		delta := time.Duration(rng.Int63n(int64(16*time.Second))) - 8*time.Second

		switch op := rng.Intn(6); {
		case op == 0 || len(clips) == 0:
			a := assets[rng.Intn(len(assets))]
			_, err := f.tl.Insert(a.id, a.track)
			require.NoError(t, err)
		case op == 1:
			at := target.TimelineStart + time.Duration(rng.Int63n(int64(target.Duration())+1))
			if _, _, err := f.tl.Split(target.ID, at); err != nil {
				require.ErrorIs(t, err, services.ErrInvalidSplitPoint)
			}
		case op == 2:
			_, err := f.tl.TrimStart(target.ID, delta)
			require.NoError(t, err)
		case op == 3:
			_, err := f.tl.TrimEnd(target.ID, delta)
			require.NoError(t, err)
		case op == 4 && rng.Intn(3) == 0:
			_, err := f.tl.Delete(target.ID)
			require.NoError(t, err)
		default:
			_, err := f.tl.ApplyFilters(target.ID, timeline.Filters{Brightness: rng.Intn(300) - 50, Kind: timeline.FilterBlur}, rng.Intn(250))
			require.NoError(t, err)
		}
		require.NoError(t, f.tl.Validate(), "step %d", step)
		for _, clip := range f.tl.AllClips() {
			require.GreaterOrEqual(t, clip.Duration(), time.Duration(0))
		}
	}
}
