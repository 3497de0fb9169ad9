package media_test

import (
	"errors"
	"testing"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
)

type fakeRefs map[string]int

func (f fakeRefs) References(id string) int { return f[id] }

func TestRegistryAddGetList(t *testing.T) {
	reg := media.NewRegistry(logging.NewNop())
	first := media.NewAsset(media.KindVideo, "Intro", "/clips/intro.mp4", 10*time.Second)
	second := media.NewAsset(media.KindImage, "Logo", "/img/logo.png", 3*time.Second)

	for _, asset := range []media.Asset{first, second} {
		if _, err := reg.Add(asset); err != nil {
			t.Fatalf("Add(%s) returned error: %v", asset.DisplayName, err)
		}
	}
	got, err := reg.Get(second.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Duration != 0 {
		t.Fatalf("images should not carry a duration, got %v", got.Duration)
	}
	list := reg.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected import order, got %+v", list)
	}
	if _, err := reg.Add(first); !errors.Is(err, services.ErrInvalidAsset) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, services.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestRegistryRejectsInvalidAssets(t *testing.T) {
	reg := media.NewRegistry(nil)
	cases := []media.Asset{
		{ID: "", Kind: media.KindVideo, Duration: time.Second},
		{ID: "a", Kind: "hologram", Duration: time.Second},
		{ID: "b", Kind: media.KindVideo},
		{ID: "c", Kind: media.KindAudio, Duration: -time.Second},
	}
	for _, asset := range cases {
		if _, err := reg.Add(asset); !errors.Is(err, services.ErrInvalidAsset) {
			t.Fatalf("expected ErrInvalidAsset for %+v, got %v", asset, err)
		}
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}

func TestRegistryRemoveRespectsReferences(t *testing.T) {
	reg := media.NewRegistry(logging.NewNop())
	asset, err := reg.Add(media.NewAsset(media.KindAudio, "Theme", "/a/theme.mp3", 30*time.Second))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	err = reg.Remove(asset.ID, fakeRefs{asset.ID: 2})
	if !errors.Is(err, services.ErrAssetInUse) {
		t.Fatalf("expected ErrAssetInUse, got %v", err)
	}
	if _, ok := reg.Lookup(asset.ID); !ok {
		t.Fatal("rejected removal must keep the asset")
	}

	if err := reg.Remove(asset.ID, fakeRefs{}); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected asset to be gone, len=%d", reg.Len())
	}
	if err := reg.Remove(asset.ID, nil); !errors.Is(err, services.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound on second removal, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if kind, err := media.ParseKind(" Video "); err != nil || kind != media.KindVideo {
		t.Fatalf("ParseKind video = %q, %v", kind, err)
	}
	if _, err := media.ParseKind("gif"); !errors.Is(err, services.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestDisplayNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/media/beach_day-02.mp4": "Beach Day 02",
		"holiday.final.mov":       "Holiday Final",
		"/x/__.png":               "__.png",
	}
	for path, want := range cases {
		if got := media.DisplayNameFromPath(path); got != want {
			t.Fatalf("DisplayNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestKindForPath(t *testing.T) {
	if kind, ok := media.KindForPath("/a/B.JPG"); !ok || kind != media.KindImage {
		t.Fatalf("expected image for jpg, got %q %v", kind, ok)
	}
	if media.Supported("/a/notes.txt") {
		t.Fatal("txt should not be importable")
	}
}
