package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelcut/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrClipNotFound, "timeline", "split", "clip c-1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrClipNotFound) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"timeline", "split", "clip c-1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "edit failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrAssetInUse, "media", "remove", "", nil), "asset_in_use"},
		{fmt.Errorf("outer: %w", services.ErrInvalidSplitPoint), "invalid_split_point"},
		{services.ErrNoClips, "no_clips"},
		{errors.New("plain"), "internal"},
	}
	for _, tc := range cases {
		if got := services.ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNoticeIsSpecificPerKind(t *testing.T) {
	seen := map[string]error{}
	for _, marker := range []error{
		services.ErrAssetNotFound,
		services.ErrClipNotFound,
		services.ErrOverlayNotFound,
		services.ErrInvalidSplitPoint,
		services.ErrAssetInUse,
		services.ErrEmptyTimeline,
		services.ErrNoClips,
	} {
		msg := services.Notice(services.Wrap(marker, "timeline", "op", "", nil))
		if msg == "" || msg == "Operation failed" {
			t.Fatalf("expected specific notice for %v, got %q", marker, msg)
		}
		if prev, ok := seen[msg]; ok {
			t.Fatalf("notice %q shared by %v and %v", msg, prev, marker)
		}
		seen[msg] = marker
	}
	if services.Notice(nil) != "" {
		t.Fatal("expected empty notice for nil error")
	}
}
