package timeline

import (
	"fmt"
	"strings"

	"reelcut/internal/services"
)

// TrackKind names one of the two tracks.
type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
)

// Tracks lists every track in render order.
var Tracks = []TrackKind{TrackVideo, TrackAudio}

// ParseTrack maps user input onto a TrackKind.
func ParseTrack(value string) (TrackKind, error) {
	switch TrackKind(strings.ToLower(strings.TrimSpace(value))) {
	case TrackVideo:
		return TrackVideo, nil
	case TrackAudio:
		return TrackAudio, nil
	}
	return "", services.Wrap(services.ErrValidation, "timeline", "parse track", fmt.Sprintf("unknown track %q", value), nil)
}

// FilterKind is the closed set of looks a clip can carry.
type FilterKind string

const (
	FilterNone       FilterKind = "none"
	FilterGrayscale  FilterKind = "grayscale"
	FilterSepia      FilterKind = "sepia"
	FilterBlur       FilterKind = "blur"
	FilterBrightness FilterKind = "brightness"
	FilterContrast   FilterKind = "contrast"
)

var filterKinds = []FilterKind{FilterNone, FilterGrayscale, FilterSepia, FilterBlur, FilterBrightness, FilterContrast}

// ParseFilterKind resolves a filter name. An empty name means FilterNone.
func ParseFilterKind(value string) (FilterKind, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return FilterNone, nil
	}
	for _, kind := range filterKinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "timeline", "parse filter", fmt.Sprintf("unknown filter %q", value), nil)
}

// Valid reports whether k is one of the known filters.
func (k FilterKind) Valid() bool {
	for _, kind := range filterKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// TransitionKind is the entry effect applied at the start of a clip.
type TransitionKind string

const (
	TransitionNone  TransitionKind = "none"
	TransitionFade  TransitionKind = "fade"
	TransitionSlide TransitionKind = "slide"
	TransitionZoom  TransitionKind = "zoom"
)

var transitionKinds = []TransitionKind{TransitionNone, TransitionFade, TransitionSlide, TransitionZoom}

// ParseTransition resolves a transition name. An empty name means TransitionNone.
func ParseTransition(value string) (TransitionKind, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return TransitionNone, nil
	}
	for _, kind := range transitionKinds {
		if string(kind) == name {
			return kind, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "timeline", "parse transition", fmt.Sprintf("unknown transition %q", value), nil)
}

// Valid reports whether k is one of the known transitions.
func (k TransitionKind) Valid() bool {
	for _, kind := range transitionKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// OverlayKind distinguishes text from image overlays.
type OverlayKind string

const (
	OverlayText  OverlayKind = "text"
	OverlayImage OverlayKind = "image"
)

// ParseOverlayKind maps user input onto an OverlayKind.
func ParseOverlayKind(value string) (OverlayKind, error) {
	switch OverlayKind(strings.ToLower(strings.TrimSpace(value))) {
	case OverlayText:
		return OverlayText, nil
	case OverlayImage:
		return OverlayImage, nil
	}
	return "", services.Wrap(services.ErrValidation, "timeline", "parse overlay kind", fmt.Sprintf("unknown overlay kind %q", value), nil)
}
