package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelcut/internal/services"
)

// Kind is the media type of an asset.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// ParseKind maps user input onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindVideo:
		return KindVideo, nil
	case KindAudio:
		return KindAudio, nil
	case KindImage:
		return KindImage, nil
	}
	return "", services.Wrap(services.ErrInvalidAsset, "media", "parse kind", fmt.Sprintf("unknown media kind %q", value), nil)
}

// Asset describes one imported source. Assets are immutable once registered.
type Asset struct {
	ID          string
	Kind        Kind
	Duration    time.Duration
	DisplayName string
	URI         string
	SizeBytes   int64
	ImportedAt  time.Time
}

// NewAsset builds an asset with a fresh ID. Images carry no intrinsic duration.
func NewAsset(kind Kind, displayName, uri string, duration time.Duration) Asset {
	if kind == KindImage {
		duration = 0
	}
	return Asset{
		ID:          uuid.NewString(),
		Kind:        kind,
		Duration:    duration.Round(time.Microsecond),
		DisplayName: strings.TrimSpace(displayName),
		URI:         strings.TrimSpace(uri),
		ImportedAt:  time.Now().UTC(),
	}
}

// HasSourceDuration reports whether trims are bounded by the asset duration.
func (a Asset) HasSourceDuration() bool {
	return a.Kind != KindImage
}

// Validate checks the asset is usable on a timeline.
func (a Asset) Validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return services.Wrap(services.ErrInvalidAsset, "media", "validate", "missing id", nil)
	case a.Kind != KindVideo && a.Kind != KindAudio && a.Kind != KindImage:
		return services.Wrap(services.ErrInvalidAsset, "media", "validate", fmt.Sprintf("asset %s has unknown kind %q", a.ID, a.Kind), nil)
	case a.Duration < 0:
		return services.Wrap(services.ErrInvalidAsset, "media", "validate", fmt.Sprintf("asset %s has negative duration", a.ID), nil)
	case a.HasSourceDuration() && a.Duration == 0:
		return services.Wrap(services.ErrInvalidAsset, "media", "validate", fmt.Sprintf("%s asset %s has no duration", a.Kind, a.ID), nil)
	case a.SizeBytes < 0:
		return services.Wrap(services.ErrInvalidAsset, "media", "validate", fmt.Sprintf("asset %s has negative size", a.ID), nil)
	}
	return nil
}

// Label returns the display name, falling back to the ID.
func (a Asset) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}
