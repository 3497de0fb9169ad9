package services

import (
	"errors"
	"fmt"
	"strings"
)

// Editing failures. All of them are local validation errors: the rejected
// operation leaves the project untouched.
var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrClipNotFound      = errors.New("clip not found")
	ErrOverlayNotFound   = errors.New("overlay not found")
	ErrInvalidSplitPoint = errors.New("invalid split point")
	ErrAssetInUse        = errors.New("asset in use")
	ErrEmptyTimeline     = errors.New("empty timeline")
	ErrNoClips           = errors.New("no clips")
	ErrInvalidAsset      = errors.New("invalid asset")
	ErrIncompatibleTrack = errors.New("incompatible track")
	ErrValidation        = errors.New("validation error")
)

// Persistence failures.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectLocked   = errors.New("project locked")
	ErrSchemaMismatch  = errors.New("schema mismatch")
)

var markers = []error{
	ErrAssetNotFound,
	ErrClipNotFound,
	ErrOverlayNotFound,
	ErrInvalidSplitPoint,
	ErrAssetInUse,
	ErrEmptyTimeline,
	ErrNoClips,
	ErrInvalidAsset,
	ErrIncompatibleTrack,
	ErrValidation,
	ErrProjectNotFound,
	ErrProjectLocked,
	ErrSchemaMismatch,
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorKind classifies err by its marker, returning a snake_case kind such as
// "clip_not_found". Unmarked errors report "internal".
func ErrorKind(err error) string {
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return strings.ReplaceAll(marker.Error(), " ", "_")
		}
	}
	return "internal"
}

// Notice returns the short notification shown to the user when an operation
// is rejected.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAssetNotFound):
		return "Media file not found in the library"
	case errors.Is(err, ErrClipNotFound):
		return "Clip no longer exists on the timeline"
	case errors.Is(err, ErrOverlayNotFound):
		return "Overlay no longer exists"
	case errors.Is(err, ErrInvalidSplitPoint):
		return "Move the playhead inside the clip to split it"
	case errors.Is(err, ErrAssetInUse):
		return "Media file is used on the timeline; remove its clips first"
	case errors.Is(err, ErrEmptyTimeline):
		return "Add at least one clip before exporting"
	case errors.Is(err, ErrNoClips):
		return "Add a video clip to start playback"
	case errors.Is(err, ErrInvalidAsset):
		return "Media file could not be used"
	case errors.Is(err, ErrIncompatibleTrack):
		return "This media type cannot be placed on that track"
	case errors.Is(err, ErrValidation):
		return "Project data is invalid"
	case errors.Is(err, ErrProjectNotFound):
		return "Project not found; run `reelcut project list`"
	case errors.Is(err, ErrProjectLocked):
		return "Another reelcut process is editing projects"
	case errors.Is(err, ErrSchemaMismatch):
		return "Project database was written by a different reelcut version"
	default:
		return "Operation failed"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "edit failure"
	}
	return strings.Join(parts, ": ")
}
