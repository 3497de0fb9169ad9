// Package timeline is the editable model of a project: clips placed on the
// video and audio tracks plus free-floating overlays.
//
// Every edit either applies completely or returns a marked error from
// internal/services and leaves the timeline untouched. Continuous adjustments
// (trims, overlay moves and resizes, filter sliders) clamp instead of failing.
// Clips on one track never overlap; a Timeline is not safe for concurrent use
// and is guarded by the owning project session.
package timeline
