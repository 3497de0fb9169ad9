// Package export turns a validated timeline into an ffmpeg invocation.
//
// Preflight rejects timelines without clips. Planner.Plan then maps every
// referenced asset to an input, lays out each track as a run of trimmed
// segments and black or silent gaps, applies per-clip looks, volume and
// entry transitions, burns overlays in over their time windows, and
// concatenates the result. The plan is printed for the user; this package
// never runs ffmpeg.
package export
