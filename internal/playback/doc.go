// Package playback owns the canonical playhead. Controller is a small state
// machine (stopped, playing, paused) advanced by wall-clock ticks; every
// advance resolves the composition and hands it to a Renderer.
//
// Ticks never overlap: a tick that arrives while the previous resolve is
// still running is dropped rather than queued.
package playback
