// Package logging assembles structured slog loggers and formatting helpers used
// across reelcut.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so edit and playback code can
// tag log lines with the project ID and operation name. A no-op logger is
// provided for tests and for wiring code that cannot fail.
package logging
