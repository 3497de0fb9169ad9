// Package services defines shared utilities consumed by the editing core and
// the command layer.
//
// Key responsibilities:
//   - Context helpers that stamp project IDs, operation names, and correlation
//     identifiers for logging.
//   - The editing error taxonomy (asset/clip/overlay not found, invalid split
//     point, asset in use, empty timeline, no clips) plus the Wrap helper that
//     tags failures with one of those markers.
//   - Notice, which turns a rejected operation into the short message shown to
//     the user.
//
// Every rejected edit should carry one of the exported markers so callers can
// branch with errors.Is and the CLI can surface a consistent notification.
package services
