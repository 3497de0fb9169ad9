// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// It is the concrete media-import collaborator: Prober.Inspect reports the
// duration, size and stream layout that the media registry needs to classify a
// file as video, audio or image. The command runner is injectable so tests can
// feed canned JSON without an ffprobe binary.
package ffprobe
