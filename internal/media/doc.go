// Package media holds the imported source descriptors a project edits.
//
// Registry owns every Asset and refuses to forget one while clips or overlays
// still reference it. Importer turns files on disk into assets by probing them
// with ffprobe, and Watcher feeds newly dropped files from a directory into the
// importer.
package media
