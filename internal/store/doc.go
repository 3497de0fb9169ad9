// Package store persists project envelopes in a SQLite database
// (modernc.org/sqlite, no cgo) under the data directory.
//
// Reads may run concurrently; every write happens under an advisory file lock
// so two reelcut processes never interleave edits of the same database.
// Summary columns (name, timestamps, clip count, duration) are denormalized
// next to the JSON payload so listings never decode envelopes.
package store
