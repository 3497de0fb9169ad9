// Package project ties a media registry, a timeline and the editor selection
// into one Session, and converts sessions to and from the versioned Envelope
// that persistence stores.
//
// Session serializes edits against resolves with a read/write lock, so a
// resolve never observes a half-applied edit. Rejected edits are logged with
// the user-facing notice and leave the session unchanged.
package project
