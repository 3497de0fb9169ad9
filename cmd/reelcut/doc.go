// Package main hosts the reelcut CLI entrypoint and command graph.
//
// Each invocation loads the configuration, opens the project database, and
// restores the target project (the --project flag, or the most recently
// updated one) into an editing session. Mutating commands run under the
// store's write lock and save the session snapshot when the edit succeeds;
// read-only commands never take the lock.
//
// Keep this package lean: editing rules live in internal/timeline and
// internal/project, and commands only translate flags into those calls.
package main
