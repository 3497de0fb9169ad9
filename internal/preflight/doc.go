// Package preflight provides readiness checks for the filesystem paths and
// the project database reelcut depends on.
//
// The CLI "reelcut status" command runs RunAll and renders the results next
// to the external binary checks from package deps.
package preflight
