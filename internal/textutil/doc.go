// Package textutil holds small text helpers shared by the CLI and export
// planner: filename sanitizing, shell quoting for printed commands, and
// trigram fingerprints used to suggest the closest project or asset name
// when a lookup misses.
package textutil
