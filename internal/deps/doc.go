// Package deps checks that the external media tools reelcut drives are
// installed and resolvable on PATH.
package deps
