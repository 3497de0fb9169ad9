// Package compose answers "what is on screen at t". Resolve is pure: the same
// timeline state and instant always produce an equal FrameDescriptor, and the
// timeline is never modified.
package compose
