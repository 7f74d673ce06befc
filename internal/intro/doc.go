// Package intro locates a known intro inside an episode by fingerprint
// alignment.
//
// Align slides the reference fingerprint across the episode fingerprint and
// picks the window with the smallest summed hamming distance; the earliest
// window wins ties. Finder binds a fingerprint.Source to a reference so
// callers can ask for an offset by file path.
package intro
