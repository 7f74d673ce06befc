// Package fpcache persists episode fingerprints in SQLite so unchanged files
// are not re-fingerprinted on every run.
//
// Entries are keyed by absolute path and analysis cap, and carry the file
// size and modification time observed when the fingerprint was computed; a
// change to either turns the entry into a miss. Wrap layers the store in
// front of any fingerprint.Source.
//
// The cache is disabled by default. Enable it in config.toml:
//
//	[cache]
//	enabled = true
//
// CLI commands for inspection and management:
//
//	introseek cache list
//	introseek cache remove <path>
//	introseek cache clear
package fpcache
