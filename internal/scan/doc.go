// Package scan runs intro detection over a batch of episode files.
//
// A Scanner discovers candidate files under a directory, fans them out over a
// fixed worker pool, and collects one Result per file in input order. Each
// run carries a UUID that is attached to every log line as the correlation
// ID. When a lock path is configured, a gofrs/flock file lock keeps two scans
// from running against the same state directory at once.
package scan
