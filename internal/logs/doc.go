// Package logs reads the introseek log file for the CLI.
//
// Last returns the trailing lines with bounded memory, and Follow polls for
// appended lines until its context ends. A Filter narrows both to one scan
// run (by correlation ID), one component, or a minimum level.
package logs
