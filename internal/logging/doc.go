// Package logging builds the slog loggers used across introseek.
//
// Records go to stderr in console or JSON form, coloured when stderr is a
// terminal, and optionally to an uncoloured log file that the logs command
// reads back. Helpers attach the component, episode and scan run ID fields
// so every line of a batch scan can be traced to its run.
package logging
