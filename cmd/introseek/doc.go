// Package main hosts the introseek CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into intro lookups, batch
// scans, fingerprint dumps, cache maintenance, configuration scaffolding,
// health reports and log viewing. Configuration resolution and logger setup
// live in context.go so subcommands only handle their own output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
