// Package config loads, normalizes, and validates introseek configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the INTROSEEK_FPCALC environment
// fallback. The Config type centralizes the fpcalc invocation settings, the
// intro reference, cache location, and scan behaviour so the CLI resolves them
// in one pass.
package config
