// Package fingerprint obtains Chromaprint fingerprints for episode files.
//
// A Fingerprint is the ordered list of raw 32-bit codes produced by fpcalc,
// one per time quantum. FPCalc runs the external tool and parses its
// KEY=value output; Static serves fixed fingerprints from memory. Both satisfy
// Source, the narrow capability the intro aligner depends on. Every failure to
// produce a fingerprint wraps ErrUnavailable.
package fingerprint
