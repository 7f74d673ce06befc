package intro

import "introseek/internal/fingerprint"

// defaultReference is the fpcalc -raw fingerprint of the podcast intro.
var defaultReference = fingerprint.Fingerprint{1901346119, 1901391175, 1633075063, 1641455463, 1641455415}

// DefaultReference returns a copy of the built-in intro fingerprint.
func DefaultReference() fingerprint.Fingerprint {
	return defaultReference.Clone()
}
