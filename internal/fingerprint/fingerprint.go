package fingerprint

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Chromaprint samples audio at 11025 Hz with a 4096-sample frame and 2/3
// overlap, so consecutive fingerprint values are 4096/11025/3 seconds apart.
const (
	ChromaprintSampleRate = 11025
	ChromaprintFrameSize  = 4096
	ChromaprintOverlap    = 3
)

// DefaultQuantum is the rounded duration, in seconds, covered by one
// fingerprint value at the Chromaprint defaults.
const DefaultQuantum = 0.124

// DefaultMaxSeconds caps how much audio fpcalc analyses per episode.
const DefaultMaxSeconds = 120

// ErrUnavailable reports that no fingerprint could be produced for a file.
var ErrUnavailable = errors.New("fingerprint unavailable")

// Fingerprint is an ordered sequence of raw fingerprint codes.
type Fingerprint []uint32

// Source produces the fingerprint of an audio file, analysing at most
// maxSeconds of audio.
type Source interface {
	Fingerprint(ctx context.Context, path string, maxSeconds int) (Fingerprint, error)
}

// Quantum returns the seconds covered by one fingerprint value for the given
// fingerprinter parameters. It returns 0 when any parameter is non-positive.
func Quantum(frameSize, sampleRate, overlap int) float64 {
	if frameSize <= 0 || sampleRate <= 0 || overlap <= 0 {
		return 0
	}
	return float64(frameSize) / float64(sampleRate) / float64(overlap)
}

// Clone returns an independent copy of f.
func (f Fingerprint) Clone() Fingerprint {
	if f == nil {
		return nil
	}
	out := make(Fingerprint, len(f))
	copy(out, f)
	return out
}

// Seconds returns the audio duration covered by f at the given quantum.
func (f Fingerprint) Seconds(quantum float64) float64 {
	return float64(len(f)) * quantum
}

// String renders f in fpcalc's comma-separated raw format.
func (f Fingerprint) String() string {
	var b strings.Builder
	b.Grow(len(f) * 11)
	for i, v := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}
