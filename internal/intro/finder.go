package intro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"introseek/internal/fingerprint"
	"introseek/internal/logging"
)

// Finder answers "where does the intro start in this file" for a fixed
// reference fingerprint.
type Finder struct {
	source     fingerprint.Source
	reference  fingerprint.Fingerprint
	quantum    float64
	maxSeconds int
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithReference replaces the built-in reference fingerprint. An empty
// reference keeps the default.
func WithReference(ref fingerprint.Fingerprint) Option {
	return func(f *Finder) {
		if len(ref) > 0 {
			f.reference = ref.Clone()
		}
	}
}

// WithQuantum sets the seconds covered by one fingerprint value. Non-positive
// values keep the default.
func WithQuantum(quantum float64) Option {
	return func(f *Finder) {
		if quantum > 0 {
			f.quantum = quantum
		}
	}
}

// WithMaxSeconds caps the audio fingerprinted per episode. Non-positive
// values keep the default.
func WithMaxSeconds(seconds int) Option {
	return func(f *Finder) {
		if seconds > 0 {
			f.maxSeconds = seconds
		}
	}
}

// WithLogger attaches a logger for per-query decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) { f.logger = logger }
}

// NewFinder constructs a Finder reading episode fingerprints from source.
func NewFinder(source fingerprint.Source, opts ...Option) (*Finder, error) {
	if source == nil {
		return nil, errors.New("intro finder requires a fingerprint source")
	}
	f := &Finder{
		source:     source,
		reference:  DefaultReference(),
		quantum:    fingerprint.DefaultQuantum,
		maxSeconds: fingerprint.DefaultMaxSeconds,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	return f, nil
}

// Reference returns a copy of the reference fingerprint.
func (f *Finder) Reference() fingerprint.Fingerprint { return f.reference.Clone() }

// Quantum returns the seconds covered by one fingerprint value.
func (f *Finder) Quantum() float64 { return f.quantum }

// MaxSeconds returns the per-episode analysis cap.
func (f *Finder) MaxSeconds() int { return f.maxSeconds }

// Fingerprint fetches the episode fingerprint from the configured source.
func (f *Finder) Fingerprint(ctx context.Context, path string) (fingerprint.Fingerprint, error) {
	fp, err := f.source.Fingerprint(ctx, path, f.maxSeconds)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return fp, nil
}

// Locate fingerprints path and aligns the reference against it. ok is false
// when the episode fingerprint is shorter than the reference.
func (f *Finder) Locate(ctx context.Context, path string) (Match, bool, error) {
	logger := logging.WithContext(ctx, f.logger).With(logging.Episode(path))
	started := time.Now()
	fp, err := f.Fingerprint(ctx, path)
	if err != nil {
		logging.WarnWithContext(logger, "episode fingerprint unavailable", "fingerprint_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify fpcalc is installed and the file decodes"),
			logging.String(logging.FieldImpact, "intro offset not computed for this episode"))
		return Match{}, false, err
	}
	m, ok := f.Align(fp)
	if !ok {
		logger.Info("intro not located",
			logging.Args(append(logging.DecisionAttrs("intro_alignment", "no_match", "episode shorter than reference"),
				logging.Int("episode_values", len(fp)),
				logging.Int("reference_values", len(f.reference)))...)...)
		return Match{}, false, nil
	}
	logger.Info("intro located",
		logging.Args(append(logging.DecisionAttrs("intro_alignment", "match", "minimum hamming distance"),
			logging.Float64("offset_seconds", m.Offset),
			logging.Int("index", m.Index),
			logging.Int("distance", m.Distance),
			logging.Duration("elapsed", time.Since(started)))...)...)
	return m, true, nil
}

// Align aligns the finder's reference against an already computed episode
// fingerprint.
func (f *Finder) Align(episode fingerprint.Fingerprint) (Match, bool) {
	return Align(episode, f.reference, f.quantum)
}
