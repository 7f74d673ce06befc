package fingerprint

import (
	"context"
	"fmt"
	"sync"
)

// Static serves fixed fingerprints from memory, keyed by path.
type Static struct {
	mu      sync.Mutex
	quantum float64
	prints  map[string]Fingerprint
	calls   map[string]int
	delayed map[string]chan struct{}
}

// NewStatic returns a source that answers from prints. The map is copied.
func NewStatic(prints map[string]Fingerprint) *Static {
	s := &Static{
		quantum: DefaultQuantum,
		prints:  make(map[string]Fingerprint, len(prints)),
		calls:   make(map[string]int),
	}
	for path, fp := range prints {
		s.prints[path] = fp.Clone()
	}
	return s
}

// Set registers or replaces the fingerprint for path.
func (s *Static) Set(path string, fp Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prints[path] = fp.Clone()
}

// SetQuantum sets the seconds per value used to cap lookups at maxSeconds.
// Non-positive values keep DefaultQuantum.
func (s *Static) SetQuantum(quantum float64) {
	if quantum <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantum = quantum
}

// Block makes lookups of path wait until the returned release function is
// called or the lookup context ends.
func (s *Static) Block(path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delayed == nil {
		s.delayed = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	s.delayed[path] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Fingerprint returns the stored fingerprint truncated to maxSeconds worth of
// values at the source's quantum.
func (s *Static) Fingerprint(ctx context.Context, path string, maxSeconds int) (Fingerprint, error) {
	s.mu.Lock()
	s.calls[path]++
	fp, ok := s.prints[path]
	gate := s.delayed[path]
	quantum := s.quantum
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, path, ctx.Err())
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: no fingerprint registered for %s", ErrUnavailable, path)
	}
	if maxSeconds > 0 {
		if limit := int(float64(maxSeconds) / quantum); limit < len(fp) {
			fp = fp[:limit]
		}
	}
	return fp.Clone(), nil
}

// Calls reports how many lookups path has received.
func (s *Static) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}
