package fingerprint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"introseek/internal/logging"
)

const (
	stderrExcerptBytes = 512
	waitDelay          = 2 * time.Second
)

var _ Source = (*FPCalc)(nil)

// FPCalc runs Chromaprint's fpcalc to fingerprint files.
type FPCalc struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// FPCalcOption configures an FPCalc source.
type FPCalcOption func(*FPCalc)

// WithTimeout bounds each fpcalc invocation. Zero or negative disables the
// limit; the caller's context still applies.
func WithTimeout(timeout time.Duration) FPCalcOption {
	return func(f *FPCalc) { f.timeout = timeout }
}

// WithLogger attaches a logger for invocation diagnostics.
func WithLogger(logger *slog.Logger) FPCalcOption {
	return func(f *FPCalc) { f.logger = logger }
}

// NewFPCalc builds a source that executes binary (a name resolved on PATH or
// an explicit path). An empty binary means "fpcalc".
func NewFPCalc(binary string, opts ...FPCalcOption) *FPCalc {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "fpcalc"
	}
	f := &FPCalc{binary: binary}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "fpcalc")
	return f
}

// Binary returns the configured executable.
func (f *FPCalc) Binary() string {
	return f.binary
}

// Fingerprint runs fpcalc -raw -length maxSeconds against path.
func (f *FPCalc) Fingerprint(ctx context.Context, path string, maxSeconds int) (Fingerprint, error) {
	if maxSeconds <= 0 {
		maxSeconds = DefaultMaxSeconds
	}
	resolved, err := exec.LookPath(f.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: fpcalc binary %q not found: %w", ErrUnavailable, f.binary, err)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	args := []string{"-raw", "-length", strconv.Itoa(maxSeconds), argPath(path)}
	cmd := exec.CommandContext(ctx, resolved, args...) //nolint:gosec
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: fpcalc %s: %w", ErrUnavailable, path, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: fpcalc %s exited with status %d: %s", ErrUnavailable, path, exitErr.ExitCode(), stderrExcerpt(stderr.Bytes()))
		}
		return nil, fmt.Errorf("%w: fpcalc %s: %w", ErrUnavailable, path, err)
	}

	fp, err := ParseOutput(&stdout)
	if err != nil {
		return nil, fmt.Errorf("fpcalc %s: %w", path, err)
	}
	f.logger.Debug("fingerprint computed",
		logging.Episode(path),
		logging.Int("values", len(fp)),
		logging.Int("max_seconds", maxSeconds),
		logging.Duration("elapsed", time.Since(started)))
	return fp, nil
}

// argPath keeps a relative path that begins with a dash from being read as
// an fpcalc flag.
func argPath(path string) string {
	if strings.HasPrefix(path, "-") {
		return "." + string(filepath.Separator) + path
	}
	return path
}

func stderrExcerpt(raw []byte) string {
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "no error output"
	}
	if len(msg) > stderrExcerptBytes {
		msg = msg[:stderrExcerptBytes] + "..."
	}
	return msg
}
