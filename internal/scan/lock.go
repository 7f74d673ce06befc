package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrScanInProgress reports that another process holds the scan lock.
var ErrScanInProgress = errors.New("another introseek scan is already running")

// acquireLock takes the scan lock at path without blocking. The returned
// function releases it.
func acquireLock(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrScanInProgress, path)
	}
	return lock.Unlock, nil
}
