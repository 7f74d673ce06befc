package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"introseek/internal/config"
	"introseek/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReadable verifies that path exists and can be opened for reading.
// Episodes only need read access, so directories are checked for R and X.
func CheckReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	mode := uint32(unix.R_OK)
	if info.IsDir() {
		mode |= unix.X_OK
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckFPCalc reports fpcalc availability as a preflight result.
func CheckFPCalc(ctx context.Context, cfg *config.Config) Result {
	const name = "fpcalc"
	status := deps.CheckFPCalc(ctx, cfg.FPCalcBinary())
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	detail := status.Command
	if status.Version != "" {
		detail = fmt.Sprintf("%s (version %s)", status.Command, status.Version)
	} else if status.Detail != "" {
		detail = fmt.Sprintf("%s (%s)", status.Command, status.Detail)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates all system-level dependencies for the given config.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return []deps.Status{deps.CheckFPCalc(ctx, cfg.FPCalcBinary())}
}

// cacheDir returns the directory that will hold the fingerprint cache file.
func cacheDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Path)
}
