package preflight

import (
	"context"
	"fmt"
	"os"

	"introseek/internal/config"
	"introseek/internal/fpcache"
)

// CheckCacheFromConfig summarizes the fingerprint cache for status output.
// A missing database file is reported as empty rather than created.
func CheckCacheFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Fingerprint cache"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Cache.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if _, err := os.Stat(cfg.Cache.Path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (empty)", cfg.Cache.Path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", cfg.Cache.Path, err)}
	}
	store, err := fpcache.Open(cfg.Cache.Path, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Cache.Path, err)}
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Cache.Path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", cfg.Cache.Path, count)}
}
