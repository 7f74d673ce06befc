package preflight

import (
	"context"

	"introseek/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return append([]Result{CheckFPCalc(ctx, cfg)}, StorageChecks(cfg)...)
}

// StorageChecks verifies the directories introseek writes to.
func StorageChecks(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	// State directory holds the scan lock (always checked)
	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}

	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cacheDir(cfg)))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
