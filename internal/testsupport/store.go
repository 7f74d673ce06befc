package testsupport

import (
	"testing"

	"introseek/internal/config"
	"introseek/internal/fpcache"
)

// MustOpenCache opens the configured fingerprint cache for tests and
// registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *fpcache.Store {
	t.Helper()

	store, err := fpcache.Open(cfg.Cache.Path, nil)
	if err != nil {
		t.Fatalf("fpcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
