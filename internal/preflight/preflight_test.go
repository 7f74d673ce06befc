package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"introseek/internal/config"
	"introseek/internal/fingerprint"
	"introseek/internal/fpcache"
)

func stubFPCalc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fpcalc")
	script := "#!/bin/sh\necho 'fpcalc version 1.5.1'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StateDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.FPCalc.Binary = stubFPCalc(t)
	cfg.Cache.Path = filepath.Join(base, "fingerprints.db")
	return &cfg
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "ep01.mp3")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckReadable("episode", f); !r.Passed {
		t.Fatalf("expected readable file, got %s", r.Detail)
	}
	if r := CheckReadable("dir", dir); !r.Passed {
		t.Fatalf("expected readable dir, got %s", r.Detail)
	}
	if r := CheckReadable("missing", filepath.Join(dir, "nope.mp3")); r.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckFPCalc(t *testing.T) {
	cfg := testConfig(t)
	result := CheckFPCalc(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "1.5.1") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}

	cfg.FPCalc.Binary = filepath.Join(t.TempDir(), "missing-fpcalc")
	if result := CheckFPCalc(context.Background(), cfg); result.Passed {
		t.Fatal("expected failure for missing binary")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.File = false
	cfg.Cache.Enabled = false

	results := RunAll(context.Background(), cfg)
	// fpcalc + state directory
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesOptionalDirectories(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.File = true
	cfg.Cache.Enabled = true

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Log directory" {
		t.Fatalf("expected only the missing log directory to fail, got %+v", failed)
	}
}

func TestCheckCacheFromConfig(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	cfg.Cache.Enabled = false
	if r := CheckCacheFromConfig(ctx, cfg); !r.Passed || r.Detail != "Disabled" {
		t.Fatalf("unexpected disabled result: %+v", r)
	}

	cfg.Cache.Enabled = true
	if r := CheckCacheFromConfig(ctx, cfg); !r.Passed || !strings.Contains(r.Detail, "empty") {
		t.Fatalf("unexpected missing-file result: %+v", r)
	}
	if _, err := os.Stat(cfg.Cache.Path); !os.IsNotExist(err) {
		t.Fatal("status check must not create the cache file")
	}

	episode := filepath.Join(t.TempDir(), "ep01.mp3")
	if err := os.WriteFile(episode, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := fpcache.Open(cfg.Cache.Path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key, _ := fpcache.KeyFor(episode, 120)
	if err := store.Put(ctx, fpcache.Entry{Key: key, Fingerprint: fingerprint.Fingerprint{1, 2}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = store.Close()

	if r := CheckCacheFromConfig(ctx, cfg); !r.Passed || !strings.Contains(r.Detail, "1 entries") {
		t.Fatalf("unexpected populated result: %+v", r)
	}
}
