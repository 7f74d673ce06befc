package fpcache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"introseek/internal/fingerprint"
)

func TestWrapServesUnchangedFilesFromCache(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	path := writeEpisode(t, dir, "ep01.mp3", "audio")

	next := fingerprint.NewStatic(map[string]fingerprint.Fingerprint{path: {7, 7, 0, 15, 3}})
	src := Wrap(store, next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fp, err := src.Fingerprint(ctx, path, 120)
		if err != nil {
			t.Fatalf("Fingerprint #%d: %v", i, err)
		}
		if fp.String() != "7,7,0,15,3" {
			t.Fatalf("unexpected fingerprint %v", fp)
		}
	}
	if calls := next.Calls(path); calls != 1 {
		t.Fatalf("expected one underlying computation, got %d", calls)
	}

	if err := os.WriteFile(path, []byte("different audio"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	next.Set(path, fingerprint.Fingerprint{1, 2})
	fp, err := src.Fingerprint(ctx, path, 120)
	if err != nil {
		t.Fatalf("Fingerprint after change: %v", err)
	}
	if fp.String() != "1,2" || next.Calls(path) != 2 {
		t.Fatalf("expected recompute after file change, got %v (calls=%d)", fp, next.Calls(path))
	}
}

func TestWrapDoesNotCacheFailures(t *testing.T) {
	store := openTestStore(t)
	path := writeEpisode(t, t.TempDir(), "ep01.mp3", "audio")
	next := fingerprint.NewStatic(nil)
	src := Wrap(store, next)

	for i := 0; i < 2; i++ {
		if _, err := src.Fingerprint(context.Background(), path, 120); !errors.Is(err, fingerprint.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	}
	if next.Calls(path) != 2 {
		t.Fatalf("expected failure to be retried, calls=%d", next.Calls(path))
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Fatalf("expected empty cache, got %d", n)
	}
}

func TestWrapDelegatesMissingFiles(t *testing.T) {
	store := openTestStore(t)
	missing := filepath.Join(t.TempDir(), "gone.mp3")
	next := fingerprint.NewStatic(nil)
	if _, err := Wrap(store, next).Fingerprint(context.Background(), missing, 120); !errors.Is(err, fingerprint.ErrUnavailable) {
		t.Fatalf("expected underlying source error, got %v", err)
	}
	if next.Calls(missing) != 1 {
		t.Fatal("expected missing file to reach the underlying source")
	}
}

func TestWrapLogsBypassedLookups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store, err := Open(filepath.Join(t.TempDir(), "fingerprints.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	missing := filepath.Join(t.TempDir(), "gone.mp3")
	if _, err := Wrap(store, fingerprint.NewStatic(nil)).Fingerprint(context.Background(), missing, 120); err == nil {
		t.Fatal("expected error for missing file")
	}
	out := buf.String()
	if !strings.Contains(out, "fingerprint cache bypassed") || !strings.Contains(out, missing) {
		t.Fatalf("expected bypass debug line naming %s, got %q", missing, out)
	}
}

func TestWrapNilStore(t *testing.T) {
	next := fingerprint.NewStatic(nil)
	if Wrap(nil, next) != fingerprint.Source(next) {
		t.Fatal("expected nil store to return the underlying source")
	}
}
