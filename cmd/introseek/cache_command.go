package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"introseek/internal/fpcache"
	"introseek/internal/logging"
)

type cacheEntryView struct {
	Path       string    `json:"path"`
	MaxSeconds int       `json:"max_seconds"`
	Size       int64     `json:"size_bytes"`
	ModTime    time.Time `json:"mod_time"`
	Values     int       `json:"values"`
	CachedAt   time.Time `json:"cached_at"`
}

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the fingerprint cache",
		Long: `Inspect and manage the fingerprint cache.

When [cache] enabled = true, episode fingerprints are stored in SQLite keyed
by path, size and modification time, so unchanged files are not run through
fpcalc again.

Commands:
  list     - List cached fingerprints, newest first
  remove   - Remove the cached fingerprints of one file
  clear    - Remove all cached fingerprints`,
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := openCacheStore(ctx)
			if warn != "" && !ctx.JSONMode() {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || store == nil {
				if err == nil && ctx.JSONMode() {
					return writeJSON(cmd, []cacheEntryView{})
				}
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			views := make([]cacheEntryView, 0, len(entries))
			for _, e := range entries {
				views = append(views, cacheEntryView{
					Path:       e.Path,
					MaxSeconds: e.MaxSeconds,
					Size:       e.Size,
					ModTime:    e.ModTime,
					Values:     len(e.Fingerprint),
					CachedAt:   e.CachedAt,
				})
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "Fingerprint cache: empty")
				return nil
			}
			fmt.Fprintf(out, "Fingerprint cache: %d entries\n", len(views))
			rows := make([][]string, 0, len(views))
			for i, v := range views {
				cached := "unknown"
				if !v.CachedAt.IsZero() {
					cached = humanize.Time(v.CachedAt)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					v.Path,
					humanize.Bytes(uint64(max(v.Size, 0))),
					strconv.Itoa(v.Values),
					cached,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				numericColumn("#"),
				pathColumn("File"),
				numericColumn("Size"),
				numericColumn("Values"),
				textColumn("Cached"),
			}, rows))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove the cached fingerprints of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := openCacheStore(ctx)
			if warn != "" && !ctx.JSONMode() {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%w: %s", fpcache.ErrNotFound, args[0])
			}
			defer store.Close()

			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": true, "path": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed cached fingerprint for %s\n", args[0])
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := openCacheStore(ctx)
			if warn != "" && !ctx.JSONMode() {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil {
				return err
			}
			var removed int64
			if store != nil {
				defer store.Close()
				if removed, err = store.Clear(cmd.Context()); err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": removed})
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Fingerprint cache is already empty")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached fingerprints\n", removed)
			return nil
		},
	}
}

// openCacheStore opens the configured cache database. A disabled cache whose
// file was never created yields a nil store and a warning instead of
// creating an empty database.
func openCacheStore(ctx *commandContext) (*fpcache.Store, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	warn := ""
	if !cfg.Cache.Enabled {
		warn = "Fingerprint cache is disabled ([cache] enabled = false)"
		if _, statErr := os.Stat(cfg.Cache.Path); errors.Is(statErr, os.ErrNotExist) {
			return nil, warn, nil
		}
	}
	logger, err := ctx.newCLILogger(cfg)
	if err != nil {
		return nil, warn, err
	}
	store, err := fpcache.Open(cfg.Cache.Path, logging.ComponentLevel(logger, "fpcache", cfg.Logging.ComponentOverrides))
	if err != nil {
		return nil, warn, fmt.Errorf("open fingerprint cache: %w", err)
	}
	return store, warn, nil
}
