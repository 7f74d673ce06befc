package fpcache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"introseek/internal/fingerprint"
	"introseek/internal/logging"
)

// ErrNotFound is returned when removing a path that has no cached entries.
var ErrNotFound = errors.New("fingerprint not cached")

// Key identifies one cached fingerprint.
type Key struct {
	Path       string
	MaxSeconds int
	Size       int64
	ModTime    time.Time
}

// Entry is a cached fingerprint together with the file identity it was computed for.
type Entry struct {
	Key
	Fingerprint fingerprint.Fingerprint
	CachedAt    time.Time
}

// KeyFor stats path and returns its cache key.
func KeyFor(path string, maxSeconds int) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Key{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return Key{}, fmt.Errorf("%s is a directory", abs)
	}
	return Key{Path: abs, MaxSeconds: maxSeconds, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Store manages fingerprint persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the fingerprint cache database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("fingerprint cache path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logging.NewComponentLogger(logger, "fpcache")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the entry for key when one exists and still matches the
// file's size and modification time.
func (s *Store) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT size, mod_time_ns, value_count, fingerprint, cached_at
		 FROM fingerprints WHERE path = ? AND max_seconds = ?`,
		key.Path, key.MaxSeconds)

	var (
		size, modNS int64
		count       int
		blob        []byte
		cachedAt    string
	)
	if err := row.Scan(&size, &modNS, &count, &blob, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("lookup fingerprint: %w", err)
	}
	if size != key.Size || modNS != key.ModTime.UnixNano() {
		s.logger.Debug("cached fingerprint stale",
			logging.Episode(key.Path),
			logging.Int64("cached_size", size),
			logging.Int64("size", key.Size))
		return Entry{}, false, nil
	}
	fp, err := decode(blob, count)
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode fingerprint for %s: %w", key.Path, err)
	}
	return Entry{Key: key, Fingerprint: fp, CachedAt: parseTime(cachedAt)}, true, nil
}

// Put stores or replaces the entry for its key.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Path) == "" {
		return errors.New("fingerprint cache entry requires a path")
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO fingerprints (path, max_seconds, size, mod_time_ns, value_count, fingerprint, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path, max_seconds) DO UPDATE SET
		   size = excluded.size,
		   mod_time_ns = excluded.mod_time_ns,
		   value_count = excluded.value_count,
		   fingerprint = excluded.fingerprint,
		   cached_at = excluded.cached_at`,
		entry.Path, entry.MaxSeconds, entry.Size, entry.ModTime.UnixNano(),
		len(entry.Fingerprint), encode(entry.Fingerprint), entry.CachedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	s.logger.Debug("cached fingerprint",
		logging.Episode(entry.Path),
		logging.Int("values", len(entry.Fingerprint)),
		logging.Int("max_seconds", entry.MaxSeconds))
	return nil
}

// Remove deletes every cached fingerprint for path.
func (s *Store) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	res, err := s.execWithRetry(ctx, "DELETE FROM fingerprints WHERE path = ?", abs)
	if err != nil {
		return fmt.Errorf("remove fingerprint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, abs)
	}
	return nil
}

// List returns all entries sorted by CachedAt descending (newest first).
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, max_seconds, size, mod_time_ns, value_count, fingerprint, cached_at
		 FROM fingerprints ORDER BY cached_at DESC, path ASC`)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			modNS    int64
			count    int
			blob     []byte
			cachedAt string
		)
		if err := rows.Scan(&e.Path, &e.MaxSeconds, &e.Size, &modNS, &count, &blob, &cachedAt); err != nil {
			return nil, fmt.Errorf("scan fingerprint row: %w", err)
		}
		e.ModTime = time.Unix(0, modNS)
		e.CachedAt = parseTime(cachedAt)
		if e.Fingerprint, err = decode(blob, count); err != nil {
			return nil, fmt.Errorf("decode fingerprint for %s: %w", e.Path, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM fingerprints")
	if err != nil {
		return 0, fmt.Errorf("clear fingerprints: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Debug("cleared fingerprint cache", logging.Int64("removed", n))
	return n, nil
}

// Count returns the number of cached fingerprints.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM fingerprints").Scan(&n); err != nil {
		return 0, fmt.Errorf("count fingerprints: %w", err)
	}
	return n, nil
}

func encode(fp fingerprint.Fingerprint) []byte {
	buf := make([]byte, 4*len(fp))
	for i, v := range fp {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	return buf
}

func decode(blob []byte, count int) (fingerprint.Fingerprint, error) {
	if len(blob) != 4*count {
		return nil, fmt.Errorf("blob holds %d bytes, expected %d", len(blob), 4*count)
	}
	fp := make(fingerprint.Fingerprint, count)
	for i := range fp {
		fp[i] = binary.LittleEndian.Uint32(blob[4*i:])
	}
	return fp, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
