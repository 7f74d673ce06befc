package fpcache

import (
	"context"

	"introseek/internal/fingerprint"
	"introseek/internal/logging"
)

type cachedSource struct {
	store *Store
	next  fingerprint.Source
}

// Wrap returns a Source that answers from store when the file is unchanged
// and otherwise delegates to next, recording successful results. A nil store
// returns next unchanged.
func Wrap(store *Store, next fingerprint.Source) fingerprint.Source {
	if store == nil {
		return next
	}
	return &cachedSource{store: store, next: next}
}

func (c *cachedSource) Fingerprint(ctx context.Context, path string, maxSeconds int) (fingerprint.Fingerprint, error) {
	logger := logging.WithContext(ctx, c.store.logger)
	key, err := KeyFor(path, maxSeconds)
	if err != nil {
		// Let the underlying source report the file problem.
		logger.Debug("fingerprint cache bypassed; file identity unavailable",
			logging.Episode(path),
			logging.Error(err))
		return c.next.Fingerprint(ctx, path, maxSeconds)
	}

	entry, ok, err := c.store.Lookup(ctx, key)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "fingerprint cache lookup failed", "fpcache_lookup_failed",
			logging.Episode(key.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'introseek cache clear' if the cache is corrupt"),
			logging.String(logging.FieldImpact, "fingerprint recomputed with fpcalc"))
	case ok:
		logger.Debug("fingerprint cache hit", logging.Episode(key.Path))
		return entry.Fingerprint, nil
	}

	fp, err := c.next.Fingerprint(ctx, path, maxSeconds)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, Entry{Key: key, Fingerprint: fp}); err != nil {
		logging.WarnWithContext(logger, "fingerprint cache write failed", "fpcache_store_failed",
			logging.Episode(key.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "fingerprint will be recomputed next run"))
	}
	return fp, nil
}
