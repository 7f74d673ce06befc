package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"introseek/internal/intro"
	"introseek/internal/logging"
)

const maxDefaultWorkers = 4

// Locator finds the intro in a single episode.
type Locator interface {
	Locate(ctx context.Context, path string) (intro.Match, bool, error)
}

// Options configures a Scanner.
type Options struct {
	// Workers bounds concurrent episodes. Zero means runtime.NumCPU capped at 4.
	Workers int
	// Timeout bounds each episode. Zero disables the per-episode limit.
	Timeout time.Duration
	// Extensions lists accepted file extensions (".mp3"). Empty accepts all files.
	Extensions []string
	Recursive  bool
	// LockPath, when set, names the file lock held for the duration of Run.
	LockPath string
	// OnResult, when set, is called from worker goroutines as each episode
	// finishes. It must be safe for concurrent use.
	OnResult func(Result)
	Logger   *slog.Logger
}

// Result is the outcome for one episode.
type Result struct {
	Path     string  `json:"path"`
	Title    string  `json:"title"`
	Found    bool    `json:"found"`
	Offset   float64 `json:"offset_seconds"`
	Index    int     `json:"index"`
	Distance int     `json:"distance"`
	Error    string  `json:"error,omitempty"`
}

// Report summarizes one scan run.
type Report struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// Matched returns how many episodes had a located intro.
func (r Report) Matched() int {
	n := 0
	for _, res := range r.Results {
		if res.Found {
			n++
		}
	}
	return n
}

// Failed returns how many episodes could not be analysed.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" {
			n++
		}
	}
	return n
}

// Scanner runs a Locator over batches of files.
type Scanner struct {
	locator    Locator
	workers    int
	timeout    time.Duration
	extensions map[string]struct{}
	recursive  bool
	lockPath   string
	onResult   func(Result)
	logger     *slog.Logger
}

// New constructs a Scanner around locator.
func New(locator Locator, opts Options) (*Scanner, error) {
	if locator == nil {
		return nil, errors.New("scanner requires a locator")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), maxDefaultWorkers)
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Scanner{
		locator:    locator,
		workers:    workers,
		timeout:    opts.Timeout,
		extensions: exts,
		recursive:  opts.Recursive,
		lockPath:   strings.TrimSpace(opts.LockPath),
		onResult:   opts.OnResult,
		logger:     logging.NewComponentLogger(opts.Logger, "scan"),
	}, nil
}

// Workers returns the effective worker count.
func (s *Scanner) Workers() int { return s.workers }

func (s *Scanner) accepts(name string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Discover lists episode files under root sorted by path. A root that is a
// regular file is returned as-is regardless of extension. Hidden files and
// directories are skipped.
func (s *Scanner) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if !s.recursive || hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() || !s.accepts(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run locates the intro in every path and returns results in input order.
// Per-episode failures are recorded in the report and never abort the batch.
// The returned error is non-nil only when the scan lock is unavailable or ctx
// ends before every episode was attempted; the partial report is still
// returned in the latter case.
func (s *Scanner) Run(ctx context.Context, paths []string) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	report := Report{RunID: uuid.NewString(), Started: time.Now()}
	ctx = logging.WithCorrelationID(ctx, report.RunID)
	logger := logging.WithContext(ctx, s.logger)

	if s.lockPath != "" {
		release, err := acquireLock(s.lockPath)
		if err != nil {
			return report, err
		}
		defer func() {
			if err := release(); err != nil {
				logger.Warn("failed to release scan lock", logging.Error(err))
			}
		}()
	}

	workers := min(s.workers, max(len(paths), 1))
	logger.Info("scan started",
		logging.Int("episodes", len(paths)),
		logging.Int("workers", workers))

	report.Results = make([]Result, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res := s.locate(ctx, paths[idx])
				report.Results[idx] = res
				if s.onResult != nil {
					s.onResult(res)
				}
			}
		}()
	}

dispatch:
	for idx := range paths {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			for rest := idx; rest < len(paths); rest++ {
				report.Results[rest] = Result{
					Path:  paths[rest],
					Title: Title(paths[rest]),
					Error: ctx.Err().Error(),
				}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	report.Finished = time.Now()

	logger.Info("scan finished",
		logging.Int("episodes", len(paths)),
		logging.Int("matched", report.Matched()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.Finished.Sub(report.Started)))

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("scan interrupted: %w", err)
	}
	return report, nil
}

func (s *Scanner) locate(ctx context.Context, path string) Result {
	res := Result{Path: path, Title: Title(path)}
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	m, ok, err := s.locator.Locate(ctx, path)
	switch {
	case err != nil:
		res.Error = err.Error()
	case ok:
		res.Found = true
		res.Offset = m.Offset
		res.Index = m.Index
		res.Distance = m.Distance
	}
	return res
}
