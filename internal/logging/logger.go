package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"introseek/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives every record. Nil means os.Stderr; io.Discard silences it.
	Console io.Writer
	// FilePath, when set, receives an uncoloured copy of every record.
	FilePath string
	// AddSource forces caller information. Debug level always includes it.
	AddSource bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))
	addSource := opts.AddSource || levelVar.Level() <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	build := func(w io.Writer, color bool) (slog.Handler, error) {
		switch format {
		case "json":
			return newJSONHandler(w, levelVar, addSource), nil
		case "console":
			return newConsoleHandler(w, levelVar, addSource, color), nil
		default:
			return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
		}
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	var handlers []slog.Handler
	if console != io.Discard {
		h, err := build(console, isTerminal(console))
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		h, err := build(file, false)
		if err != nil {
			file.Close()
			return nil, err
		}
		handlers = append(handlers, h)
	}

	switch len(handlers) {
	case 0:
		if _, err := build(io.Discard, false); err != nil {
			return nil, err
		}
		return NewNop(), nil
	case 1:
		return slog.New(handlers[0]), nil
	default:
		return slog.New(fanoutHandler(handlers)), nil
	}
}

// NewFromConfig creates a stderr logger from cfg, also writing to the log
// file when logging.file is enabled.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	// The handlers run at the most verbose configured level so component
	// overrides can lower it; the global level is applied as an override.
	base := parseLevel(cfg.Logging.Level)
	lowest := base
	for _, level := range cfg.Logging.ComponentOverrides {
		lowest = min(lowest, parseLevel(level))
	}
	opts := Options{
		Level:  lowest.String(),
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File && cfg.Paths.LogDir != "" {
		opts.FilePath = cfg.LogFilePath()
	}
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	if base > lowest {
		logger = WithLevelOverride(logger, base)
	}
	return logger, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
