package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"introseek/internal/config"
	"introseek/internal/fingerprint"
	"introseek/internal/fpcache"
	"introseek/internal/intro"
	"introseek/internal/logging"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// newCLILogger builds the untagged base logger for a command. Without
// --verbose only warnings and errors reach stderr so decision logs do not
// interleave with results.
func (c *commandContext) newCLILogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if !c.verbose() {
		logger = logging.WithLevelOverride(logger, slog.LevelWarn)
	}
	return logger, nil
}

// openSource builds the fpcalc source, wrapped by the fingerprint cache when
// it is enabled. The returned close function releases the cache.
func openSource(cfg *config.Config, logger *slog.Logger) (fingerprint.Source, func(), error) {
	var src fingerprint.Source = fingerprint.NewFPCalc(cfg.FPCalcBinary(),
		fingerprint.WithTimeout(time.Duration(cfg.FPCalc.TimeoutSeconds)*time.Second),
		fingerprint.WithLogger(logging.ComponentLevel(logger, "fpcalc", cfg.Logging.ComponentOverrides)))
	if !cfg.Cache.Enabled {
		return src, func() {}, nil
	}
	store, err := fpcache.Open(cfg.Cache.Path, logging.ComponentLevel(logger, "fpcache", cfg.Logging.ComponentOverrides))
	if err != nil {
		return nil, nil, fmt.Errorf("open fingerprint cache: %w", err)
	}
	return fpcache.Wrap(store, src), func() { _ = store.Close() }, nil
}

func newFinder(cfg *config.Config, src fingerprint.Source, logger *slog.Logger) (*intro.Finder, error) {
	return intro.NewFinder(src,
		intro.WithReference(cfg.Intro.Reference),
		intro.WithQuantum(cfg.Intro.QuantumSeconds),
		intro.WithMaxSeconds(cfg.FPCalc.MaxSeconds),
		intro.WithLogger(logging.ForComponent(logger, "intro", cfg.Logging.ComponentOverrides)))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
