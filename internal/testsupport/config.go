package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"introseek/internal/config"
	"introseek/internal/fingerprint"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	t.Setenv("INTROSEEK_FPCALC", "")

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.Path = filepath.Join(base, "state", "fingerprints.db")
	cfgVal.Scan.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCache enables the fingerprint cache on the test config.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithReference overrides the reference intro fingerprint.
func WithReference(ref ...uint32) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Intro.Reference = append([]uint32(nil), ref...)
	}
}

// WithFPCalcStub writes an fpcalc stand-in that prints the fingerprint
// registered for each file's base name and fails for any other file. The
// stub answers -version and appends every fingerprinted path to a call log
// readable with FPCalcCalls.
func WithFPCalcStub(prints map[string]fingerprint.Fingerprint) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}

		names := make([]string, 0, len(prints))
		for name := range prints {
			names = append(names, name)
		}
		sort.Strings(names)

		var script strings.Builder
		script.WriteString("#!/bin/sh\n")
		script.WriteString("if [ \"$1\" = \"-version\" ]; then echo 'fpcalc version 1.5.1'; exit 0; fi\n")
		script.WriteString("for last; do :; done\n")
		fmt.Fprintf(&script, "echo \"$last\" >> '%s'\n", callLogPath(b.baseDir))
		script.WriteString("case \"$(basename \"$last\")\" in\n")
		for _, name := range names {
			fmt.Fprintf(&script, "  '%s') echo 'FILE=%s'; echo 'DURATION=120'; echo 'FINGERPRINT=%s' ;;\n",
				name, name, prints[name].String())
		}
		script.WriteString("  *) echo \"ERROR: Could not open the input file ($last)\" >&2; exit 2 ;;\n")
		script.WriteString("esac\n")

		target := filepath.Join(binDir, "fpcalc")
		if err := os.WriteFile(target, []byte(script.String()), 0o755); err != nil {
			b.t.Fatalf("write fpcalc stub: %v", err)
		}
		b.cfg.FPCalc.Binary = target
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, fpcalc is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"fpcalc"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// FPCalcCalls returns the paths the fpcalc stub has fingerprinted, in order.
func FPCalcCalls(t testing.TB, cfg *config.Config) []string {
	t.Helper()
	data, err := os.ReadFile(callLogPath(BaseDir(cfg)))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read fpcalc call log: %v", err)
	}
	var calls []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			calls = append(calls, line)
		}
	}
	return calls
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func callLogPath(base string) string {
	return filepath.Join(base, "fpcalc.calls")
}
