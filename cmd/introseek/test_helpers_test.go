package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"introseek/internal/config"
	"introseek/internal/fingerprint"
	"introseek/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	mediaDir   string
}

// standardPrints holds the fpcalc stub output used by most CLI tests. The
// reference {0, 15} starts at index 2 of ep01 and index 0 of ep02.
var standardPrints = map[string]fingerprint.Fingerprint{
	"ep01.mp3":  {7, 7, 0, 15, 3},
	"ep02.mp3":  {0, 15, 9, 9},
	"short.mp3": {5},
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := []testsupport.ConfigOption{
		testsupport.WithFPCalcStub(standardPrints),
		testsupport.WithReference(0, 15),
	}
	cfg := testsupport.NewConfig(t, append(base, opts...)...)
	baseDir := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(baseDir, "home"))

	configPath := filepath.Join(baseDir, "introseek.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	mediaDir := filepath.Join(baseDir, "media")
	for name := range standardPrints {
		testsupport.WriteFile(t, filepath.Join(mediaDir, name), 64)
	}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    baseDir,
		mediaDir:   mediaDir,
	}
}

func (e *cliTestEnv) media(name string) string {
	return filepath.Join(e.mediaDir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
