package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"introseek/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("INTROSEEK_FPCALC", "")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "state", "introseek")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled by default")
	}
	if cfg.Cache.Path != filepath.Join(wantState, "fingerprints.db") {
		t.Fatalf("unexpected cache path: %q", cfg.Cache.Path)
	}
	if cfg.FPCalc.MaxSeconds != 120 {
		t.Fatalf("expected 120 second analysis cap, got %d", cfg.FPCalc.MaxSeconds)
	}
	if cfg.FPCalc.TimeoutSeconds != 0 {
		t.Fatalf("expected no fpcalc timeout by default, got %d", cfg.FPCalc.TimeoutSeconds)
	}
	if cfg.Intro.QuantumSeconds != 0.124 {
		t.Fatalf("unexpected quantum: %v", cfg.Intro.QuantumSeconds)
	}
	if len(cfg.Intro.Reference) != 0 {
		t.Fatalf("expected empty reference override, got %v", cfg.Intro.Reference)
	}
	if cfg.FPCalcBinary() != "fpcalc" {
		t.Fatalf("unexpected fpcalc binary: %q", cfg.FPCalcBinary())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "introseek.toml")

	type payload struct {
		FPCalc struct {
			Binary     string `toml:"binary"`
			MaxSeconds int    `toml:"max_seconds"`
		} `toml:"fpcalc"`
		Intro struct {
			Reference []uint32 `toml:"reference"`
		} `toml:"intro"`
		Scan struct {
			Extensions []string `toml:"extensions"`
		} `toml:"scan"`
		Logging struct {
			ComponentOverrides map[string]string `toml:"component_overrides"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.FPCalc.Binary = "/opt/chromaprint/fpcalc"
	custom.FPCalc.MaxSeconds = 300
	custom.Intro.Reference = []uint32{1, 2, 3}
	custom.Scan.Extensions = []string{"MP3", ".mp3", " flac "}
	custom.Logging.ComponentOverrides = map[string]string{" FPCalc ": "DEBUG"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("INTROSEEK_FPCALC", "")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.FPCalcBinary() != "/opt/chromaprint/fpcalc" {
		t.Fatalf("expected fpcalc binary from file, got %q", cfg.FPCalcBinary())
	}
	if cfg.FPCalc.MaxSeconds != 300 {
		t.Fatalf("expected max seconds 300, got %d", cfg.FPCalc.MaxSeconds)
	}
	if got := cfg.Intro.Reference; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected reference: %v", got)
	}
	if got := strings.Join(cfg.Scan.Extensions, ","); got != ".mp3,.flac" {
		t.Fatalf("unexpected extensions: %q", got)
	}
	if !cfg.HasExtension("Episode 01.MP3") {
		t.Fatal("expected .MP3 to match configured extensions")
	}
	if cfg.HasExtension("notes.txt") {
		t.Fatal("expected .txt to be rejected")
	}
	if level := cfg.Logging.ComponentOverrides["fpcalc"]; level != "debug" {
		t.Fatalf("expected normalized component override, got %v", cfg.Logging.ComponentOverrides)
	}
}

func TestEnvVarOverridesFPCalcBinary(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "introseek.toml")
	if err := os.WriteFile(configPath, []byte("[fpcalc]\nbinary = \"file-fpcalc\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INTROSEEK_FPCALC", "/usr/local/bin/fpcalc")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FPCalcBinary() != "/usr/local/bin/fpcalc" {
		t.Errorf("expected fpcalc binary from env, got %q", cfg.FPCalcBinary())
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "introseek.toml")
	if err := os.WriteFile(configPath, []byte("[fpcalc\nbinary ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "introseek.toml")
	if err := os.WriteFile(configPath, []byte("[fpcalc]\nmax_secs = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "max_secs") {
		t.Fatalf("expected unknown key error naming max_secs, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "max_seconds = 120") {
		t.Fatalf("sample config missing analysis cap: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "introseek") {
		t.Fatalf("expected state dir to contain introseek, got %q", cfg.Paths.StateDir)
	}
	if cfg.Intro.QuantumSeconds != 0.124 {
		t.Fatalf("unexpected sample quantum: %v", cfg.Intro.QuantumSeconds)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"non-positive max seconds", func(c *config.Config) { c.FPCalc.MaxSeconds = -1 }},
		{"negative timeout", func(c *config.Config) { c.FPCalc.TimeoutSeconds = -5 }},
		{"zero quantum", func(c *config.Config) { c.Intro.QuantumSeconds = 0 }},
		{"reference longer than analysis window", func(c *config.Config) {
			c.FPCalc.MaxSeconds = 1
			c.Intro.Reference = make([]uint32, 20)
		}},
		{"zero workers", func(c *config.Config) { c.Scan.Workers = 0 }},
		{"no extensions", func(c *config.Config) { c.Scan.Extensions = nil }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"bad override", func(c *config.Config) {
			c.Logging.ComponentOverrides = map[string]string{"fpcalc": "loud"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
