package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"introseek/internal/scan"
	"introseek/internal/testsupport"
)

func TestScanPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "notes.txt"), 4)

	out, _, err := runCLI(t, []string{"scan", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Ep01")
	requireContains(t, out, "0.248")
	requireContains(t, out, "no match")
	requireContains(t, out, "Scanned 3 episodes: 2 matched, 0 failed")
}

func TestScanJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"scan", "--json", "--workers", "1", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	var report scan.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Fatalf("run id %q: %v", report.RunID, err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	// Discovery sorts by path.
	if report.Results[0].Path != env.media("ep01.mp3") || !report.Results[0].Found || report.Results[0].Index != 2 {
		t.Fatalf("unexpected first result: %+v", report.Results[0])
	}
	if report.Results[2].Path != env.media("short.mp3") || report.Results[2].Found {
		t.Fatalf("unexpected last result: %+v", report.Results[2])
	}
}

func TestScanReportsFailuresWithoutAborting(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "zz-unknown.mp3"), 4)

	out, _, err := runCLI(t, []string{"scan", env.mediaDir}, env.configPath)
	if err == nil {
		t.Fatal("expected error when an episode fails")
	}
	requireContains(t, err.Error(), "1 of 4 episodes")
	requireContains(t, out, "2 matched, 1 failed")
}

func TestScanRecursiveFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	nested := filepath.Join(env.mediaDir, "season2", "ep01.mp3")
	testsupport.WriteFile(t, nested, 4)

	out, _, err := runCLI(t, []string{"scan", "--json", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var flat scan.Report
	if err := json.Unmarshal([]byte(out), &flat); err != nil {
		t.Fatal(err)
	}

	out, _, err = runCLI(t, []string{"scan", "--json", "--recursive", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("scan --recursive: %v", err)
	}
	var deep scan.Report
	if err := json.Unmarshal([]byte(out), &deep); err != nil {
		t.Fatal(err)
	}
	if len(flat.Results) != 3 || len(deep.Results) != 4 {
		t.Fatalf("flat=%d deep=%d", len(flat.Results), len(deep.Results))
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	empty := t.TempDir()

	out, _, err := runCLI(t, []string{"scan", empty}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "No episode files found")
}

func TestScanFailsPreflightWithoutFPCalc(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.FPCalc.Binary = filepath.Join(env.baseDir, "missing", "fpcalc")
	testsupport.WriteConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"scan", env.mediaDir}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight failed")
}
