package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCLILog(t *testing.T, env *cliTestEnv, lines ...string) {
	t.Helper()
	path := env.cfg.LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func TestLogsShowsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	writeCLILog(t, env,
		`{"level":"info","msg":"scan started","component":"scan","correlation_id":"run-1"}`,
		`{"level":"warn","msg":"fpcalc failed","component":"fpcalc","correlation_id":"run-2"}`,
		`{"level":"info","msg":"scan finished","component":"scan","correlation_id":"run-1"}`,
	)

	out, stderr, err := runCLI(t, []string{"logs", "--lines", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, stderr, "Logging to file is disabled")
	if strings.Contains(out, "scan started") {
		t.Fatalf("expected only the last two lines, got %q", out)
	}
	requireContains(t, out, "fpcalc failed")
	requireContains(t, out, "scan finished")
}

func TestLogsFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)
	writeCLILog(t, env,
		`{"level":"info","msg":"scan started","component":"scan","correlation_id":"run-1"}`,
		`{"level":"warn","msg":"fpcalc failed","component":"fpcalc","correlation_id":"run-2"}`,
	)

	out, _, err := runCLI(t, []string{"logs", "--run", "run-2", "--lines", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --run: %v", err)
	}
	if strings.Contains(out, "scan started") {
		t.Fatalf("unexpected line from another run: %q", out)
	}
	requireContains(t, out, "fpcalc failed")
}

func TestLogsWithoutFile(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No log entries available")
}

func TestLogsRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"logs", "--lines", "-3"}, env.configPath); err == nil {
		t.Fatal("expected negative --lines to fail")
	}
	if _, _, err := runCLI(t, []string{"logs", "--level", "loud"}, env.configPath); err == nil {
		t.Fatal("expected unknown --level to fail")
	}
}
