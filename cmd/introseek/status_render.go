package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"introseek/internal/deps"
	"introseek/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusKinds = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	ansiReset        = "\x1b[0m"
	statusLabelWidth = 20
	statusIndent     = "  "
)

// statusReport accumulates the sectioned lines printed by the status command.
type statusReport struct {
	colorize bool
	lines    []string
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	r.lines = append(r.lines, r.paint(statusKinds[statusInfo].color, heading), r.paint(statusKinds[statusInfo].color, rule))
}

func (r *statusReport) line(label string, kind statusKind, message string) {
	tag := "[" + statusKinds[kind].label + "]"
	if message != "" {
		tag += " " + message
	}
	r.lines = append(r.lines, r.paint(statusKinds[kind].color,
		fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", tag)))
}

func (r *statusReport) check(result preflight.Result, failKind statusKind) {
	kind := failKind
	if result.Passed {
		kind = statusOK
	}
	r.line(result.Name, kind, result.Detail)
}

// dependencies adds one line per dependency plus a summary naming the
// required ones that are missing.
func (r *statusReport) dependencies(statuses []deps.Status) {
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			if dep.Version != "" {
				message += ", version " + dep.Version
			}
			r.line(dep.Name, statusOK, message)
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		if dep.Optional {
			r.line(dep.Name, statusWarn, detail)
			continue
		}
		r.line(dep.Name, statusError, detail)
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		r.line("Missing dependencies", statusWarn,
			fmt.Sprintf("%s (install Chromaprint or set [fpcalc] binary)", strings.Join(missing, ", ")))
	}
}

func (r *statusReport) paint(color, text string) string {
	if !r.colorize || color == "" {
		return text
	}
	return color + text + ansiReset
}

func (r *statusReport) String() string {
	return strings.Join(r.lines, "\n")
}

func shouldColorize(writer io.Writer) bool {
	return os.Getenv("NO_COLOR") == "" && isTerminal(writer)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
