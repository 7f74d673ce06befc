package logs

import (
	"encoding/json"
	"strings"

	"introseek/internal/logging"
)

// Filter selects log lines. Zero-valued fields match everything.
type Filter struct {
	CorrelationID string
	Component     string
	// MinLevel is one of debug, info, warn, error.
	MinLevel string
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Match reports whether line passes the filter. JSON lines are matched on
// their fields; console lines fall back to substring checks.
func (f Filter) Match(line string) bool {
	if f.CorrelationID == "" && f.Component == "" && f.MinLevel == "" {
		return true
	}
	var record map[string]any
	if strings.HasPrefix(strings.TrimSpace(line), "{") && json.Unmarshal([]byte(line), &record) == nil {
		return f.matchRecord(record)
	}
	return f.matchText(line)
}

func (f Filter) matchRecord(record map[string]any) bool {
	field := func(key string) string {
		v, _ := record[key].(string)
		return v
	}
	if f.CorrelationID != "" && field(logging.FieldCorrelationID) != f.CorrelationID {
		return false
	}
	if f.Component != "" && !strings.EqualFold(field(logging.FieldComponent), f.Component) {
		return false
	}
	if f.MinLevel != "" && !atLeast(field("level"), f.MinLevel) {
		return false
	}
	return true
}

func (f Filter) matchText(line string) bool {
	if f.CorrelationID != "" && !strings.Contains(line, f.CorrelationID) {
		return false
	}
	// Console lines read "<time> <LEVEL> <component>: <message> key=value...".
	fields := strings.Fields(line)
	if f.Component != "" {
		if len(fields) < 3 || !strings.EqualFold(strings.TrimSuffix(fields[2], ":"), f.Component) || !strings.HasSuffix(fields[2], ":") {
			return false
		}
	}
	if f.MinLevel != "" {
		if len(fields) < 2 || !atLeast(fields[1], f.MinLevel) {
			return false
		}
	}
	return true
}

func atLeast(level, min string) bool {
	got, ok := levelRank[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return false
	}
	want, ok := levelRank[strings.ToLower(strings.TrimSpace(min))]
	if !ok {
		return true
	}
	return got >= want
}
