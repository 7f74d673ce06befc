package fingerprint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	fingerprintPrefix = "FINGERPRINT="
	maxLineBytes      = 4 << 20
)

// ParseOutput extracts the fingerprint from fpcalc -raw output. Only the first
// line starting with FINGERPRINT= is used; every other line is ignored.
func ParseOutput(r io.Reader) (Fingerprint, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, fingerprintPrefix) {
			continue
		}
		return ParseValues(strings.TrimPrefix(line, fingerprintPrefix))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read fpcalc output: %w", ErrUnavailable, err)
	}
	return nil, fmt.Errorf("%w: fpcalc output has no %s line", ErrUnavailable, strings.TrimSuffix(fingerprintPrefix, "="))
}

// ParseValues parses a comma-separated list of raw fingerprint codes. Older
// fpcalc builds print codes as signed 32-bit integers; those are reinterpreted
// bit for bit.
func ParseValues(value string) (Fingerprint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Fingerprint{}, nil
	}
	parts := strings.Split(value, ",")
	out := make(Fingerprint, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		code, err := parseCode(part)
		if err != nil {
			return nil, fmt.Errorf("%w: fingerprint value %d (%q): %w", ErrUnavailable, i, part, err)
		}
		out = append(out, code)
	}
	return out, nil
}

func parseCode(s string) (uint32, error) {
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, err
		}
		return uint32(int32(v)), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
