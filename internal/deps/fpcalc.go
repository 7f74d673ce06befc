package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionProbeTimeout = 5 * time.Second

// CheckFPCalc reports whether the fpcalc binary resolves and, when it does,
// the version it announces via -version.
func CheckFPCalc(ctx context.Context, binary string) Status {
	statuses := CheckBinaries([]Requirement{{
		Name:        "fpcalc",
		Command:     binary,
		Description: "Required for audio fingerprinting (Chromaprint)",
	}})
	status := statuses[0]
	if !status.Available {
		return status
	}

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, status.Command, "-version").CombinedOutput() //nolint:gosec
	if err != nil {
		status.Detail = fmt.Sprintf("version probe failed: %v", err)
		return status
	}
	status.Version = parseVersion(string(out))
	return status
}

// parseVersion extracts the version number from output such as
// "fpcalc version 1.5.1 (FFmpeg Lavc58.134.100 ...)".
func parseVersion(output string) string {
	fields := strings.Fields(output)
	for i, field := range fields {
		if strings.EqualFold(field, "version") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(output)
}
