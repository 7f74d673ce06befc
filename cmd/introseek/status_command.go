package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"introseek/internal/deps"
	"introseek/internal/intro"
	"introseek/internal/preflight"
)

type statusView struct {
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
	Reference    []uint32           `json:"reference"`
	Quantum      float64            `json:"quantum_seconds"`
	MaxSeconds   int                `json:"max_seconds"`
	Healthy      bool               `json:"healthy"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, directory, and cache health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			reference := intro.DefaultReference()
			if len(cfg.Intro.Reference) > 0 {
				reference = append([]uint32(nil), cfg.Intro.Reference...)
			}
			view := statusView{
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Checks: append(preflight.StorageChecks(cfg),
					preflight.CheckCacheFromConfig(cmd.Context(), cfg)),
				Reference:  reference,
				Quantum:    cfg.Intro.QuantumSeconds,
				MaxSeconds: cfg.FPCalc.MaxSeconds,
				Healthy:    true,
			}
			for _, d := range view.Dependencies {
				if !d.Available && !d.Optional {
					view.Healthy = false
				}
			}
			if len(preflight.Failed(view.Checks)) > 0 {
				view.Healthy = false
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			report := &statusReport{colorize: shouldColorize(out)}
			report.section("Dependencies")
			report.dependencies(view.Dependencies)
			report.section("Storage")
			for _, check := range view.Checks {
				report.check(check, statusError)
			}
			report.section("Intro")
			values := make([]string, len(view.Reference))
			for i, v := range view.Reference {
				values[i] = strconv.FormatUint(uint64(v), 10)
			}
			report.line("Reference", statusInfo, fmt.Sprintf("%d values (%s)", len(values), strings.Join(values, ",")))
			report.line("Quantum", statusInfo, fmt.Sprintf("%gs per value", view.Quantum))
			report.line("Analysis cap", statusInfo, fmt.Sprintf("%ds", view.MaxSeconds))
			fmt.Fprintln(out, report.String())
			return nil
		},
	}
}
