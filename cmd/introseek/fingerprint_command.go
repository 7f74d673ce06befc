package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFingerprintCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the raw fingerprint of a file",
		Long: `Print the raw fpcalc fingerprint of a file as comma-separated values.

Run it on a clip of the intro and paste the output into [intro] reference to
search for a different intro. --limit keeps only the first N values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative")
			}
			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}
			src, closeSource, err := openSource(cfg, logger)
			if err != nil {
				return err
			}
			defer closeSource()
			finder, err := newFinder(cfg, src, logger)
			if err != nil {
				return err
			}

			fp, err := finder.Fingerprint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(fp) {
				fp = fp[:limit]
			}

			if ctx.JSONMode() {
				values := []uint32(fp)
				if values == nil {
					values = []uint32{}
				}
				return writeJSON(cmd, map[string]any{
					"path":        args[0],
					"values":      values,
					"duration_s":  fp.Seconds(finder.Quantum()),
					"max_seconds": finder.MaxSeconds(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), fp.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Keep only the first N values (0 keeps all)")
	return cmd
}
