package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"introseek/internal/logs"
)

const logFollowPoll = 500 * time.Millisecond

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the introseek log file",
		Long: `Display the introseek log file.

The log file is only written when [logging] file = true. Use --run with the
run ID printed by scan to show the lines of a single scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if lines < 0 {
				return errors.New("--lines must be zero or greater")
			}
			filter.CorrelationID = strings.TrimSpace(filter.CorrelationID)
			filter.Component = strings.TrimSpace(filter.Component)
			filter.MinLevel = strings.ToLower(strings.TrimSpace(filter.MinLevel))
			switch filter.MinLevel {
			case "", "debug", "info", "warn", "error":
			default:
				return fmt.Errorf("--level: unsupported value %q", filter.MinLevel)
			}

			path := cfg.LogFilePath()
			if !cfg.Logging.File {
				fmt.Fprintf(cmd.ErrOrStderr(), "Logging to file is disabled; showing %s if present\n", path)
			}

			out := cmd.OutOrStdout()
			initial, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			for _, line := range initial {
				fmt.Fprintln(out, line)
			}
			if !follow {
				if len(initial) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			err = logs.Follow(cmd.Context(), path, offset, logFollowPoll, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.CorrelationID, "run", "", "Only show lines from this scan run ID")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only show lines from this component")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	return cmd
}
