package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"introseek/internal/logging"
	"introseek/internal/preflight"
	"introseek/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var workers int

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Locate the intro in every episode under a directory",
		Long: `Locate the intro in every episode file under a directory.

Files are selected by the extensions in [scan] extensions. Each episode is
processed independently; a failure is reported in its row and does not stop
the batch. The command exits non-zero when any episode failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				parts := make([]string, 0, len(failed))
				for _, r := range failed {
					parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
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

			opts := scan.Options{
				Workers:    cfg.Scan.Workers,
				Timeout:    time.Duration(cfg.FPCalc.TimeoutSeconds) * time.Second,
				Extensions: cfg.Scan.Extensions,
				Recursive:  cfg.Scan.Recursive,
				LockPath:   cfg.ScanLockPath(),
				Logger:     logging.ComponentLevel(logger, "scan", cfg.Logging.ComponentOverrides),
			}
			if cmd.Flags().Changed("recursive") {
				opts.Recursive = recursive
			}
			if workers > 0 {
				opts.Workers = workers
			}
			// bar is set after discovery, before any worker starts.
			var bar *progressbar.ProgressBar
			opts.OnResult = func(scan.Result) {
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			scanner, err := scan.New(finder, opts)
			if err != nil {
				return err
			}

			paths, err := scanner.Discover(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 && !ctx.JSONMode() {
				fmt.Fprintf(cmd.OutOrStdout(), "No episode files found in %s\n", args[0])
				return nil
			}

			if !ctx.JSONMode() && isTerminal(cmd.ErrOrStderr()) {
				bar = newScanProgress(cmd.ErrOrStderr(), len(paths))
			}

			report, runErr := scanner.Run(cmd.Context(), paths)
			if bar != nil {
				_ = bar.Finish()
			}
			if report.Results == nil {
				report.Results = []scan.Result{}
			}
			if ctx.JSONMode() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else if len(report.Results) > 0 {
				printScanReport(cmd.OutOrStdout(), report)
			}
			if runErr != nil {
				return runErr
			}
			if n := report.Failed(); n > 0 {
				return fmt.Errorf("%d of %d episodes could not be analysed", n, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent episodes (default from config)")
	return cmd
}

func newScanProgress(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func printScanReport(out io.Writer, report scan.Report) {
	rows := make([][]string, 0, len(report.Results))
	for i, res := range report.Results {
		offset, distance, status := "-", "-", "no match"
		switch {
		case res.Error != "":
			status = "error: " + res.Error
		case res.Found:
			offset = formatOffset(res.Offset)
			distance = strconv.Itoa(res.Distance)
			status = "ok"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), res.Title, offset, distance, status})
	}
	fmt.Fprintln(out, renderTable([]column{
		numericColumn("#"),
		pathColumn("Episode"),
		numericColumn("Offset (s)"),
		numericColumn("Distance"),
		textColumn("Status"),
	}, rows))
	fmt.Fprintf(out, "Scanned %d episodes: %d matched, %d failed (run %s, %s)\n",
		len(report.Results), report.Matched(), report.Failed(), report.RunID,
		report.Finished.Sub(report.Started).Round(time.Millisecond))
}
