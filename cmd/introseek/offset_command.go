package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"introseek/internal/fingerprint"
	"introseek/internal/intro"
	"introseek/internal/logging"
)

type offsetResult struct {
	Path    string       `json:"path"`
	Found   bool         `json:"found"`
	Match   *intro.Match `json:"match,omitempty"`
	Profile []int        `json:"profile,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func newOffsetCommand(ctx *commandContext) *cobra.Command {
	var profile bool
	var fromOutput bool

	cmd := &cobra.Command{
		Use:   "offset <file>...",
		Short: "Print the intro start offset of each episode",
		Long: `Print the second at which the reference intro starts in each episode.

Each file is fingerprinted with fpcalc and the reference intro is aligned
against it. Episodes shorter than the intro print "no match".

With --from-output the arguments are saved fpcalc -raw output files instead
of audio, which is useful for checking a reference against known episodes
without running fpcalc again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}

			var src fingerprint.Source
			if fromOutput {
				src = savedOutputSource(args, cfg.Intro.QuantumSeconds)
			} else {
				var closeSource func()
				src, closeSource, err = openSource(cfg, logger)
				if err != nil {
					return err
				}
				defer closeSource()
			}
			finder, err := newFinder(cfg, src, logger)
			if err != nil {
				return err
			}

			results := make([]offsetResult, 0, len(args))
			failed := 0
			for _, path := range args {
				if !fromOutput && len(cfg.Scan.Extensions) > 0 && !cfg.HasExtension(path) {
					logger.Debug("file extension not in scan.extensions; scan would skip it",
						logging.Episode(path))
				}
				res := locateOffset(cmd.Context(), finder, path, profile)
				if res.Error != "" {
					failed++
				}
				results = append(results, res)
				if !ctx.JSONMode() {
					printOffsetResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
				}
			}

			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be analysed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&profile, "profile", false, "Also print the distance of every candidate window")
	cmd.Flags().BoolVar(&fromOutput, "from-output", false, "Treat arguments as saved fpcalc -raw output")
	return cmd
}

func locateOffset(ctx context.Context, finder *intro.Finder, path string, profile bool) offsetResult {
	res := offsetResult{Path: path}
	if !profile {
		m, ok, err := finder.Locate(ctx, path)
		switch {
		case err != nil:
			res.Error = err.Error()
		case ok:
			res.Found = true
			res.Match = &m
		}
		return res
	}

	fp, err := finder.Fingerprint(ctx, path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if m, ok := finder.Align(fp); ok {
		res.Found = true
		res.Match = &m
	}
	res.Profile = intro.Profile(fp, finder.Reference())
	return res
}

func printOffsetResult(out, errOut io.Writer, res offsetResult) {
	switch {
	case res.Error != "":
		fmt.Fprintf(errOut, "%s: error: %s\n", res.Path, res.Error)
		return
	case res.Found:
		fmt.Fprintf(out, "%s: %s\n", res.Path, formatOffset(res.Match.Offset))
	default:
		fmt.Fprintf(out, "%s: no match\n", res.Path)
	}
	if len(res.Profile) == 0 {
		return
	}
	rows := make([][]string, 0, len(res.Profile))
	for i, d := range res.Profile {
		marker := ""
		if res.Match != nil && i == res.Match.Index {
			marker = "*"
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(d), marker})
	}
	fmt.Fprintln(out, renderTable([]column{
		numericColumn("Window"),
		numericColumn("Distance"),
		textColumn("Best"),
	}, rows))
}

// savedOutputSource parses each path as fpcalc output up front. Files that
// fail to parse stay unregistered so the lookup reports them as unavailable.
// The analysis cap is applied at quantum seconds per value.
func savedOutputSource(paths []string, quantum float64) fingerprint.Source {
	prints := make(map[string]fingerprint.Fingerprint, len(paths))
	for _, path := range paths {
		fp, err := readSavedOutput(path)
		if err != nil {
			continue
		}
		prints[path] = fp
	}
	static := fingerprint.NewStatic(prints)
	static.SetQuantum(quantum)
	return &savedSource{Static: static}
}

type savedSource struct {
	*fingerprint.Static
}

// Fingerprint re-reads unparseable files so the real cause is reported.
func (s *savedSource) Fingerprint(ctx context.Context, path string, maxSeconds int) (fingerprint.Fingerprint, error) {
	fp, err := s.Static.Fingerprint(ctx, path, maxSeconds)
	if err == nil {
		return fp, nil
	}
	if _, parseErr := readSavedOutput(path); parseErr != nil {
		return nil, parseErr
	}
	return nil, err
}

func readSavedOutput(path string) (fingerprint.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fingerprint.ErrUnavailable, err)
	}
	defer f.Close()
	fp, err := fingerprint.ParseOutput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fp, nil
}
