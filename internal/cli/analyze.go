package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/pkg/pipeline"
)

// analyzeOpts holds flags for the analyze command.
type analyzeOpts struct {
	format  string
	output  string
	noCache bool
	refresh bool
	persist bool
	jobs    int
}

// analyzeCommand creates the analyze command for batch analysis.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{format: pipeline.FormatJSON, jobs: 4}

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyze one or more binaries",
		Long: `Analyze scans each file for Rust crates, source paths, and the rustc build hash.

With --format json (default) one report is printed per file, or an array of
reports when several files are given. With --format summary a short
human-readable overview is printed instead.`,
		Example: `  rustprint analyze target/release/app
  rustprint analyze --format summary bin/*
  rustprint analyze --store -o report.json ./suspicious.exe`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, summary")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")
	cmd.Flags().BoolVar(&opts.persist, "store", false, "save reports to the configured report store")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files analyzed in parallel")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, paths []string, opts analyzeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache, opts.persist)
	if err != nil {
		return err
	}
	defer closeRunner(runner)

	prog := newProgress(logger)
	runOpts := pipeline.Options{
		Refresh: opts.refresh,
		Persist: opts.persist,
	}
	var spinner *Spinner
	if opts.format == pipeline.FormatSummary {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Analyzing %d files", len(paths)))
		runOpts.Progress = spinner.Progress
		spinner.Start()
	}

	reports, err := runner.AnalyzeFiles(ctx, paths, runOpts, opts.jobs)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Analysis failed")
			return err
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debug("analysis complete", "files", len(reports))

	if opts.format == pipeline.FormatSummary {
		if runner.Table.Len() == 0 {
			printWarning("Version table is empty, rustc releases will not be resolved")
			printNextStep("Build it with", "rustprint versions update")
		}
		printReportSummaries(reports)
		prog.done("Analyzed")
		return nil
	}

	w := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := writeReports(w, reports); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote %d report(s)", len(reports))
		printFile(opts.output)
	}
	return nil
}

// writeReports writes a single report as an object and several as an array.
func writeReports(w io.Writer, reports []*pipeline.Report) error {
	if len(reports) == 1 {
		return writeJSON(w, reports[0])
	}
	return writeJSON(w, reports)
}
