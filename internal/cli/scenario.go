package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/infospace/internal/harness"
	"github.com/roach88/infospace/internal/logging"
)

var errScenariosFailed = errors.New("one or more scenarios failed")

type scenarioOptions struct {
	GoldenDir string
	Update    bool
}

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &scenarioOptions{}

	cmd := &cobra.Command{
		Use:   "scenario <path>...",
		Short: "Run YAML scenarios against an in-memory store",
		Long: `Run scenario files, or every .yaml/.yml file in the given directories,
against a fresh in-memory store each.

With --golden-dir each trace is compared against <dir>/<name>.golden.
--update rewrites the golden files instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "directory of golden trace files")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden files")

	return cmd
}

func runScenarios(cmd *cobra.Command, rootOpts *RootOptions, opts *scenarioOptions, args []string) error {
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden-dir")
	}

	level := "warn"
	if rootOpts.Verbose {
		level = "debug"
	}
	logger, _, err := logging.New(logging.Options{Level: level, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure logging", err)
	}

	files, err := scenarioFiles(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to collect scenarios", err)
	}

	out := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	reports := make([]ScenarioReport, 0, len(files))
	for _, file := range files {
		report, err := runScenarioFile(cmd, logger, opts, file)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	failed := 0
	for _, r := range reports {
		if !r.Pass {
			failed++
		}
	}

	if out.Format == "json" {
		if err := out.Success(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(out.Writer, "%s %s (%s)\n", status, r.Name, r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(out.Writer, "    %s\n", e)
			}
		}
		fmt.Fprintf(out.Writer, "%d passed, %d failed\n", len(reports)-failed, failed)
	}

	if failed > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(reports)), errScenariosFailed)
	}
	return nil
}

func runScenarioFile(cmd *cobra.Command, logger *slog.Logger, opts *scenarioOptions, file string) (ScenarioReport, error) {
	sc, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioReport{}, WrapExitError(ExitCommandError, "invalid scenario "+file, err)
	}

	result, err := harness.RunContext(cmdContext(cmd), sc, logger.With(slog.String("scenario", sc.Name)))
	if err != nil {
		return ScenarioReport{}, WrapExitError(ExitFailure, "scenario "+sc.Name+" aborted", err)
	}

	report := ScenarioReport{File: file, Name: sc.Name, Pass: result.Pass, Errors: result.Errors}
	if opts.GoldenDir == "" {
		return report, nil
	}

	snap, err := harness.Snapshot(sc.Name, result)
	if err != nil {
		return ScenarioReport{}, WrapExitError(ExitFailure, "snapshot "+sc.Name, err)
	}
	golden := filepath.Join(opts.GoldenDir, sc.Name+".golden")

	if opts.Update {
		if err := os.MkdirAll(opts.GoldenDir, 0o750); err != nil {
			return ScenarioReport{}, WrapExitError(ExitCommandError, "create golden dir", err)
		}
		if err := os.WriteFile(golden, snap, 0o600); err != nil {
			return ScenarioReport{}, WrapExitError(ExitCommandError, "write "+golden, err)
		}
		return report, nil
	}

	want, err := os.ReadFile(golden)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report.Pass = false
		report.Errors = append(report.Errors, "missing golden file "+golden)
	case err != nil:
		return ScenarioReport{}, WrapExitError(ExitCommandError, "read "+golden, err)
	case !bytes.Equal(want, snap):
		report.Pass = false
		report.Errors = append(report.Errors, "trace differs from "+golden)
	}
	return report, nil
}

// scenarioFiles expands directories into their sorted .yaml/.yml files.
func scenarioFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}
