// Package cli implements the infospace command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/infospace/internal/config"
	"github.com/roach88/infospace/internal/director"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// ConfigPath is the YAML config file. Flags below override its values.
	ConfigPath string
	DataDir    string
	Space      string
	Backend    string
	Match      string
	Policy     string

	// SpaceIDs overrides the space id generator (for testing).
	// If nil, the director mints UUIDv7 ids.
	SpaceIDs director.SpaceIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the infospace CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infospace",
		Short: "infospace - namespace-scoped triple store",
		Long: `A minimal property-graph store. Every fact is an identified edge
(triple) between two identifiers, kept in named tables that are
partitioned into spaces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultFile, "config file")
	pf.StringVar(&opts.DataDir, "data-dir", "", "data directory (overrides config)")
	pf.StringVarP(&opts.Space, "space", "s", "", "organic space (overrides config)")
	pf.StringVar(&opts.Backend, "backend", "", "store backend: file|sqlite|badger|memory (overrides config)")
	pf.StringVar(&opts.Match, "match", "", "select matching: substring|token (overrides config)")
	pf.StringVar(&opts.Policy, "duplicate-policy", "", "keep_first|reject_conflict (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewNodeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewNeighborsCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewFlattenCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewSpaceCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stdout in JSON mode and on stderr otherwise.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	w := stderr
	if opts.Format == "json" {
		w = stdout
	}
	out := &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
	_ = out.Error(errorCode(err), err.Error(), nil)
	return GetExitCode(err)
}
