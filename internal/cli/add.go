package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/infospace/internal/ir"
)

type addOptions struct {
	ID      string
	Table   string
	InSpace string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <id1> <id2>",
		Short: "Create a triple linking two identifiers",
		Long: `Create a triple linking id1 and id2 and append it to a table.

Without --id the triple id is derived from the endpoints and the triple is
appended to the default table. With --id the given triple is appended to
--table (default table if unset) as is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "explicit triple id")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "target table when --id is set")
	cmd.Flags().StringVar(&opts.InSpace, "in-space", "", "run in a guest space")

	return cmd
}

func runAdd(cmd *cobra.Command, rootOpts *RootOptions, opts *addOptions, id1, id2 string) error {
	return withSession(cmd, rootOpts, opts.InSpace, func(ctx context.Context, s *session) error {
		if opts.ID == "" {
			if opts.Table != "" {
				return NewExitError(ExitCommandError, "--table requires --id")
			}
			tr, err := s.director.CreateTriple(ctx, id1, id2)
			if err != nil {
				return operationError("add", err)
			}
			return s.out.Success(tr)
		}

		tr := ir.Triple{ID: opts.ID, ID1: id1, ID2: id2}
		if err := s.director.Facade().AddToTable(ctx, s.tableOrDefault(opts.Table), tr); err != nil {
			return operationError("add", err)
		}
		return s.out.Success(tr)
	})
}

// NewNodeCommand creates the node command.
func NewNodeCommand(rootOpts *RootOptions) *cobra.Command {
	var inSpace string

	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Register an identifier as a self-linked node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, inSpace, func(ctx context.Context, s *session) error {
				tr, err := s.director.AddNode(ctx, args[0])
				if err != nil {
					return operationError("node", err)
				}
				return s.out.Success(tr)
			})
		},
	}

	cmd.Flags().StringVar(&inSpace, "in-space", "", "run in a guest space")
	return cmd
}
