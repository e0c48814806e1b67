package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type listOptions struct {
	IDs     bool
	AllIDs  bool
	Refs    bool
	InSpace string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [table]",
		Short: "List the triples of a table",
		Long: `List the triples of a table in stored order.

--ids prints the triple ids, --all-ids every identifier the table mentions
and --refs the endpoints only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.IDs, "ids", false, "print triple ids")
	cmd.Flags().BoolVar(&opts.AllIDs, "all-ids", false, "print every identifier in the table")
	cmd.Flags().BoolVar(&opts.Refs, "refs", false, "print referenced endpoint ids")
	cmd.MarkFlagsMutuallyExclusive("ids", "all-ids", "refs")
	cmd.Flags().StringVar(&opts.InSpace, "in-space", "", "run in a guest space")

	return cmd
}

func runList(cmd *cobra.Command, rootOpts *RootOptions, opts *listOptions, args []string) error {
	return withSession(cmd, rootOpts, opts.InSpace, func(ctx context.Context, s *session) error {
		name := s.tableOrDefault(firstArg(args))
		f := s.director.Facade()

		var (
			ids []string
			err error
		)
		switch {
		case opts.IDs:
			ids, err = f.IDs(ctx, name)
		case opts.AllIDs:
			ids, err = f.AllIDs(ctx, name)
		case opts.Refs:
			ids, err = f.ReferencedIDs(ctx, name)
		default:
			triples, err := s.director.Triples(ctx, name)
			if err != nil {
				return operationError("list", err)
			}
			return s.out.Success(triples)
		}
		if err != nil {
			return operationError("list", err)
		}
		return s.out.Success(ids)
	})
}

type neighborsOptions struct {
	Table           string
	ExceptDecorated string
	Not             string
	With            string
	TripleIDs       bool
	InSpace         string
}

// NewNeighborsCommand creates the neighbors command.
func NewNeighborsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &neighborsOptions{}

	cmd := &cobra.Command{
		Use:   "neighbors <vertex>",
		Short: "Query the neighbours of a vertex",
		Long: `Print the identifiers linked to vertex in a table.

--except-decorated D prints the incident edges that are not themselves
linked to D. --not X additionally drops edges that touch X.
--with H prints the neighbours that are themselves linked to H.
--triple-ids prints the incident edge ids instead of the neighbours.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNeighbors(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to query (default table if unset)")
	cmd.Flags().StringVar(&opts.ExceptDecorated, "except-decorated", "", "drop edges decorated with this id")
	cmd.Flags().StringVar(&opts.Not, "not", "", "with --except-decorated, also drop edges touching this id")
	cmd.Flags().StringVar(&opts.With, "with", "", "keep neighbours that are linked to this id")
	cmd.Flags().BoolVar(&opts.TripleIDs, "triple-ids", false, "print incident edge ids")
	cmd.MarkFlagsMutuallyExclusive("except-decorated", "with", "triple-ids")
	cmd.Flags().StringVar(&opts.InSpace, "in-space", "", "run in a guest space")

	return cmd
}

func runNeighbors(cmd *cobra.Command, rootOpts *RootOptions, opts *neighborsOptions, vertex string) error {
	if opts.Not != "" && opts.ExceptDecorated == "" {
		return NewExitError(ExitCommandError, "--not requires --except-decorated")
	}

	return withSession(cmd, rootOpts, opts.InSpace, func(ctx context.Context, s *session) error {
		t, err := s.director.Table(ctx, s.tableOrDefault(opts.Table))
		if err != nil {
			return operationError("neighbors", err)
		}

		switch {
		case opts.ExceptDecorated != "" && opts.Not != "":
			return s.out.Success(t.NeighborsExceptDecoratedAndNot(vertex, opts.ExceptDecorated, opts.Not).All())
		case opts.ExceptDecorated != "":
			return s.out.Success(t.NeighborsExceptDecorated(vertex, opts.ExceptDecorated).All())
		case opts.With != "":
			return s.out.Success(t.NeighborsWithNeighbor(vertex, opts.With))
		case opts.TripleIDs:
			return s.out.Success(t.NeighborTripleIDs(vertex))
		}
		return s.out.Success(t.NeighborIDs(vertex))
	})
}

type selectOptions struct {
	Table       string
	NeighborIDs bool
	InSpace     string
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Select the stored lines that mention an identifier",
		Long: `Select the triples whose endpoints match id using the store's
match mode (substring by default, see --match).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, opts.InSpace, func(ctx context.Context, s *session) error {
				name := s.tableOrDefault(opts.Table)
				if opts.NeighborIDs {
					ids, err := s.director.Facade().SelectNeighborIDs(ctx, name, args[0])
					if err != nil {
						return operationError("select", err)
					}
					return s.out.Success(ids)
				}
				triples, err := s.director.Select(ctx, name, args[0])
				if err != nil {
					return operationError("select", err)
				}
				return s.out.Success(triples)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table to query (default table if unset)")
	cmd.Flags().BoolVar(&opts.NeighborIDs, "neighbor-ids", false, "print the other identifiers on matching lines")
	cmd.Flags().StringVar(&opts.InSpace, "in-space", "", "run in a guest space")

	return cmd
}

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(rootOpts *RootOptions) *cobra.Command {
	var inSpace string

	cmd := &cobra.Command{
		Use:   "flatten <table>...",
		Short: "Merge several tables into one view",
		Long: `Print the union of the named tables, sorted by triple id. Duplicate ids
are resolved by the configured duplicate policy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, inSpace, func(ctx context.Context, s *session) error {
				t, err := s.director.Flatten(ctx, args...)
				if err != nil {
					return operationError("flatten", err)
				}
				s.out.VerboseLog("flattened %d tables into %d triples", len(args), t.Len())
				return s.out.Success(t.All())
			})
		},
	}

	cmd.Flags().StringVar(&inSpace, "in-space", "", "run in a guest space")
	return cmd
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var inSpace string

	cmd := &cobra.Command{
		Use:   "clear [table]",
		Short: "Remove every triple from a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, inSpace, func(ctx context.Context, s *session) error {
				name := s.tableOrDefault(firstArg(args))
				if err := s.director.ClearTable(ctx, name); err != nil {
					return operationError("clear", err)
				}
				if s.out.Format == "json" {
					return s.out.Success(map[string]string{"cleared": name})
				}
				s.out.VerboseLog("cleared %s", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&inSpace, "in-space", "", "run in a guest space")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
