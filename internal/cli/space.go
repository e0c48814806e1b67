package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewSpaceCommand creates the space command group.
func NewSpaceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "Manage spaces",
	}
	cmd.AddCommand(newSpaceNewCommand(rootOpts))
	cmd.AddCommand(newSpaceCurrentCommand(rootOpts))
	return cmd
}

func newSpaceNewCommand(rootOpts *RootOptions) *cobra.Command {
	var initTable bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Mint a fresh space id",
		Long: `Print a fresh, time-ordered space id. With --init the default table is
created in the new space so it exists on disk straight away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, "", func(ctx context.Context, s *session) error {
				space := s.director.NewSpaceID()
				if initTable {
					if _, err := s.director.TriplesIn(ctx, space, s.director.DefaultTable()); err != nil {
						return operationError("space new", err)
					}
					s.logger.Debug("space initialised",
						slog.String("space", space),
						slog.String("table", s.director.DefaultTable()))
				}
				return s.out.Success(space)
			})
		},
	}

	cmd.Flags().BoolVar(&initTable, "init", false, "create the default table in the new space")
	return cmd
}

func newSpaceCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the configured organic space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, "", func(ctx context.Context, s *session) error {
				return s.out.Success(s.director.Space())
			})
		},
	}
}
