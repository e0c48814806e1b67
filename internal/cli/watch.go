package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/watch"
)

type watchOptions struct {
	FromStart bool
	Limit     int
	InSpace   string
}

// watchEvent is the JSON form of a watch.Event.
type watchEvent struct {
	Table string `json:"table"`
	ID    string `json:"id"`
	ID1   string `json:"id1"`
	ID2   string `json:"id2"`
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream triples as they are appended",
		Long: `Tail every table of a space and print each triple appended to it.
Only the file backend can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.FromStart, "from-start", false, "print existing triples first")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "exit after this many triples (0 = until interrupted)")
	cmd.Flags().StringVar(&opts.InSpace, "in-space", "", "watch a guest space")

	return cmd
}

func runWatch(cmd *cobra.Command, rootOpts *RootOptions, opts *watchOptions) error {
	return withSession(cmd, rootOpts, "", func(ctx context.Context, s *session) error {
		if s.cfg.Backend != store.BackendFile {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("watch requires the %s backend, got %s", store.BackendFile, s.cfg.Backend))
		}

		space := s.director.Space()
		if opts.InSpace != "" {
			space = opts.InSpace
		}

		wopts := []watch.Option{watch.WithLogger(s.logger)}
		if opts.FromStart {
			wopts = append(wopts, watch.WithFromStart())
		}
		w := watch.New(s.cfg.DataDir, space, wopts...)
		s.logger.Debug("watching", slog.String("dir", w.Dir()))

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan watch.Event)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			defer close(events)
			return w.Run(gctx, events)
		})

		g.Go(func() error {
			seen := 0
			for ev := range events {
				if opts.Limit > 0 && seen >= opts.Limit {
					continue
				}
				if err := printEvent(s.out, ev); err != nil {
					return err
				}
				seen++
				if opts.Limit > 0 && seen == opts.Limit {
					cancel()
				}
			}
			return nil
		})

		return g.Wait()
	})
}

func printEvent(out *OutputFormatter, ev watch.Event) error {
	if out.Format == "json" {
		return out.Success(watchEvent{
			Table: ev.Table,
			ID:    ev.Triple.ID,
			ID1:   ev.Triple.ID1,
			ID2:   ev.Triple.ID2,
		})
	}
	_, err := fmt.Fprintf(out.Writer, "%s: %s\n", ev.Table, ev.Triple.FormatLine())
	return err
}
