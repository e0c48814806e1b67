package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/infospace/internal/config"
	"github.com/roach88/infospace/internal/director"
	"github.com/roach88/infospace/internal/facade"
	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/logging"
	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
)

// session is the per-invocation wiring: config, logger, store and director.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	store    store.Store
	director *director.Director
	out      *OutputFormatter
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.DataDir, opts.DataDir)
	override(&cfg.Space, opts.Space)
	override(&cfg.Backend, opts.Backend)
	override(&cfg.MatchMode, opts.Match)
	override(&cfg.DuplicatePolicy, opts.Policy)
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// openSession loads config and opens the configured store.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, _, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	scfg, err := cfg.StoreConfig(logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger.Debug("opening store",
		slog.String("backend", cfg.Backend),
		slog.String("data_dir", cfg.DataDir),
		slog.String("space", cfg.Space))
	st, err := store.Open(scfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}

	f := facade.New(st, facade.WithLogger(logger), facade.WithPolicy(policy))
	dopts := []director.Option{
		director.WithDefaultTable(cfg.DefaultTable),
		director.WithLogger(logger),
	}
	if opts.SpaceIDs != nil {
		dopts = append(dopts, director.WithSpaceIDGenerator(opts.SpaceIDs))
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		director: director.New(f, dopts...),
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

// Close releases the store.
func (s *session) Close() error {
	return s.store.Close()
}

// withSession opens a session, runs fn in space (the organic space when
// empty) and closes the session.
func withSession(cmd *cobra.Command, opts *RootOptions, space string, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			s.logger.Error("error closing store", slog.String("error", closeErr.Error()))
		}
	}()

	ctx := cmdContext(cmd)
	if space == "" {
		return fn(ctx, s)
	}
	return s.director.InSpace(ctx, space, func(ctx context.Context) error {
		return fn(ctx, s)
	})
}

// cmdContext returns the command's context, or Background when the
// command was executed without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// tableOrDefault returns name, or the configured default table.
func (s *session) tableOrDefault(name string) string {
	if name == "" {
		return s.director.DefaultTable()
	}
	return name
}

// errorCode maps domain errors onto CLI error codes.
func errorCode(err error) string {
	switch {
	case table.IsConflict(err):
		return ErrCodeConflict
	case ir.IsInvalidTriple(err), ir.IsMalformedLine(err), ir.IsInvalidEndpoint(err):
		return ErrCodeInvalid
	case store.IsStorageError(err):
		return ErrCodeStorage
	case isConfigError(err):
		return ErrCodeConfig
	case errors.Is(err, errScenariosFailed):
		return ErrCodeScenarios
	}
	return ErrCodeGeneric
}

func isConfigError(err error) bool {
	var ve *config.ValidationError
	return errors.As(err, &ve)
}

// operationError wraps a failed store operation with ExitFailure.
func operationError(op string, err error) error {
	return WrapExitError(ExitFailure, fmt.Sprintf("%s failed", op), err)
}
