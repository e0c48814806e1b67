package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// Store is the capability interface consumed by the facade.
// All operations act on the effective space.
type Store interface {
	// Append adds one pre-formatted triple line to the table, creating the
	// table if absent.
	Append(ctx context.Context, table, line string) error

	// ReadAll returns the whole stored content, LF terminated per line.
	// A missing table is created empty and "" is returned.
	ReadAll(ctx context.Context, table string) (string, error)

	// Select returns every line whose endpoint portion matches whereID.
	// A missing table is created empty and "" is returned.
	Select(ctx context.Context, table, whereID string) (string, error)

	// Clear truncates the table. Clearing a missing table is logged and is
	// not an error.
	Clear(ctx context.Context, table string) error

	// SetTemporarySpace redirects operations to space until RevertSpace.
	SetTemporarySpace(space string)

	// RevertSpace drops the temporary override.
	RevertSpace()

	// EffectiveSpace returns the space operations currently act on.
	EffectiveSpace() string

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config selects and configures a backend for Open.
type Config struct {
	// Backend is one of BackendFile, BackendSQLite, BackendBadger, BackendMemory.
	// Empty means BackendFile.
	Backend string

	// DataDir is the root directory for persistent backends.
	DataDir string

	// Space is the organic space the store is opened on.
	Space string

	// Match controls Select. Default MatchSubstring.
	Match MatchMode

	// Logger receives store diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Open creates the backend described by cfg.
func Open(cfg Config) (Store, error) {
	opts := []Option{WithMatchMode(cfg.Match), WithLogger(cfg.Logger)}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.DataDir, cfg.Space, opts...)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.DataDir, "infospace.db"), cfg.Space, opts...)
	case BackendBadger:
		bcfg := DefaultBadgerConfig()
		bcfg.Path = filepath.Join(cfg.DataDir, "badger")
		return OpenBadger(bcfg, cfg.Space, opts...)
	case BackendMemory:
		return NewMemStore(cfg.Space, opts...)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// options holds settings shared by every backend.
type options struct {
	match  MatchMode
	logger *slog.Logger
}

// Option configures a backend.
type Option func(*options)

// WithMatchMode sets how Select compares ids.
func WithMatchMode(m MatchMode) Option {
	return func(o *options) {
		o.match = m
	}
}

// WithLogger sets the diagnostics logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{match: MatchSubstring, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
