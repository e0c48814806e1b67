// Package config loads infospace.yaml, applies defaults and validates the
// result against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "infospace.yaml"

// Config is the on-disk configuration.
type Config struct {
	DataDir         string    `yaml:"data_dir" json:"data_dir"`
	Space           string    `yaml:"space" json:"space"`
	Backend         string    `yaml:"backend" json:"backend"`
	DefaultTable    string    `yaml:"default_table" json:"default_table"`
	DuplicatePolicy string    `yaml:"duplicate_policy" json:"duplicate_policy"`
	MatchMode       string    `yaml:"match_mode" json:"match_mode"`
	Log             LogConfig `yaml:"log" json:"log"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:         ".infospace",
		Space:           "default",
		Backend:         store.BackendFile,
		DefaultTable:    "main_table",
		DuplicatePolicy: table.KeepFirst.String(),
		MatchMode:       store.MatchSubstring.String(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path, fills unset fields from Default and validates. A
// missing file is not an error when path is DefaultFile.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultFile {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Space == "" {
		c.Space = d.Space
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.DefaultTable == "" {
		c.DefaultTable = d.DefaultTable
	}
	if c.DuplicatePolicy == "" {
		c.DuplicatePolicy = d.DuplicatePolicy
	}
	if c.MatchMode == "" {
		c.MatchMode = d.MatchMode
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: cueerrors.Details(err, nil)}
	}
	return nil
}

// ValidationError reports a config that does not satisfy the schema.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Details
}

// Policy returns the configured duplicate policy.
func (c Config) Policy() (table.DuplicatePolicy, error) {
	return table.ParsePolicy(c.DuplicatePolicy)
}

// StoreConfig converts c into the store factory's configuration.
func (c Config) StoreConfig(logger *slog.Logger) (store.Config, error) {
	mode, err := store.ParseMatchMode(c.MatchMode)
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		Backend: c.Backend,
		DataDir: c.DataDir,
		Space:   c.Space,
		Match:   mode,
		Logger:  logger,
	}, nil
}
