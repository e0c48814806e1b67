package store

import (
	"context"
	"log/slog"
	"strings"
)

// MemStore is an in-memory Store with the same semantics as FileStore.
type MemStore struct {
	SpaceScope

	tables map[string]*strings.Builder
	opts   options
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store on space.
func NewMemStore(space string, opts ...Option) (*MemStore, error) {
	if err := validateName("space", space); err != nil {
		return nil, err
	}
	return &MemStore{
		SpaceScope: NewSpaceScope(space),
		tables:     make(map[string]*strings.Builder),
		opts:       applyOptions(opts),
	}, nil
}

func (s *MemStore) key(table string) (string, error) {
	if err := validateName("table", table); err != nil {
		return "", err
	}
	if err := validateName("space", s.EffectiveSpace()); err != nil {
		return "", err
	}
	return s.EffectiveSpace() + "/" + table, nil
}

func (s *MemStore) table(key string) *strings.Builder {
	b, ok := s.tables[key]
	if !ok {
		b = &strings.Builder{}
		s.tables[key] = b
	}
	return b
}

func (s *MemStore) Append(ctx context.Context, table, line string) error {
	key, err := s.key(table)
	if err != nil {
		return storageErr("append", s.EffectiveSpace(), table, err)
	}
	if err := validateLine(line); err != nil {
		return storageErr("append", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.table(key)
	b.WriteString(line)
	b.WriteByte('\n')
	return nil
}

func (s *MemStore) ReadAll(ctx context.Context, table string) (string, error) {
	key, err := s.key(table)
	if err != nil {
		return "", storageErr("read", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.table(key).String(), nil
}

func (s *MemStore) Select(ctx context.Context, table, whereID string) (string, error) {
	content, err := s.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}
	return filterLines(content, whereID, s.opts.match), nil
}

func (s *MemStore) Clear(ctx context.Context, table string) error {
	key, err := s.key(table)
	if err != nil {
		return storageErr("clear", s.EffectiveSpace(), table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, ok := s.tables[key]
	if !ok {
		s.opts.logger.Warn("clear on missing table",
			slog.String("space", s.EffectiveSpace()),
			slog.String("table", table))
		return nil
	}
	b.Reset()
	return nil
}

// Close drops every table.
func (s *MemStore) Close() error {
	clear(s.tables)
	return nil
}
