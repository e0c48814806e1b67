package director

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/infospace/internal/facade"
	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
)

// DefaultTable is the table CreateTriple and AddNode write into.
const DefaultTable = "main_table"

// Director runs triple operations against the facade's active space.
type Director struct {
	facade       *facade.Facade
	defaultTable string
	logger       *slog.Logger
	spaceIDs     SpaceIDGenerator
}

// Option configures a Director.
type Option func(*Director)

// WithDefaultTable overrides the table used by CreateTriple and AddNode.
func WithDefaultTable(name string) Option {
	return func(d *Director) {
		if name != "" {
			d.defaultTable = name
		}
	}
}

// WithLogger sets the director's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Director) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSpaceIDGenerator sets the generator used by NewSpaceID.
func WithSpaceIDGenerator(g SpaceIDGenerator) Option {
	return func(d *Director) {
		if g != nil {
			d.spaceIDs = g
		}
	}
}

// New creates a Director over f.
func New(f *facade.Facade, opts ...Option) *Director {
	d := &Director{
		facade:       f,
		defaultTable: DefaultTable,
		logger:       slog.Default(),
		spaceIDs:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Facade returns the underlying facade.
func (d *Director) Facade() *facade.Facade {
	return d.facade
}

// DefaultTable returns the table CreateTriple writes into.
func (d *Director) DefaultTable() string {
	return d.defaultTable
}

// Space returns the space operations currently act on.
func (d *Director) Space() string {
	return d.facade.EffectiveSpace()
}

// NewSpaceID mints a fresh space id.
func (d *Director) NewSpaceID() string {
	return d.spaceIDs.Generate()
}

// Triples returns every triple stored in the named table.
func (d *Director) Triples(ctx context.Context, name string) ([]ir.Triple, error) {
	return d.facade.Triples(ctx, name)
}

// Table returns the named table as a table.Table.
func (d *Director) Table(ctx context.Context, name string) (*table.Table, error) {
	return d.facade.Table(ctx, name)
}

// Flatten reads the named tables in order and unions their triples into
// one table. A repeated id is resolved by the facade's duplicate policy;
// under KeepFirst the earliest table wins.
func (d *Director) Flatten(ctx context.Context, names ...string) (*table.Table, error) {
	var all []ir.Triple
	for _, name := range names {
		triples, err := d.facade.Triples(ctx, name)
		if err != nil {
			return nil, err
		}
		all = append(all, triples...)
	}
	out, err := table.FromTriples(all, table.WithPolicy(d.facade.Policy()))
	if err != nil {
		return nil, fmt.Errorf("flatten %v: %w", names, err)
	}
	return out, nil
}

// CreateTriple mints the triple (TripleID(id1, id2), id1, id2) and appends
// it to the default table. Creating the same pair twice yields the same id;
// the repeated line is collapsed when the table is read.
func (d *Director) CreateTriple(ctx context.Context, id1, id2 string) (ir.Triple, error) {
	tr := ir.NewTriple(id1, id2)
	if err := d.facade.AddToTable(ctx, d.defaultTable, tr); err != nil {
		return ir.Triple{}, err
	}
	d.logger.Debug("triple created",
		slog.String("space", d.Space()),
		slog.String("table", d.defaultTable),
		slog.String("id", tr.ID))
	return tr, nil
}

// AddNode appends the self-loop (id, id, id) to the default table so id is
// queryable before any edge references it.
func (d *Director) AddNode(ctx context.Context, id string) (ir.Triple, error) {
	tr := ir.Triple{ID: id, ID1: id, ID2: id}
	if err := d.facade.AddToTable(ctx, d.defaultTable, tr); err != nil {
		return ir.Triple{}, err
	}
	return tr, nil
}

// ClearTable truncates the named table.
func (d *Director) ClearTable(ctx context.Context, name string) error {
	return d.facade.Clear(ctx, name)
}

// Neighbors returns the endpoints opposite vertex across the table's
// incident edges, sorted.
func (d *Director) Neighbors(ctx context.Context, name, vertex string) ([]string, error) {
	t, err := d.facade.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return t.NeighborIDs(vertex), nil
}

// Select returns the triples of the named table whose endpoints match where.
func (d *Director) Select(ctx context.Context, name, where string) ([]ir.Triple, error) {
	return d.facade.Select(ctx, name, where)
}

// InSpace runs fn with the store redirected to space. The redirect is
// released on every exit path.
func (d *Director) InSpace(ctx context.Context, space string, fn func(ctx context.Context) error) error {
	release := store.UseSpace(d.facade.Store(), space)
	defer release()

	d.logger.Debug("guest space acquired", slog.String("space", space))
	return fn(ctx)
}

// TriplesIn is Triples run in a guest space.
func (d *Director) TriplesIn(ctx context.Context, space, name string) ([]ir.Triple, error) {
	var out []ir.Triple
	err := d.InSpace(ctx, space, func(ctx context.Context) error {
		var err error
		out, err = d.Triples(ctx, name)
		return err
	})
	return out, err
}

// FlattenIn is Flatten run in a guest space.
func (d *Director) FlattenIn(ctx context.Context, space string, names ...string) (*table.Table, error) {
	var out *table.Table
	err := d.InSpace(ctx, space, func(ctx context.Context) error {
		var err error
		out, err = d.Flatten(ctx, names...)
		return err
	})
	return out, err
}

// CreateTripleIn is CreateTriple run in a guest space.
func (d *Director) CreateTripleIn(ctx context.Context, space, id1, id2 string) (ir.Triple, error) {
	var out ir.Triple
	err := d.InSpace(ctx, space, func(ctx context.Context) error {
		var err error
		out, err = d.CreateTriple(ctx, id1, id2)
		return err
	})
	return out, err
}

// ClearTableIn is ClearTable run in a guest space.
func (d *Director) ClearTableIn(ctx context.Context, space, name string) error {
	return d.InSpace(ctx, space, func(ctx context.Context) error {
		return d.ClearTable(ctx, name)
	})
}
