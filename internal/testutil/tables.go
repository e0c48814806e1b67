package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/infospace/internal/facade"
	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
)

// Row is shorthand for a triple literal in test fixtures.
func Row(id, id1, id2 string) ir.Triple {
	return ir.Triple{ID: id, ID1: id1, ID2: id2}
}

// TableOf builds a KeepFirst table from rows and fails the test on error.
func TableOf(t testing.TB, rows ...ir.Triple) *table.Table {
	t.Helper()
	tbl, err := table.FromTriples(rows)
	require.NoError(t, err)
	return tbl
}

// NewMemFacade returns a facade over a fresh in-memory store on space.
func NewMemFacade(t testing.TB, space string, opts ...facade.Option) *facade.Facade {
	t.Helper()
	st, err := store.NewMemStore(space)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return facade.New(st, opts...)
}

// Seed appends rows to the named table of f, failing the test on error.
func Seed(t testing.TB, f *facade.Facade, name string, rows ...ir.Triple) {
	t.Helper()
	for _, r := range rows {
		require.NoError(t, f.AddToTable(context.Background(), name, r))
	}
}
