package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBadger_RequiresPath(t *testing.T) {
	_, err := OpenBadger(DefaultBadgerConfig(), "home")
	assert.Error(t, err)
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	cfg := DefaultBadgerConfig()
	cfg.Path = filepath.Join(t.TempDir(), "badger")
	ctx := context.Background()

	s1, err := OpenBadger(cfg, "home")
	require.NoError(t, err)
	require.NoError(t, s1.Append(ctx, "t", "a b c"))
	require.NoError(t, s1.Append(ctx, "t", "d e f"))
	require.NoError(t, s1.Close())

	s2, err := OpenBadger(cfg, "home")
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a b c\nd e f\n", got)
}

func TestBadgerStore_PrefixesDoNotOverlap(t *testing.T) {
	s, err := OpenBadger(InMemoryBadgerConfig(), "home")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "t", "a b c"))
	require.NoError(t, s.Append(ctx, "t2", "d e f"))

	got, err := s.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a b c\n", got)
}

func TestLineKey_OrdersLexically(t *testing.T) {
	assert.Less(t, string(lineKey("s", "t", 9)), string(lineKey("s", "t", 10)))
}
