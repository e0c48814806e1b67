package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, "home")
	require.NoError(t, err)

	require.NoError(t, s.Append(context.Background(), "main_table", "a b c"))

	data, err := os.ReadFile(filepath.Join(root, "spaces", "home", "info_tables", "main_table"))
	require.NoError(t, err)
	assert.Equal(t, "a b c\n", string(data))
}

func TestFileStore_ReadCreatesFile(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, "home")
	require.NoError(t, err)

	_, err = s.ReadAll(context.Background(), "fresh")
	require.NoError(t, err)

	_, err = os.Stat(s.TablePath("fresh"))
	assert.NoError(t, err)
}

func TestFileStore_RepairsTornLastLine(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root, "home")
	require.NoError(t, err)
	ctx := context.Background()

	path := s.TablePath("t")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("a b c\nd e"), 0o640))

	require.NoError(t, s.Append(ctx, "t", "g h i"))

	got, err := s.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a b c\nd e\ng h i\n", got)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(root, "home")
	require.NoError(t, err)
	require.NoError(t, s1.Append(ctx, "t", "a b c"))

	s2, err := NewFileStore(root, "home")
	require.NoError(t, err)
	got, err := s2.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a b c\n", got)
}

func TestNewFileStore_Validation(t *testing.T) {
	_, err := NewFileStore("", "home")
	assert.Error(t, err)

	_, err = NewFileStore(t.TempDir(), "a/b")
	assert.Error(t, err)
}
