package store

import (
	"path/filepath"
	"testing"
)

// backendFactory opens a fresh store on space for one test.
type backendFactory func(t *testing.T, space string, opts ...Option) Store

// backends lists every Store implementation the contract tests run against.
func backends() map[string]backendFactory {
	return map[string]backendFactory{
		"file": func(t *testing.T, space string, opts ...Option) Store {
			t.Helper()
			s, err := NewFileStore(t.TempDir(), space, opts...)
			if err != nil {
				t.Fatalf("NewFileStore() failed: %v", err)
			}
			return s
		},
		"memory": func(t *testing.T, space string, opts ...Option) Store {
			t.Helper()
			s, err := NewMemStore(space, opts...)
			if err != nil {
				t.Fatalf("NewMemStore() failed: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T, space string, opts ...Option) Store {
			t.Helper()
			return createTestSQLite(t, space, opts...)
		},
		"badger": func(t *testing.T, space string, opts ...Option) Store {
			t.Helper()
			s, err := OpenBadger(InMemoryBadgerConfig(), space, opts...)
			if err != nil {
				t.Fatalf("OpenBadger() failed: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

// createTestSQLite opens a SQLite store in a temp directory.
func createTestSQLite(t *testing.T, space string, opts ...Option) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path, space, opts...)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
