package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	for _, backend := range []string{"", BackendFile, BackendSQLite, BackendBadger, BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			s, err := Open(Config{Backend: backend, DataDir: t.TempDir(), Space: "home"})
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, "home", s.EffectiveSpace())
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Config{Backend: "etcd", DataDir: t.TempDir(), Space: "home"})
	assert.Error(t, err)
}
