package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
steps:
  - {op: create, id1: a, id2: b}
`), 0o600))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, OpCreate, s.Steps[0].Op)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown field", "name: s\ndescription: d\nstep: []\n", "failed to parse YAML"},
		{"missing name", "description: d\nsteps: [{op: new_space}]\n", "name is required"},
		{"missing description", "name: s\nsteps: [{op: new_space}]\n", "description is required"},
		{"no steps", "name: s\ndescription: d\n", "steps list is required"},
		{"unknown op", "name: s\ndescription: d\nsteps: [{op: drop}]\n", `unknown op "drop"`},
		{"missing op", "name: s\ndescription: d\nsteps: [{table: t}]\n", "op is required"},
		{"create without ids", "name: s\ndescription: d\nsteps: [{op: create, id1: a}]\n", "create requires id1 and id2"},
		{"select without where", "name: s\ndescription: d\nsteps: [{op: select, table: t}]\n", "select requires table and where"},
		{"unknown assertion", "name: s\ndescription: d\nsteps: [{op: new_space}]\nassertions: [{type: nope}]\n", "unknown assertion type"},
		{"effective space without expect", "name: s\ndescription: d\nsteps: [{op: new_space}]\nassertions: [{type: effective_space}]\n", "expect is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
