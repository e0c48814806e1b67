package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchSubstring, m)

	m, err = ParseMatchMode("token")
	require.NoError(t, err)
	assert.Equal(t, MatchToken, m)
	assert.Equal(t, "token", m.String())

	_, err = ParseMatchMode("regex")
	assert.Error(t, err)
}

func TestMatchLine(t *testing.T) {
	tests := []struct {
		line  string
		id    string
		mode  MatchMode
		match bool
	}{
		{"e a b", "a", MatchSubstring, true},
		{"e a b", "e", MatchSubstring, false},
		{"e xay b", "a", MatchSubstring, true},
		{"e xay b", "a", MatchToken, false},
		{"e x a", "a", MatchToken, true},
		{"e a b", "a b", MatchSubstring, true},
		{"lonely", "lonely", MatchSubstring, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, matchLine(tt.line, tt.id, tt.mode), "%q ~ %q (%s)", tt.line, tt.id, tt.mode)
	}
}

func TestFilterLines_SkipsBlankLines(t *testing.T) {
	got := filterLines("e a b\n\r\n\nf a c\r\n", "a", MatchSubstring)
	assert.Equal(t, "e a b\nf a c\n", got)
}
