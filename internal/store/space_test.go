package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpaceScope(t *testing.T) {
	s := NewSpaceScope("home")
	assert.Equal(t, "home", s.EffectiveSpace())

	s.SetTemporarySpace("guest")
	assert.Equal(t, "guest", s.EffectiveSpace())
	assert.Equal(t, "home", s.OrganicSpace())

	// Nested overrides replace each other; one revert returns home.
	s.SetTemporarySpace("other")
	assert.Equal(t, "other", s.EffectiveSpace())
	s.RevertSpace()
	assert.Equal(t, "home", s.EffectiveSpace())
}

func TestSpaceScope_OverrideEqualToOrganic(t *testing.T) {
	s := NewSpaceScope("home")
	s.SetTemporarySpace("home")
	assert.Equal(t, "home", s.EffectiveSpace())
}

func TestUseSpace_ReleaseOnPanic(t *testing.T) {
	st, err := NewMemStore("home")
	assert.NoError(t, err)

	func() {
		defer func() { _ = recover() }()
		release := UseSpace(st, "guest")
		defer release()
		panic("boom")
	}()

	assert.Equal(t, "home", st.EffectiveSpace())
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"main_table", false},
		{"space-1", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"a\nb", true},
	}
	for _, tt := range tests {
		err := validateName("table", tt.name)
		if tt.wantErr {
			assert.Error(t, err, "name %q", tt.name)
		} else {
			assert.NoError(t, err, "name %q", tt.name)
		}
	}
}
