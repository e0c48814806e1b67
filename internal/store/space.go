package store

import (
	"fmt"
	"strings"
)

// SpaceScope holds the organic space and an optional temporary override.
// Backends embed it to implement the space half of Store.
type SpaceScope struct {
	organic string
	tmp     string
	hasTmp  bool
}

// NewSpaceScope creates a scope on the organic space.
func NewSpaceScope(organic string) SpaceScope {
	return SpaceScope{organic: organic}
}

// SetTemporarySpace redirects the scope to space.
func (s *SpaceScope) SetTemporarySpace(space string) {
	s.tmp = space
	s.hasTmp = true
}

// RevertSpace drops the override. Nested overrides are not stacked: after
// RevertSpace the scope is back on the organic space.
func (s *SpaceScope) RevertSpace() {
	s.tmp = ""
	s.hasTmp = false
}

// EffectiveSpace returns the override while it is set and differs from the
// organic space, the organic space otherwise.
func (s *SpaceScope) EffectiveSpace() string {
	if !s.hasTmp || s.tmp == s.organic {
		return s.organic
	}
	return s.tmp
}

// OrganicSpace returns the space the scope was created on.
func (s *SpaceScope) OrganicSpace() string {
	return s.organic
}

// UseSpace sets a temporary space on st and returns the function that
// reverts it. Callers defer the release so the override cannot outlive the
// operation, whatever the exit path:
//
//	release := store.UseSpace(st, guest)
//	defer release()
func UseSpace(st Store, space string) (release func()) {
	st.SetTemporarySpace(space)
	return st.RevertSpace
}

// validateName checks that a space or table name is usable as a single path
// component and as a key segment.
func validateName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s name must not be empty", kind)
	case name == "." || name == "..":
		return fmt.Errorf("%s name %q is reserved", kind, name)
	case strings.ContainsAny(name, "/\\\x00\n\r"):
		return fmt.Errorf("%s name %q must not contain path separators or control characters", kind, name)
	}
	return nil
}

// validateLine rejects text that would not stay a single stored line.
func validateLine(line string) error {
	if strings.ContainsAny(line, "\n\r") {
		return fmt.Errorf("line %q must not contain line breaks", line)
	}
	return nil
}
