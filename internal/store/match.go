package store

import (
	"fmt"
	"strings"
)

// MatchMode controls how Select compares a where-id with stored lines.
type MatchMode int

const (
	// MatchSubstring keeps lines whose endpoint portion contains the id
	// anywhere. Compatible with existing data, but "ab" also matches "xaby".
	MatchSubstring MatchMode = iota

	// MatchToken keeps lines whose id1 or id2 equals the id exactly.
	MatchToken
)

// ParseMatchMode maps a configuration value to a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "substring":
		return MatchSubstring, nil
	case "token":
		return MatchToken, nil
	}
	return MatchSubstring, fmt.Errorf("unknown match mode %q: must be substring or token", s)
}

// String returns the configuration spelling of the mode.
func (m MatchMode) String() string {
	if m == MatchToken {
		return "token"
	}
	return "substring"
}

// matchLine reports whether line matches whereID under mode. Only the part
// after the first field is inspected, so a line never matches on its own id.
func matchLine(line, whereID string, mode MatchMode) bool {
	_, rest, ok := strings.Cut(line, " ")
	if !ok {
		return false
	}
	if mode == MatchToken {
		id1, id2, _ := strings.Cut(rest, " ")
		return id1 == whereID || id2 == whereID
	}
	return strings.Contains(rest, whereID)
}

// splitLines returns the non-empty lines of content.
func splitLines(content string) []string {
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// joinLines renders lines as stored content, one LF after every line.
func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// filterLines keeps the lines of content that match whereID.
func filterLines(content, whereID string, mode MatchMode) string {
	var kept []string
	for _, l := range splitLines(content) {
		if matchLine(l, whereID, mode) {
			kept = append(kept, l)
		}
	}
	return joinLines(kept)
}
