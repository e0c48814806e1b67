package testutil

import "sync"

// FixedSpaceIDs returns predetermined space ids for testing.
//
// This enables deterministic `space new` output and golden comparison.
//
// Thread-safety: FixedSpaceIDs is safe for concurrent use via internal mutex.
type FixedSpaceIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedSpaceIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedSpaceIDs("space-1", "space-2")
//	gen.Generate() // "space-1"
//	gen.Generate() // "space-2"
//	gen.Generate() // panic: all space ids exhausted
func NewFixedSpaceIDs(ids ...string) *FixedSpaceIDs {
	return &FixedSpaceIDs{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, so a test that mints more spaces
// than it declared fails loudly.
func (g *FixedSpaceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedSpaceIDs: all space ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
