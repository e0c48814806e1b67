package table

import (
	"fmt"
	"sort"

	"github.com/roach88/infospace/internal/ir"
)

// DuplicatePolicy decides what bulk inserts do when an incoming row shares
// its ID with an existing row but not its endpoints.
type DuplicatePolicy int

const (
	// KeepFirst silently keeps the existing row. First writer wins.
	KeepFirst DuplicatePolicy = iota

	// RejectConflict keeps the existing row and reports a ConflictError.
	// Rows that are exact duplicates are still skipped silently.
	RejectConflict
)

// ParsePolicy maps a configuration value to a DuplicatePolicy.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "keep_first":
		return KeepFirst, nil
	case "reject_conflict":
		return RejectConflict, nil
	}
	return KeepFirst, fmt.Errorf("unknown duplicate policy %q: must be keep_first or reject_conflict", s)
}

// String returns the configuration spelling of the policy.
func (p DuplicatePolicy) String() string {
	if p == RejectConflict {
		return "reject_conflict"
	}
	return "keep_first"
}

type endpoints struct {
	id1 string
	id2 string
}

// Table is a mapping from triple ID to its two endpoints.
type Table struct {
	rows   map[string]endpoints
	policy DuplicatePolicy
}

// Option configures a Table.
type Option func(*Table)

// WithPolicy sets the duplicate policy used by Merge and FromTriples.
func WithPolicy(p DuplicatePolicy) Option {
	return func(t *Table) {
		t.policy = p
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{rows: make(map[string]endpoints)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromTriples builds a table from triples in order. Duplicate IDs are
// handled by the table's policy: under KeepFirst the first occurrence wins
// and the error is always nil.
func FromTriples(triples []ir.Triple, opts ...Option) (*Table, error) {
	t := New(opts...)
	for _, tr := range triples {
		if err := t.insertWithPolicy(tr); err != nil {
			return t, err
		}
	}
	return t, nil
}

// Policy returns the table's duplicate policy.
func (t *Table) Policy() DuplicatePolicy {
	return t.policy
}

// Add inserts a row. It never overwrites: if id is already present the
// table is unchanged and a DuplicateIDError is returned.
func (t *Table) Add(id, id1, id2 string) (string, error) {
	if existing, ok := t.rows[id]; ok {
		return "", &DuplicateIDError{
			Existing: ir.Triple{ID: id, ID1: existing.id1, ID2: existing.id2},
			Rejected: ir.Triple{ID: id, ID1: id1, ID2: id2},
		}
	}
	t.rows[id] = endpoints{id1: id1, id2: id2}
	return id, nil
}

// AddTriple inserts tr. See Add.
func (t *Table) AddTriple(tr ir.Triple) (string, error) {
	return t.Add(tr.ID, tr.ID1, tr.ID2)
}

// AddNode inserts the self-loop (id, id, id), which makes id queryable
// before any real edge references it.
func (t *Table) AddNode(id string) (string, error) {
	return t.Add(id, id, id)
}

// Merge inserts every row of other whose ID is not present yet. Colliding
// rows are skipped; under RejectConflict the first collision with different
// endpoints is reported after all other rows have been merged.
func (t *Table) Merge(other *Table) error {
	if other == nil {
		return nil
	}
	var firstErr error
	for _, tr := range other.All() {
		if err := t.insertWithPolicy(tr); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Table) insertWithPolicy(tr ir.Triple) error {
	_, err := t.AddTriple(tr)
	if err == nil {
		return nil
	}
	de := err.(*DuplicateIDError)
	if t.policy == RejectConflict && de.Conflicting() {
		return &ConflictError{ID: tr.ID, Existing: de.Existing, Incoming: tr}
	}
	return nil
}

// Get looks up a row by triple ID.
func (t *Table) Get(id string) (ir.Triple, bool) {
	e, ok := t.rows[id]
	if !ok {
		return ir.Triple{}, false
	}
	return ir.Triple{ID: id, ID1: e.id1, ID2: e.id2}, true
}

// Has reports whether a row with the given ID exists.
func (t *Table) Has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// All returns every row sorted by ID. The slice is a fresh copy.
func (t *Table) All() []ir.Triple {
	out := make([]ir.Triple, 0, len(t.rows))
	for id, e := range t.rows {
		out = append(out, ir.Triple{ID: id, ID1: e.id1, ID2: e.id2})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// Remove deletes the row with the given ID. Absent IDs are a no-op.
func (t *Table) Remove(id string) {
	delete(t.rows, id)
}

// RemoveTriple deletes the row with tr's ID.
func (t *Table) RemoveTriple(tr ir.Triple) {
	t.Remove(tr.ID)
}

// Clone returns an independent copy with the same policy.
func (t *Table) Clone() *Table {
	c := New(WithPolicy(t.policy))
	for id, e := range t.rows {
		c.rows[id] = e
	}
	return c
}
