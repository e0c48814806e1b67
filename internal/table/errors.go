package table

import (
	"errors"
	"fmt"

	"github.com/roach88/infospace/internal/ir"
)

// DuplicateIDError is returned when inserting a triple ID that is already
// present. The existing row is left unchanged. Callers re-adding the same
// edge idempotently may ignore it.
type DuplicateIDError struct {
	// Existing is the row already in the table.
	Existing ir.Triple

	// Rejected is the row that was not inserted.
	Rejected ir.Triple
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("a triple with id %q already exists in the table", e.Existing.ID)
}

// Conflicting reports whether the rejected row disagrees with the existing
// one on its endpoints.
func (e *DuplicateIDError) Conflicting() bool {
	return !e.Existing.SameEndpoints(e.Rejected)
}

// ConflictError is returned under RejectConflict when two rows share an ID
// but not their endpoints.
type ConflictError struct {
	ID       string
	Existing ir.Triple
	Incoming ir.Triple
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting rows for id %q: existing (%s, %s), incoming (%s, %s)",
		e.ID, e.Existing.ID1, e.Existing.ID2, e.Incoming.ID1, e.Incoming.ID2)
}

// IsDuplicateID returns true if err wraps a DuplicateIDError.
func IsDuplicateID(err error) bool {
	var de *DuplicateIDError
	return errors.As(err, &de)
}

// IsConflict returns true if err wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
