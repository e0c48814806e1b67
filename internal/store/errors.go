package store

import (
	"errors"
	"fmt"
)

// StorageError reports a failed read, write or create on a stored table.
// It carries the space and table so callers can retry or report per tenant.
type StorageError struct {
	// Op is the Store operation, e.g. "append" or "read".
	Op string

	// Space is the effective space at the time of the failure.
	Space string

	// Table is the table name.
	Table string

	// Err is the underlying error.
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Space, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err wraps a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op, space, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Space: space, Table: table, Err: err}
}
