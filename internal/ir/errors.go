package ir

import (
	"errors"
	"fmt"
)

// InvalidEndpointError is returned when a pairing query names an id that is
// neither endpoint of the triple.
type InvalidEndpointError struct {
	Triple   Triple
	Endpoint string
}

func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("id %q is not id1 %q or id2 %q of triple %q", e.Endpoint, e.Triple.ID1, e.Triple.ID2, e.Triple.ID)
}

// MalformedLineError is returned when a stored line does not have three fields.
type MalformedLineError struct {
	Line   string
	Fields int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed triple line %q: expected 3 fields, got %d", e.Line, e.Fields)
}

// InvalidTripleError is returned when a triple cannot be stored as one line.
type InvalidTripleError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidTripleError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid triple %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid triple %s: %s", e.Field, e.Reason)
}

// IsInvalidEndpoint returns true if err wraps an InvalidEndpointError.
func IsInvalidEndpoint(err error) bool {
	var ie *InvalidEndpointError
	return errors.As(err, &ie)
}

// IsMalformedLine returns true if err wraps a MalformedLineError.
func IsMalformedLine(err error) bool {
	var me *MalformedLineError
	return errors.As(err, &me)
}

// IsInvalidTriple returns true if err wraps an InvalidTripleError.
func IsInvalidTriple(err error) bool {
	var it *InvalidTripleError
	return errors.As(err, &it)
}
