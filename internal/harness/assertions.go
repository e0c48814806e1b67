package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/infospace/internal/director"
	"github.com/roach88/infospace/internal/table"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against the director's final
// state and returns one error per failure.
func EvaluateAssertions(ctx context.Context, d *director.Director, assertions []Assertion) []error {
	var errs []error
	for _, a := range assertions {
		if err := evaluate(ctx, d, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func evaluate(ctx context.Context, d *director.Director, a Assertion) error {
	switch a.Type {
	case AssertEffectiveSpace:
		if got := d.Space(); got != a.Expect {
			return &AssertionError{Type: a.Type, Expected: a.Expect, Actual: got}
		}
		return nil

	case AssertTableIDs:
		t, err := readTable(ctx, d, a)
		if err != nil {
			return err
		}
		return compareIDs(a.Type, a.IDs, t.IDs())

	case AssertTableCount:
		t, err := readTable(ctx, d, a)
		if err != nil {
			return err
		}
		if t.Len() != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d triples in %s", a.Count, a.Table),
				Actual:   fmt.Sprintf("%d", t.Len()),
			}
		}
		return nil

	case AssertNeighbors:
		t, err := readTable(ctx, d, a)
		if err != nil {
			return err
		}
		return compareIDs(a.Type, a.IDs, t.NeighborIDs(a.Vertex))
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// readTable loads the assertion's table, in its guest space if set.
func readTable(ctx context.Context, d *director.Director, a Assertion) (*table.Table, error) {
	if a.Space == "" {
		return d.Table(ctx, a.Table)
	}
	var t *table.Table
	err := d.InSpace(ctx, a.Space, func(ctx context.Context) error {
		var err error
		t, err = d.Table(ctx, a.Table)
		return err
	})
	return t, err
}

func compareIDs(kind string, want, got []string) error {
	if len(want) == 0 && len(got) == 0 {
		return nil
	}
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}
