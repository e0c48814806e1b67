package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/infospace/internal/director"
	"github.com/roach88/infospace/internal/facade"
	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/logging"
	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
	"github.com/roach88/infospace/internal/testutil"
)

// DefaultSpace is the organic space used when a scenario names none.
const DefaultSpace = "home"

// Harness executes one scenario against a director.
type Harness struct {
	director *director.Director
	clock    *testutil.DeterministicClock
	logger   *slog.Logger
}

// Run executes a scenario with logging suppressed.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, logging.Discard())
}

// RunContext executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory store for isolation. A returned
// error means the scenario could not be set up; step failures and failed
// assertions are reported in Result.Errors.
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	space := scenario.Space
	if space == "" {
		space = DefaultSpace
	}
	policy, err := table.ParsePolicy(scenario.DuplicatePolicy)
	if err != nil {
		return nil, err
	}

	st, err := store.NewMemStore(space, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	f := facade.New(st, facade.WithLogger(logger), facade.WithPolicy(policy))
	opts := []director.Option{director.WithLogger(logger)}
	if len(scenario.SpaceIDs) > 0 {
		opts = append(opts, director.WithSpaceIDGenerator(testutil.NewFixedSpaceIDs(scenario.SpaceIDs...)))
	}

	h := &Harness{
		director: director.New(f, opts...),
		clock:    testutil.NewDeterministicClock(),
		logger:   logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		ev := h.execute(ctx, step)
		result.AddTrace(ev)
		for _, msg := range checkExpect(step.Expect, ev) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Op, msg))
		}
		h.logger.Debug("step executed",
			slog.Int("step", i),
			slog.String("op", step.Op),
			slog.String("space", ev.Space))
	}

	for _, err := range EvaluateAssertions(ctx, h.director, scenario.Assertions) {
		result.AddError(err.Error())
	}

	return result, nil
}

// execute runs one step, in its guest space if it names one.
func (h *Harness) execute(ctx context.Context, step Step) TraceEvent {
	ev := TraceEvent{
		Seq:   h.clock.Next(),
		Op:    step.Op,
		Space: h.director.Space(),
		Table: step.Table,
	}

	run := func(ctx context.Context) error {
		ev.Space = h.director.Space()
		out, err := h.dispatch(ctx, step)
		ev.Output = out
		return err
	}

	var err error
	if step.Space != "" {
		err = h.director.InSpace(ctx, step.Space, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

func (h *Harness) dispatch(ctx context.Context, step Step) ([]string, error) {
	d := h.director

	switch step.Op {
	case OpCreate:
		tr, err := d.CreateTriple(ctx, step.ID1, step.ID2)
		if err != nil {
			return nil, err
		}
		return []string{tr.ID}, nil

	case OpAdd:
		tr := ir.Triple{ID: step.ID, ID1: step.ID1, ID2: step.ID2}
		if err := d.Facade().AddToTable(ctx, step.Table, tr); err != nil {
			return nil, err
		}
		return []string{tr.ID}, nil

	case OpNode:
		tr, err := d.AddNode(ctx, step.ID)
		if err != nil {
			return nil, err
		}
		return []string{tr.ID}, nil

	case OpClear:
		return nil, d.ClearTable(ctx, step.Table)

	case OpTriples:
		t, err := d.Table(ctx, step.Table)
		if err != nil {
			return nil, err
		}
		return t.IDs(), nil

	case OpFlatten:
		t, err := d.Flatten(ctx, step.Tables...)
		if err != nil {
			return nil, err
		}
		return t.IDs(), nil

	case OpNeighbors:
		return d.Neighbors(ctx, step.Table, step.Vertex)

	case OpSelect:
		triples, err := d.Select(ctx, step.Table, step.Where)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(triples))
		for _, tr := range triples {
			ids = append(ids, tr.ID)
		}
		slices.Sort(ids)
		return slices.Compact(ids), nil

	case OpExceptDecorated:
		t, err := d.Table(ctx, step.Table)
		if err != nil {
			return nil, err
		}
		return t.NeighborsExceptDecorated(step.Vertex, step.Decoration).IDs(), nil

	case OpNewSpace:
		return []string{d.NewSpaceID()}, nil
	}
	return nil, fmt.Errorf("unknown op %q", step.Op)
}

// checkExpect compares a step's trace event with its expect clause.
func checkExpect(exp *Expect, ev TraceEvent) []string {
	if exp == nil {
		if ev.Error != "" {
			return []string{"unexpected error: " + ev.Error}
		}
		return nil
	}

	var errs []string
	if exp.Error != "" {
		if ev.Error == "" || !strings.Contains(ev.Error, exp.Error) {
			errs = append(errs, fmt.Sprintf("expected error containing %q, got %q", exp.Error, ev.Error))
		}
		return errs
	}
	if ev.Error != "" {
		return []string{"unexpected error: " + ev.Error}
	}
	if exp.IDs != nil && !slices.Equal(exp.IDs, ev.Output) {
		errs = append(errs, fmt.Sprintf("expected ids %v, got %v", exp.IDs, ev.Output))
	}
	if exp.Count != nil && *exp.Count != len(ev.Output) {
		errs = append(errs, fmt.Sprintf("expected %d items, got %d", *exp.Count, len(ev.Output)))
	}
	return errs
}
