// Package facade translates between triples and the line-text protocol of
// a store.Store.
//
// Writes serialize a triple as "<id> <id1> <id2>". Reads split each stored
// line on its first two spaces only, so the third field may itself contain
// spaces. Empty lines are ignored; a line with fewer than three fields (for
// example a torn tail left by a crash mid-append) is skipped with a warning.
package facade

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/store"
	"github.com/roach88/infospace/internal/table"
)

// Facade wraps a Store with triple-level reads and writes.
type Facade struct {
	store  store.Store
	logger *slog.Logger
	policy table.DuplicatePolicy
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets the logger used for skipped-line warnings.
func WithLogger(l *slog.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithPolicy sets the duplicate policy of tables built by Table.
func WithPolicy(p table.DuplicatePolicy) Option {
	return func(f *Facade) {
		f.policy = p
	}
}

// New creates a Facade over st.
func New(st store.Store, opts ...Option) *Facade {
	f := &Facade{store: st, logger: slog.Default(), policy: table.KeepFirst}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Store returns the underlying store.
func (f *Facade) Store() store.Store {
	return f.store
}

// Policy returns the duplicate policy applied by Table.
func (f *Facade) Policy() table.DuplicatePolicy {
	return f.policy
}

// AddToTable validates tr and appends its line to the named table.
func (f *Facade) AddToTable(ctx context.Context, name string, tr ir.Triple) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	return f.store.Append(ctx, name, tr.FormatLine())
}

// AppendLine appends a pre-formatted line without validation.
func (f *Facade) AppendLine(ctx context.Context, name, line string) error {
	return f.store.Append(ctx, name, line)
}

// Triples returns every parseable line of the table as a triple, in stored
// order. Repeated ids are returned as stored.
func (f *Facade) Triples(ctx context.Context, name string) ([]ir.Triple, error) {
	content, err := f.store.ReadAll(ctx, name)
	if err != nil {
		return nil, err
	}
	return f.parse(name, content), nil
}

// Table reads the named table into a table.Table. Under KeepFirst the
// earliest stored line wins for a repeated id.
func (f *Facade) Table(ctx context.Context, name string) (*table.Table, error) {
	triples, err := f.Triples(ctx, name)
	if err != nil {
		return nil, err
	}
	return table.FromTriples(triples, table.WithPolicy(f.policy))
}

// IDs returns the triple id of every stored line, in stored order.
func (f *Facade) IDs(ctx context.Context, name string) ([]string, error) {
	triples, err := f.Triples(ctx, name)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(triples))
	for _, tr := range triples {
		ids = append(ids, tr.ID)
	}
	return ids, nil
}

// AllIDs returns every identifier in the table (ids and both endpoints),
// deduplicated and sorted.
func (f *Facade) AllIDs(ctx context.Context, name string) ([]string, error) {
	triples, err := f.Triples(ctx, name)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, 3*len(triples))
	for _, tr := range triples {
		for _, id := range tr.IDs() {
			set[id] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// ReferencedIDs returns the endpoints referenced by the table's triples,
// deduplicated and sorted. Triple ids themselves are only included when
// some triple references them.
func (f *Facade) ReferencedIDs(ctx context.Context, name string) ([]string, error) {
	triples, err := f.Triples(ctx, name)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, 2*len(triples))
	for _, tr := range triples {
		set[tr.ID1] = struct{}{}
		set[tr.ID2] = struct{}{}
	}
	return sortedKeys(set), nil
}

// Select returns the triples whose endpoints match whereID under the
// store's match mode, in stored order.
func (f *Facade) Select(ctx context.Context, name, whereID string) ([]ir.Triple, error) {
	content, err := f.store.Select(ctx, name, whereID)
	if err != nil {
		return nil, err
	}
	return f.parse(name, content), nil
}

// SelectNeighborIDs returns the endpoint tokens of the selected lines,
// minus whereID, deduplicated and sorted.
func (f *Facade) SelectNeighborIDs(ctx context.Context, name, whereID string) ([]string, error) {
	content, err := f.store.Select(ctx, name, whereID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		_, rest, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		for _, tok := range strings.Split(rest, " ") {
			if tok != "" && tok != whereID {
				set[tok] = struct{}{}
			}
		}
	}
	return sortedKeys(set), nil
}

// Clear truncates the named table.
func (f *Facade) Clear(ctx context.Context, name string) error {
	return f.store.Clear(ctx, name)
}

func (f *Facade) SetTemporarySpace(space string) {
	f.store.SetTemporarySpace(space)
}

func (f *Facade) RevertSpace() {
	f.store.RevertSpace()
}

func (f *Facade) EffectiveSpace() string {
	return f.store.EffectiveSpace()
}

// parse converts stored content to triples, skipping blank and malformed
// lines.
func (f *Facade) parse(name, content string) []ir.Triple {
	var triples []ir.Triple
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		tr, err := ir.ParseLine(line)
		if err != nil {
			f.logger.Warn("skipping malformed line",
				slog.String("space", f.store.EffectiveSpace()),
				slog.String("table", name),
				slog.Int("line", i+1),
				slog.String("error", err.Error()))
			continue
		}
		triples = append(triples, tr)
	}
	return triples
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
