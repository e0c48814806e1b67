package ir

import (
	"strings"
)

// Triple is an identified edge connecting two identifiers.
// ID1 and ID2 are free-form and may themselves be triple IDs, which is how
// edges get decorated with other edges.
type Triple struct {
	ID  string `json:"id" yaml:"id"`
	ID1 string `json:"id1" yaml:"id1"`
	ID2 string `json:"id2" yaml:"id2"`
}

// FormatLine renders the triple in its stored line form "<id> <id1> <id2>".
// No escaping is applied; call Validate first when the fields come from
// untrusted input.
func (t Triple) FormatLine() string {
	var b strings.Builder
	b.Grow(len(t.ID) + len(t.ID1) + len(t.ID2) + 2)
	b.WriteString(t.ID)
	b.WriteByte(' ')
	b.WriteString(t.ID1)
	b.WriteByte(' ')
	b.WriteString(t.ID2)
	return b.String()
}

// ParseLine parses one stored line. Only the first two spaces are split on,
// so ID2 may contain spaces. A trailing carriage return is dropped.
func ParseLine(line string) (Triple, error) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return Triple{}, &MalformedLineError{Line: line, Fields: len(fields)}
	}
	return Triple{ID: fields[0], ID1: fields[1], ID2: fields[2]}, nil
}

// Validate reports whether the triple survives a FormatLine/ParseLine round
// trip unchanged.
func (t Triple) Validate() error {
	switch {
	case t.ID == "":
		return &InvalidTripleError{Field: "id", Reason: "must not be empty"}
	case t.ID1 == "":
		return &InvalidTripleError{Field: "id1", Reason: "must not be empty"}
	case t.ID2 == "":
		return &InvalidTripleError{Field: "id2", Reason: "must not be empty"}
	case strings.ContainsAny(t.ID, " \n\r"):
		return &InvalidTripleError{Field: "id", Value: t.ID, Reason: "must not contain spaces or line breaks"}
	case strings.ContainsAny(t.ID1, " \n\r"):
		return &InvalidTripleError{Field: "id1", Value: t.ID1, Reason: "must not contain spaces or line breaks"}
	case strings.ContainsAny(t.ID2, "\n\r"):
		return &InvalidTripleError{Field: "id2", Value: t.ID2, Reason: "must not contain line breaks"}
	}
	return nil
}

// OtherHalf returns the endpoint opposite x. For a self-loop it returns x.
func (t Triple) OtherHalf(x string) (string, error) {
	switch x {
	case t.ID1:
		return t.ID2, nil
	case t.ID2:
		return t.ID1, nil
	}
	return "", &InvalidEndpointError{Triple: t, Endpoint: x}
}

// IsPairedWith reports whether x is one of the two endpoints.
func (t Triple) IsPairedWith(x string) bool {
	return x == t.ID1 || x == t.ID2
}

// IDs returns id, id1 and id2 in that order.
func (t Triple) IDs() [3]string {
	return [3]string{t.ID, t.ID1, t.ID2}
}

// Equal compares by ID only.
func (t Triple) Equal(other Triple) bool {
	return t.ID == other.ID
}

// Less orders triples by ID.
func (t Triple) Less(other Triple) bool {
	return t.ID < other.ID
}

// SameEndpoints reports whether both triples connect the same two endpoints
// in the same order. Unlike Equal it ignores the ID.
func (t Triple) SameEndpoints(other Triple) bool {
	return t.ID1 == other.ID1 && t.ID2 == other.ID2
}

// String implements fmt.Stringer using the line form.
func (t Triple) String() string {
	return t.FormatLine()
}
