package table

// Values returns id, id1 and id2 of every row, sorted.
//
// Example: rows "id3 id1 id2" and "id6 id4 id5" give
// [id1 id2 id3 id4 id5 id6].
func (t *Table) Values() []string {
	out := make([]string, 0, 3*len(t.rows))
	for id, e := range t.rows {
		out = append(out, id, e.id1, e.id2)
	}
	return sorted(out)
}

// Endpoints returns id1 and id2 of every row, sorted. These are the IDs the
// rows refer to, as opposed to the rows' own IDs.
func (t *Table) Endpoints() []string {
	out := make([]string, 0, 2*len(t.rows))
	for _, e := range t.rows {
		out = append(out, e.id1, e.id2)
	}
	return sorted(out)
}

// EndpointsExcept is Endpoints with every occurrence of except removed.
func (t *Table) EndpointsExcept(except string) []string {
	return filterOut(t.Endpoints(), except)
}

// IDs returns the triple IDs, sorted.
func (t *Table) IDs() []string {
	out := make([]string, 0, len(t.rows))
	for id := range t.rows {
		out = append(out, id)
	}
	return sorted(out)
}
