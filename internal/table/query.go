package table

import (
	"sort"
)

// NeighborsAsTable returns the rows incident to vertex, i.e. the rows where
// vertex is id1 or id2.
func (t *Table) NeighborsAsTable(vertex string) *Table {
	refs := New(WithPolicy(t.policy))
	for id, e := range t.rows {
		if e.id1 == vertex || e.id2 == vertex {
			refs.rows[id] = e
		}
	}
	return refs
}

// NeighborIDs returns the other endpoint of every incident edge, sorted.
// There is one entry per edge, so a vertex connected twice appears twice.
// vertex itself is never returned, not even for a self-loop.
func (t *Table) NeighborIDs(vertex string) []string {
	return t.NeighborsAsTable(vertex).EndpointsExcept(vertex)
}

// NeighborIDsExcept is NeighborIDs without the excluded neighbor.
func (t *Table) NeighborIDsExcept(vertex, excluded string) []string {
	return filterOut(t.NeighborIDs(vertex), excluded)
}

// NeighborTripleIDs returns the IDs of the edges incident to vertex.
func (t *Table) NeighborTripleIDs(vertex string) []string {
	return t.NeighborsAsTable(vertex).IDs()
}

// NeighborIDsWithTripleIDs pairs every incident edge ID with the neighbor it
// leads to. Use it when it matters which edge produced a neighbor, e.g. to
// check the edge for decorations. A self-loop maps to vertex itself.
func (t *Table) NeighborIDsWithTripleIDs(vertex string) map[string]string {
	result := make(map[string]string)
	for _, tr := range t.NeighborsAsTable(vertex).All() {
		// Every row here is incident to vertex, so OtherHalf cannot fail.
		other, err := tr.OtherHalf(vertex)
		if err != nil {
			continue
		}
		result[tr.ID] = other
	}
	return result
}

// HasNeighbor reports whether candidate is a neighbor of vertex.
func (t *Table) HasNeighbor(vertex, candidate string) bool {
	if vertex == candidate {
		// NeighborIDs never contains vertex itself.
		return false
	}
	for _, e := range t.rows {
		if (e.id1 == vertex && e.id2 == candidate) || (e.id2 == vertex && e.id1 == candidate) {
			return true
		}
	}
	return false
}

// NeighborsWithNeighbor returns the neighbors of vertex that themselves have
// secondHop as a neighbor: the vertices connected to vertex through a shared
// third vertex.
func (t *Table) NeighborsWithNeighbor(vertex, secondHop string) []string {
	var out []string
	for _, n := range t.NeighborIDs(vertex) {
		if t.HasNeighbor(n, secondHop) {
			out = append(out, n)
		}
	}
	return out
}

// NeighborsExceptDecorated returns the edges incident to vertex whose own
// edge ID is not paired with decoration. An edge e is decorated when some
// other row connects e's ID and decoration.
func (t *Table) NeighborsExceptDecorated(vertex, decoration string) *Table {
	out := New(WithPolicy(t.policy))
	for id, e := range t.NeighborsAsTable(vertex).rows {
		if t.HasNeighbor(id, decoration) {
			continue
		}
		out.rows[id] = e
	}
	return out
}

// NeighborsExceptDecoratedAndNot is NeighborsExceptDecorated without the
// edges paired with excludedEndpoint.
func (t *Table) NeighborsExceptDecoratedAndNot(vertex, decoration, excludedEndpoint string) *Table {
	out := t.NeighborsExceptDecorated(vertex, decoration)
	for id, e := range out.rows {
		if e.id1 == excludedEndpoint || e.id2 == excludedEndpoint {
			delete(out.rows, id)
		}
	}
	return out
}

func filterOut(values []string, excluded string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != excluded {
			out = append(out, v)
		}
	}
	return out
}

func sorted(values []string) []string {
	sort.Strings(values)
	return values
}
