// Package table provides the in-memory triple table and its graph queries.
//
// A Table maps triple IDs to their (id1, id2) endpoints. Because an edge's ID
// can itself be used as an endpoint of another edge, a table is a
// self-referential graph: attaching metadata to an edge ("decorating" it) is
// just adding a second edge whose id1 or id2 is the first edge's ID.
//
// All queries are linear scans over the rows. The backing map has no order,
// so every returned slice is sorted ascending.
//
// A Table is not safe for concurrent use.
package table
