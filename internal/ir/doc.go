// Package ir provides the foundational triple type for infospace.
//
// This package imports nothing internal. Every other package builds on
// ir.Triple, so it stays the bottom layer with no circular dependencies.
//
// Key design constraints:
//   - A triple is identified by its ID alone; equality and ordering ignore
//     the endpoints
//   - The line form is "<id> <id1> <id2>"; the first two spaces are
//     structural, so ID and ID1 never contain a space
//   - Triple IDs minted by this package are content-addressed (SHA-256 with
//     domain separation) so re-adding the same edge yields the same ID
package ir
