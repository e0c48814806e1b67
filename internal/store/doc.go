// Package store provides durable storage for namespace-scoped triple tables.
//
// Every backend implements Store: an append-only line store addressed by
// (effective space, table name) with a substring-based selection primitive.
// A stored table is plain text, one "<id> <id1> <id2>" line per triple, LF
// terminated. Tables are created lazily on first read or write.
//
// # Backends
//
//   - FileStore: one text file per table under <root>/spaces/<space>/info_tables/
//   - MemStore: in-memory double with identical semantics, for tests
//   - SQLiteStore: lines kept in SQLite, ordered by an autoincrement seq
//   - BadgerStore: lines kept in an embedded BadgerDB under per-table key prefixes
//
// # Spaces
//
// A store is opened on an organic space. SetTemporarySpace redirects all
// operations to another space until RevertSpace is called. Prefer UseSpace,
// which returns the release function so callers can defer it.
//
// # Concurrency
//
// Stores are not safe for concurrent use. The space override is plain
// mutable state, and the file backend has no locking: concurrent writers to
// the same (space, table) may interleave lines arbitrarily. Callers that
// need concurrency must serialize access themselves, e.g. one Director per
// resource behind a mutex.
//
// # Selection
//
// Select keeps the lines whose endpoint portion (everything after the first
// field) contains the requested id. MatchSubstring is the compatible
// default; it over-matches when one id is a substring of another.
// MatchToken compares id1 and id2 exactly.
package store
