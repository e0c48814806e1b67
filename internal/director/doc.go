// Package director orchestrates triple operations for one active space.
//
// A Director owns a facade.Facade and exposes the steady-state operations
// (read a table, union-flatten several tables, create a hash-identified
// triple, clear a table) plus guest-space variants that run the same
// operation in another space.
//
// Guest-space operations go through InSpace, which sets the store's
// temporary space and defers the revert. The override therefore never
// outlives the call, whether fn returns normally, returns an error or
// panics.
//
// A Director is not safe for concurrent use. Serialize access externally,
// for example one Director per resource behind a mutex.
package director
