// Package harness runs scripted scenarios against a Director and compares
// their traces with golden files.
//
// A scenario is a YAML file listing steps (create, add, node, clear,
// triples, flatten, neighbors, select, except_decorated, new_space) and
// assertions on the final state. Each scenario runs against a fresh
// in-memory store, so runs are isolated and deterministic: triple ids are
// content hashes, and new space ids come from the scenario's space_ids list.
//
// Golden files live in testdata/golden/<scenario name>.golden. To
// regenerate them, run:
//
//	go test ./internal/harness -update
package harness
