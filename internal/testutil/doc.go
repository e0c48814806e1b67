// Package testutil provides deterministic helpers shared by package tests:
// fixed space-id generators, table builders and in-memory facades.
package testutil
