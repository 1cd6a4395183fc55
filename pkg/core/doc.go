// Package core provides the data structures shared by the value iteration solvers.
//
// This package contains:
//
//   - ValueTable: a state to value mapping whose absent entries read as 0
//
// A ValueTable is created fresh for every solver run and is owned by that run.
// Synchronous value iteration fills a second table per sweep and swaps it in
// with Replace; the cyclic and prioritized variants mutate a single table in place.
//
// Example usage:
//
//	values := core.NewValueTable[string]()
//	values.Get("A")      // 0, never set
//	values.Set("A", 1.5)
//	values.Get("A")      // 1.5
package core
