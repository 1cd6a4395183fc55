/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package core

import "maps"

// DefaultValue is what ValueTable.Get returns for a state that was never set.
const DefaultValue = 0.0

// ValueTable maps states to value estimates.
// Reads of absent states return DefaultValue rather than failing.
// Note: ValueTable is not thread-safe; a table is owned by a single solver run.
type ValueTable[S comparable] struct {
	values map[S]float64
}

// NewValueTable returns an empty table.
func NewValueTable[S comparable]() *ValueTable[S] {
	return &ValueTable[S]{values: make(map[S]float64)}
}

// NewValueTableWithCapacity returns an empty table sized for n states.
func NewValueTableWithCapacity[S comparable](n int) *ValueTable[S] {
	return &ValueTable[S]{values: make(map[S]float64, n)}
}

// Get returns the stored value for state, or DefaultValue if it was never set.
func (t *ValueTable[S]) Get(state S) float64 {
	if v, ok := t.values[state]; ok {
		return v
	}
	return DefaultValue
}

// Lookup returns the stored value and whether the state has been set.
func (t *ValueTable[S]) Lookup(state S) (float64, bool) {
	v, ok := t.values[state]
	return v, ok
}

// Set stores value for state.
func (t *ValueTable[S]) Set(state S, value float64) {
	t.values[state] = value
}

// Replace swaps in the contents of next, which must not be used afterwards.
func (t *ValueTable[S]) Replace(next *ValueTable[S]) {
	t.values = next.values
	next.values = make(map[S]float64)
}

// Len returns the number of states with a stored value.
func (t *ValueTable[S]) Len() int {
	return len(t.values)
}

// Snapshot returns a copy of all stored values.
func (t *ValueTable[S]) Snapshot() map[S]float64 {
	return maps.Clone(t.values)
}
