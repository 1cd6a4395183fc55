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

// Package pqueue is a min-priority queue with decrease-key, keyed by item.
// An item is held at most once; equal priorities pop in insertion order.
package pqueue

import (
	"container/heap"
)

// entry is something we manage in the heap.
type entry[T comparable] struct {
	item     T
	priority float64
	// seq is the insertion rank used to break priority ties.
	seq uint64
	// index is maintained by the heap.Interface methods and needed by Fix.
	index int
}

// entries implements heap.Interface.
type entries[T comparable] []*entry[T]

func (e entries[T]) Len() int { return len(e) }

func (e entries[T]) Less(i, j int) bool {
	if e[i].priority == e[j].priority {
		return e[i].seq < e[j].seq
	}
	return e[i].priority < e[j].priority
}

func (e entries[T]) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
	e[i].index = i
	e[j].index = j
}

func (e *entries[T]) Push(x any) {
	en := x.(*entry[T])
	en.index = len(*e)
	*e = append(*e, en)
}

func (e *entries[T]) Pop() any {
	old := *e
	n := len(old)
	en := old[n-1]
	old[n-1] = nil
	en.index = -1 // for safety
	*e = old[:n-1]
	return en
}

// PriorityQueue pops the item with the smallest priority first.
// It is not safe for concurrent use.
type PriorityQueue[T comparable] struct {
	heap    entries[T]
	byItem  map[T]*entry[T]
	nextSeq uint64
}

// New returns an empty queue.
func New[T comparable]() *PriorityQueue[T] {
	return &PriorityQueue[T]{
		heap:   entries[T]{},
		byItem: make(map[T]*entry[T]),
	}
}

// Push inserts item with the given priority. If item is already queued its
// priority is overwritten, whether or not the new one is smaller.
func (pq *PriorityQueue[T]) Push(item T, priority float64) {
	if en, ok := pq.byItem[item]; ok {
		en.priority = priority
		heap.Fix(&pq.heap, en.index)
		return
	}
	pq.insert(item, priority)
}

// Update inserts item if it is absent, or lowers its priority if the new one
// is strictly smaller. A worse or equal priority for a queued item is ignored.
// It reports whether the queue changed. A reprioritized item keeps its
// original insertion rank for tie-breaking.
func (pq *PriorityQueue[T]) Update(item T, priority float64) bool {
	en, ok := pq.byItem[item]
	if !ok {
		pq.insert(item, priority)
		return true
	}
	if en.priority <= priority {
		return false
	}
	en.priority = priority
	heap.Fix(&pq.heap, en.index)
	return true
}

// Pop removes and returns the item with the smallest priority.
// The boolean is false when the queue is empty.
func (pq *PriorityQueue[T]) Pop() (T, bool) {
	if len(pq.heap) == 0 {
		var zero T
		return zero, false
	}
	en := heap.Pop(&pq.heap).(*entry[T])
	delete(pq.byItem, en.item)
	return en.item, true
}

// Peek returns the item Pop would return, without removing it.
func (pq *PriorityQueue[T]) Peek() (T, float64, bool) {
	if len(pq.heap) == 0 {
		var zero T
		return zero, 0, false
	}
	en := pq.heap[0]
	return en.item, en.priority, true
}

// Len returns the number of queued items.
func (pq *PriorityQueue[T]) Len() int { return len(pq.heap) }

// IsEmpty reports whether the queue holds no items.
func (pq *PriorityQueue[T]) IsEmpty() bool { return len(pq.heap) == 0 }

// Priority returns the current priority of a queued item.
// The boolean is false when item is not queued.
func (pq *PriorityQueue[T]) Priority(item T) (float64, bool) {
	en, ok := pq.byItem[item]
	if !ok {
		return 0, false
	}
	return en.priority, true
}

func (pq *PriorityQueue[T]) insert(item T, priority float64) {
	en := &entry[T]{
		item:     item,
		priority: priority,
		seq:      pq.nextSeq,
	}
	pq.nextSeq++
	heap.Push(&pq.heap, en)
	pq.byItem[item] = en
}
