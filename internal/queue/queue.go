// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package queue implements the depth-ordered work queue that backs every
// pipeline phase.
//
// Items are bucketed by tree depth. Insertion and removal by handle are O(1);
// extraction of the shallowest or deepest item is O(1) amortized because the
// min/max depth bounds only ever move past buckets that have been emptied.
// There is no ordering guarantee between items at the same depth.
package queue

// Handle identifies one queued item. A handle is live from Push until the
// item is popped or removed; after that Queued reports false and the handle
// must not be reused.
type Handle[T any] struct {
	value T
	depth int
	index int
	owner *Queue[T]
}

// Value returns the item the handle was pushed with.
func (h *Handle[T]) Value() T {
	return h.value
}

// Depth returns the depth the item was queued at.
func (h *Handle[T]) Depth() int {
	return h.depth
}

// Queued reports whether the handle is still present in a queue.
func (h *Handle[T]) Queued() bool {
	return h != nil && h.owner != nil
}

// Queue is a priority queue keyed by non-negative tree depth.
//
// The zero value is an empty queue ready to use. Queue is not safe for
// concurrent use.
type Queue[T any] struct {
	buckets  [][]*Handle[T]
	length   int
	minDepth int
	maxDepth int
}

// New returns an empty queue with room for the given number of depths.
func New[T any](depthHint int) *Queue[T] {
	if depthHint < 0 {
		depthHint = 0
	}
	return &Queue[T]{buckets: make([][]*Handle[T], 0, depthHint)}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return q.length
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool {
	return q.length == 0
}

// MinDepth returns the smallest depth holding an item, or -1 when empty.
func (q *Queue[T]) MinDepth() int {
	if q.length == 0 {
		return -1
	}
	return q.minDepth
}

// MaxDepth returns the largest depth holding an item, or -1 when empty.
func (q *Queue[T]) MaxDepth() int {
	if q.length == 0 {
		return -1
	}
	return q.maxDepth
}

// Push queues v at depth and returns its handle. Negative depths are
// clamped to zero.
func (q *Queue[T]) Push(v T, depth int) *Handle[T] {
	if depth < 0 {
		depth = 0
	}
	for len(q.buckets) <= depth {
		q.buckets = append(q.buckets, nil)
	}
	h := &Handle[T]{value: v, depth: depth, index: len(q.buckets[depth]), owner: q}
	q.buckets[depth] = append(q.buckets[depth], h)

	if q.length == 0 {
		q.minDepth, q.maxDepth = depth, depth
	} else {
		q.minDepth = min(q.minDepth, depth)
		q.maxDepth = max(q.maxDepth, depth)
	}
	q.length++
	return h
}

// Remove takes h out of the queue. It reports false when h is nil, already
// removed, or belongs to another queue.
func (q *Queue[T]) Remove(h *Handle[T]) bool {
	if h == nil || h.owner != q {
		return false
	}
	bucket := q.buckets[h.depth]
	last := len(bucket) - 1
	if h.index != last {
		moved := bucket[last]
		bucket[h.index] = moved
		moved.index = h.index
	}
	bucket[last] = nil
	q.buckets[h.depth] = bucket[:last]
	h.owner = nil
	q.length--
	q.tighten()
	return true
}

// PopMin removes and returns an item at the smallest queued depth.
func (q *Queue[T]) PopMin() (T, bool) {
	if q.length == 0 {
		var zero T
		return zero, false
	}
	return q.popAt(q.minDepth), true
}

// PopMax removes and returns an item at the largest queued depth.
func (q *Queue[T]) PopMax() (T, bool) {
	if q.length == 0 {
		var zero T
		return zero, false
	}
	return q.popAt(q.maxDepth), true
}

// Contains reports whether h is live in this queue.
func (q *Queue[T]) Contains(h *Handle[T]) bool {
	return h != nil && h.owner == q
}

// Each calls fn for every queued item in ascending depth order.
func (q *Queue[T]) Each(fn func(v T, depth int)) {
	if q.length == 0 {
		return
	}
	for d := q.minDepth; d <= q.maxDepth; d++ {
		for _, h := range q.buckets[d] {
			fn(h.value, d)
		}
	}
}

func (q *Queue[T]) popAt(depth int) T {
	bucket := q.buckets[depth]
	h := bucket[len(bucket)-1]
	q.Remove(h)
	return h.value
}

// tighten moves the depth bounds inward past empty buckets.
func (q *Queue[T]) tighten() {
	if q.length == 0 {
		q.minDepth, q.maxDepth = 0, 0
		return
	}
	for len(q.buckets[q.minDepth]) == 0 {
		q.minDepth++
	}
	for len(q.buckets[q.maxDepth]) == 0 {
		q.maxDepth--
	}
}
