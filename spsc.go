// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

import "code.hybscloud.com/atomix"

// SPSC is a single-producer single-consumer bounded queue: Lamport's
// ring buffer with one slot deliberately left unused so the full and
// empty states remain distinguishable without a separate counter.
// Effective capacity is Cap()-1.
//
// Enqueue must be called by exactly one goroutine, Dequeue by exactly
// one (possibly different) goroutine. Both are wait-free: neither
// spins, retries, or allocates.
type SPSC[T any] struct {
	_        pad
	writeIdx atomix.Uint64 // producer-owned
	_        pad
	readIdx  atomix.Uint64 // consumer-owned
	_        pad
	buffer   []T
	mask     uint64
}

// NewSPSC creates an SPSC queue of the given capacity.
//
// Capacity must be a power of two and at least 2; otherwise NewSPSC
// panics with an *InvalidCapacityError.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if !isPow2(capacity) {
		panic(&InvalidCapacityError{Capacity: capacity})
	}
	return &SPSC[T]{
		buffer: make([]T, capacity),
		mask:   uint64(capacity - 1),
	}
}

// Enqueue adds elem to the queue. Producer-only.
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	w := q.writeIdx.LoadRelaxed()
	r := q.readIdx.LoadAcquire()

	wNext := (w + 1) & q.mask
	if wNext == r {
		return ErrWouldBlock
	}

	q.buffer[w] = *elem
	q.writeIdx.StoreRelease(wNext)
	return nil
}

// Dequeue removes and returns the oldest element. Consumer-only.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	r := q.readIdx.LoadRelaxed()
	w := q.writeIdx.LoadAcquire()

	if r == w {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := q.buffer[r]
	var zero T
	q.buffer[r] = zero // let the GC reclaim whatever elem referenced
	q.readIdx.StoreRelease((r + 1) & q.mask)
	return elem, nil
}

// Empty reports whether the queue appears to hold no elements.
func (q *SPSC[T]) Empty() bool {
	return q.readIdx.LoadRelaxed() == q.writeIdx.LoadRelaxed()
}

// Full reports whether the queue appears full.
func (q *SPSC[T]) Full() bool {
	w := q.writeIdx.LoadRelaxed()
	r := q.readIdx.LoadRelaxed()
	return (w+1)&q.mask == r
}

// Size returns the approximate number of unread elements.
func (q *SPSC[T]) Size() int {
	w := q.writeIdx.LoadRelaxed()
	r := q.readIdx.LoadRelaxed()
	return int((w - r) & q.mask)
}

// Cap returns the queue's capacity. Effective usable capacity is
// Cap()-1.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}
