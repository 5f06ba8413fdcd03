// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSC is Dmitry Vyukov's bounded multi-producer single-consumer
// queue. Producers claim a cell by CASing head forward, then hand it
// to the consumer by releasing the cell's sequence number. Enqueue is
// lock-free, not wait-free: a producer only retries when another
// producer already claimed the cell it tried, so every retry means
// some other producer made progress. Dequeue is wait-free.
type MPSC[T any] struct {
	_        pad
	head     atomix.Uint64 // producers' claim counter, advanced by CAS
	_        pad
	tail     atomix.Uint64 // consumer's drain counter
	_        pad
	buffer   []mpscCell[T]
	mask     uint64
	capacity uint64
}

type mpscCell[T any] struct {
	seq   atomix.Uint64
	value T
	_     padShort
}

// NewMPSC creates an MPSC queue of the given capacity.
//
// Capacity must be a power of two and at least 2; otherwise NewMPSC
// panics with an *InvalidCapacityError.
func NewMPSC[T any](capacity int) *MPSC[T] {
	if !isPow2(capacity) {
		panic(&InvalidCapacityError{Capacity: capacity})
	}

	q := &MPSC[T]{
		buffer:   make([]mpscCell[T], capacity),
		mask:     uint64(capacity - 1),
		capacity: uint64(capacity),
	}
	for i := range q.buffer {
		q.buffer[i].seq.StoreRelaxed(uint64(i))
	}
	return q
}

// Enqueue adds elem to the queue. Safe for any number of concurrent
// producers. Returns ErrWouldBlock if the queue is full.
func (q *MPSC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	pos := q.head.LoadRelaxed()

	for {
		cell := &q.buffer[pos&q.mask]
		seq := cell.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		switch {
		case diff == 0:
			if q.head.CompareAndSwapAcqRel(pos, pos+1) {
				cell.value = *elem
				cell.seq.StoreRelease(pos + 1)
				return nil
			}
			pos = q.head.LoadRelaxed()
		case diff < 0:
			// the cell one lap ago still holds an unconsumed value
			return ErrWouldBlock
		default:
			// another producer already claimed this position
			pos = q.head.LoadRelaxed()
		}
		sw.Once()
	}
}

// Dequeue removes and returns the next element in claim order.
// Single-consumer only. Wait-free per invocation.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPSC[T]) Dequeue() (T, error) {
	pos := q.tail.LoadRelaxed()
	cell := &q.buffer[pos&q.mask]

	seq := cell.seq.LoadAcquire()
	diff := int64(seq) - int64(pos+1)
	if diff < 0 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := cell.value
	var zero T
	cell.value = zero
	cell.seq.StoreRelease(pos + q.capacity) // claimable again at the next lap
	q.tail.StoreRelaxed(pos + 1)
	return elem, nil
}

// Empty reports whether the queue appears empty.
func (q *MPSC[T]) Empty() bool {
	return q.Size() == 0
}

// Full reports whether the queue appears full.
func (q *MPSC[T]) Full() bool {
	return q.Size() >= int(q.capacity)
}

// Size returns the approximate number of unread elements. head and
// tail are unbounded counters, so this subtracts them directly rather
// than reasoning modulo capacity.
func (q *MPSC[T]) Size() int {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	return int(head - tail)
}

// Cap returns the queue's capacity.
func (q *MPSC[T]) Cap() int {
	return int(q.capacity)
}
