// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

// Queue is the push/pop contract shared by SPSC and MPSC: both let any
// caller enqueue and dequeue directly on the queue value.
//
// SPMC does not implement Queue. Its consumers do not share a single
// drain cursor, so the queue instead vends independent handles — see
// SPMC.GetProducer and SPMC.GetConsumer.
//
// This mirrors the compile-time contract check the library this was
// distilled from enforces with a C++ concept: every concrete queue
// must satisfy the same operation set. Go expresses that as an
// ordinary interface; the var _ assertions below pin each concrete
// type to it at compile time rather than at first use.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Emptier
	Fuller
	Sizer
	Capper
}

// Producer enqueues elements (non-blocking).
type Producer[T any] interface {
	// Enqueue adds elem to the queue. The queue stores a copy of the
	// pointed-to value; the caller may reuse elem's memory once
	// Enqueue returns. Returns ErrWouldBlock if the queue is full.
	Enqueue(elem *T) error
}

// Consumer dequeues elements (non-blocking).
type Consumer[T any] interface {
	// Dequeue removes and returns the next element. Returns
	// (zero-value, ErrWouldBlock) if no element is available.
	Dequeue() (T, error)
}

// Emptier reports an advisory emptiness check.
type Emptier interface {
	// Empty reports whether the queue appears empty. The result may
	// be stale by the time the caller acts on it; it is for
	// diagnostics, not correctness decisions.
	Empty() bool
}

// Fuller reports an advisory fullness check. Same staleness caveat as
// Emptier.
type Fuller interface {
	Full() bool
}

// Sizer reports an advisory count of unread elements.
type Sizer interface {
	Size() int
}

// Capper reports a queue's fixed capacity.
type Capper interface {
	// Cap returns the capacity passed at construction. Unlike some
	// ring buffer libraries, this package never rounds capacity up —
	// construction panics instead if it isn't already a power of two.
	Cap() int
}

var (
	_ Queue[int]    = (*SPSC[int])(nil)
	_ Queue[int]    = (*MPSC[int])(nil)
	_ Producer[int] = (*SPMCProducer[int])(nil)
	_ Consumer[int] = (*SPMCConsumer[int])(nil)
)
