// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

import "code.hybscloud.com/atomix"

// SPMC is a single-producer multi-consumer broadcast ring: one writer
// publishes a stream, and every consumer handle observes the full
// stream independently, in production order. Consumers do not compete
// for slots the way a work-distribution queue's readers would — each
// tracks its own position and detects, rather than silently skips
// past, the case where the producer has overwritten a slot before the
// consumer got to it.
//
// The queue itself never pushes or pops. Use GetProducer and
// GetConsumer to obtain handles bound to this queue; the queue must
// outlive every handle derived from it.
type SPMC[T any] struct {
	_        pad
	writeIdx atomix.Uint64 // published index; consumers acquire-load it
	_        pad
	version  atomix.Uint32 // lap counter for the slot about to be written next
	_        pad
	buffer   []spmcEntry[T]
	mask     uint64
	capacity uint64
}

// spmcEntry is a published item and the lap it was written during.
// version is plain (non-atomic): it is protected by the happens-before
// relationship the producer's release-store of writeIdx establishes
// with a consumer's acquire-load of the same, exactly like the entry's
// data field.
type spmcEntry[T any] struct {
	data    T
	version uint32
}

// NewSPMC creates an SPMC broadcast queue of the given capacity.
//
// Capacity must be a power of two and at least 2; otherwise NewSPMC
// panics with an *InvalidCapacityError.
func NewSPMC[T any](capacity int) *SPMC[T] {
	if !isPow2(capacity) {
		panic(&InvalidCapacityError{Capacity: capacity})
	}
	return &SPMC[T]{
		buffer:   make([]spmcEntry[T], capacity),
		mask:     uint64(capacity - 1),
		capacity: uint64(capacity),
	}
}

// GetProducer returns a producer handle bound to this queue. Only one
// producer handle should be actively used at a time — SPMC assumes a
// single writer; nothing prevents obtaining multiple handles, but
// pushing from more than one concurrently corrupts the stream.
func (q *SPMC[T]) GetProducer() *SPMCProducer[T] {
	return &SPMCProducer[T]{q: q}
}

// GetConsumer returns a new consumer handle bound to this queue,
// positioned at the very start of the stream (localReadIdx=0,
// localVersion=0) — not at the producer's current live edge. A
// consumer created against a queue that has already produced more
// than one full lap of items sees its very first Dequeue report
// *OverlappedError, same as any consumer the producer has overwritten.
// When the producer's write index is back at slot 0 (a whole number of
// laps produced), that first Dequeue returns ErrWouldBlock instead,
// and the overlap is reported once the producer writes slot 0 again.
// Call Respawn to jump to the live edge instead.
func (q *SPMC[T]) GetConsumer() *SPMCConsumer[T] {
	return &SPMCConsumer[T]{q: q}
}

// Cap returns the queue's capacity.
func (q *SPMC[T]) Cap() int {
	return int(q.capacity)
}

// Empty reports whether the producer has ever published anything.
// Advisory: each consumer has its own position, so "empty" from a
// particular consumer's viewpoint may differ.
func (q *SPMC[T]) Empty() bool {
	return q.writeIdx.LoadRelaxed() == 0 && q.version.LoadRelaxed() == 0
}

// Full always reports false: the producer never blocks on a full
// buffer, it overwrites the oldest slot once every consumer that
// hasn't kept up has been lapped. Kept for interface symmetry with
// SPSC/MPSC; see the design notes on why the source's full() is
// definitionally useless here.
func (q *SPMC[T]) Full() bool {
	return false
}

// Size returns the approximate number of valid entries currently held
// in the ring, counting back from the live edge. Before the producer
// has completed its first lap this is the number of items published
// so far; after that the ring always holds exactly Cap() of the most
// recent items.
func (q *SPMC[T]) Size() int {
	if q.version.LoadRelaxed() == 0 {
		return int(q.writeIdx.LoadRelaxed())
	}
	return int(q.capacity)
}

// SPMCProducer is the single-writer side of an SPMC queue. A producer
// handle must be used by at most one goroutine at a time.
type SPMCProducer[T any] struct {
	_             pad
	localWriteIdx uint64
	localVersion  uint32
	_             pad
	q             *SPMC[T]
}

// Enqueue publishes elem. Push never reports failure: once the
// producer has lapped every consumer that hasn't kept up, it simply
// overwrites the oldest slot and those consumers discover the loss on
// their next Dequeue as an *OverlappedError.
func (p *SPMCProducer[T]) Enqueue(elem *T) error {
	q := p.q
	w := p.localWriteIdx
	v := p.localVersion

	wNextUnwrapped := w + 1
	vNext := v
	if wNextUnwrapped == q.capacity {
		vNext++
	}
	wNext := wNextUnwrapped & q.mask

	// Write the entry, then publish. The source this algorithm is
	// distilled from stores the new index twice — once before writing
	// the entry, once after — which lets a consumer observe a slot
	// whose version already matches but whose data is only partially
	// written. Writing first and publishing once avoids that torn read.
	q.buffer[w] = spmcEntry[T]{data: *elem, version: v}
	q.version.StoreRelaxed(vNext)
	q.writeIdx.StoreRelease(wNext)

	p.localWriteIdx = wNext
	p.localVersion = vNext
	return nil
}

// SPMCConsumer is one independent reader of an SPMC queue's stream. A
// consumer handle must be used by at most one goroutine at a time;
// handles obtained from the same queue may run on different goroutines
// concurrently without interfering with one another.
type SPMCConsumer[T any] struct {
	_            pad
	localReadIdx uint64
	localVersion uint32
	_            pad
	q            *SPMC[T]
}

// Dequeue returns the next item in production order.
//
// Returns ErrWouldBlock if this consumer's read index equals the
// producer's write index: it has caught up, or it trails by a whole
// number of laps, in which case the overlap is reported once the
// producer writes that slot again. Returns an *OverlappedError if the
// producer has
// overwritten the slot this consumer was about to read; the handle
// does not advance in that case and stays unusable until Respawn.
func (c *SPMCConsumer[T]) Dequeue() (T, error) {
	q := c.q
	r := c.localReadIdx
	cv := c.localVersion

	w := q.writeIdx.LoadAcquire()
	if r == w {
		var zero T
		return zero, ErrWouldBlock
	}

	entry := q.buffer[r]
	if entry.version != cv {
		var zero T
		return zero, &OverlappedError{Index: r}
	}

	// Copy, not move: other consumers still need this slot.
	data := entry.data

	rNextUnwrapped := r + 1
	vNext := cv
	if rNextUnwrapped == q.capacity {
		vNext++
	}
	c.localReadIdx = rNextUnwrapped & q.mask
	c.localVersion = vNext

	return data, nil
}

// Respawn resynchronizes the consumer to the producer's current live
// edge, leaving it Healthy again. Items produced during the lap this
// consumer missed are lost by design — it jumps forward, it never
// replays the stale slot.
func (c *SPMCConsumer[T]) Respawn() {
	q := c.q
	w := q.writeIdx.LoadAcquire()
	v := q.version.LoadRelaxed() // safe: synchronized by the acquire above
	c.localReadIdx = w
	c.localVersion = v
}
