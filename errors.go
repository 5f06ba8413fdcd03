// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates that Enqueue or Dequeue cannot proceed
// immediately: the queue is full (Enqueue) or empty (Dequeue).
//
// ErrWouldBlock is a control-flow signal, not a failure. Callers
// should retry with backoff rather than propagate it.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would
// block. Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsNonFailure reports whether err represents a non-failure control
// flow signal. Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// InvalidCapacityError reports that a queue constructor was called
// with a capacity smaller than 2 or that is not a power of two.
// Constructors deliver it by panicking, before any other goroutine
// can observe the half-built queue.
type InvalidCapacityError struct {
	Capacity int
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("lockedin: capacity %d must be a power of two and >= 2", e.Capacity)
}

// OverlappedError is returned by an SPMC consumer handle's Dequeue
// when the producer has lapped it: production overwrote the slot the
// consumer was about to read before the consumer got to it. Index is
// the stale ring position the consumer observed. The handle does not
// advance and is unusable until Respawn.
type OverlappedError struct {
	Index uint64
}

func (e *OverlappedError) Error() string {
	return fmt.Sprintf("lockedin: consumer overlapped at index %d", e.Index)
}
