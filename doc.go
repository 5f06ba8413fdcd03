// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lockedin provides bounded lock-free ring-buffer queues for
// inter-thread messaging in latency-sensitive contexts.
//
// Three concurrency shapes share a common non-blocking contract:
//
//   - SPSC: Single-Producer Single-Consumer, wait-free both sides.
//   - MPSC: Multi-Producer Single-Consumer, lock-free push, wait-free pop.
//   - SPMC: Single-Producer Multi-Consumer broadcast, wait-free both sides.
//
// # Quick Start
//
//	q := lockedin.NewSPSC[Event](1024)
//	q := lockedin.NewMPSC[Event](4096)
//	q := lockedin.NewSPMC[Event](1024)
//
// SPSC and MPSC push and pop directly on the queue value. SPMC is
// different: the queue itself never pushes or pops. It vends a
// producer handle and independent consumer handles, each of which
// observes the full stream on its own cursor:
//
//	bq := lockedin.NewSPMC[Event](1024)
//	producer := bq.GetProducer()
//	consumerA := bq.GetConsumer()
//	consumerB := bq.GetConsumer()
//
// # Pipeline Stage (SPSC)
//
//	q := lockedin.NewSPSC[Data](1024)
//
//	go func() { // producer
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // consumer
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// # Event Aggregation (MPSC)
//
//	q := lockedin.NewMPSC[Event](4096)
//
//	for sensor := range slices.Values(sensors) {
//	    go func(s Sensor) {
//	        for ev := range s.Events() {
//	            q.Enqueue(&ev)
//	        }
//	    }(sensor)
//	}
//
//	go func() {
//	    for {
//	        ev, err := q.Dequeue()
//	        if err == nil {
//	            aggregate(ev)
//	        }
//	    }
//	}()
//
// # Broadcast Fan-out (SPMC)
//
// Every consumer handle observes every produced item, in production
// order. A consumer that falls a full lap behind the producer is
// overlapped: its Dequeue returns an *OverlappedError instead of
// silently skipping ahead, and the handle stays unusable until Respawn
// jumps it to the live edge. While the lag is an exact multiple of the
// capacity, Dequeue returns ErrWouldBlock as if caught up; the overlap
// is reported after the producer's next push.
//
//	bq := lockedin.NewSPMC[Tick](1024)
//	producer := bq.GetProducer()
//
//	go func() {
//	    for tick := range ticks {
//	        producer.Enqueue(&tick) // never fails
//	    }
//	}()
//
//	for range numSubscribers {
//	    go func() {
//	        consumer := bq.GetConsumer()
//	        for {
//	            tick, err := consumer.Dequeue()
//	            switch {
//	            case err == nil:
//	                handle(tick)
//	            case lockedin.IsWouldBlock(err):
//	                // caught up, nothing new yet
//	            default:
//	                var overlapped *lockedin.OverlappedError
//	                if errors.As(err, &overlapped) {
//	                    consumer.Respawn() // jump to the live edge
//	                }
//	            }
//	        }
//	    }()
//	}
//
// # Error Handling
//
// Enqueue and Dequeue return [ErrWouldBlock] when they cannot proceed.
// It is a control-flow signal, not a failure — retry with backoff
// rather than propagating it.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !lockedin.IsWouldBlock(err) {
//	        return err // unexpected
//	    }
//	    backoff.Wait()
//	}
//
// # Capacity
//
// Capacity must be a power of two and at least 2. Unlike a generic
// resizable queue, it is validated rather than rounded: constructing
// any queue with an invalid capacity panics with an
// [*InvalidCapacityError] before any other goroutine can observe the
// half-built queue.
//
// SPSC's effective capacity — the maximum number of elements it can
// hold before Enqueue returns [ErrWouldBlock] — is Cap()-1. One slot
// is deliberately left unused so the full and empty states remain
// distinguishable without a separate counter. MPSC and SPMC use the
// full requested capacity.
//
// # Thread Safety
//
//   - SPSC: one producer goroutine, one consumer goroutine.
//   - MPSC: many producer goroutines, one consumer goroutine.
//   - SPMC: one producer handle used by one goroutine; any number of
//     consumer handles, each used by at most one goroutine at a time.
//
// Violating these constraints causes undefined behavior, including
// data corruption and races.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established purely
// through atomic loads and stores on separate variables. These queues
// protect non-atomic payload fields with acquire/release pairs on
// cursors, which is correct but invisible to the detector. Tests that
// would produce false positives under it are excluded via
// //go:build !race; see [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering; MPSC additionally uses [code.hybscloud.com/spin]
// for its producer CAS retry loop.
package lockedin
