// Copyright (c) 2026 The locked-in Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockedin_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	lockedin "github.com/amirzarandi/locked-in"
)

func TestSPMCBasic(t *testing.T) {
	q := lockedin.NewSPMC[int](8)
	if q.Cap() != 8 {
		t.Fatalf("Cap: got %d, want 8", q.Cap())
	}
	if !q.Empty() {
		t.Fatal("freshly constructed queue should be empty")
	}

	p := q.GetProducer()
	c := q.GetConsumer()

	if _, err := c.Dequeue(); !errors.Is(err, lockedin.ErrWouldBlock) {
		t.Fatalf("Dequeue before any push: got %v, want ErrWouldBlock", err)
	}

	for i := range 5 {
		v := i
		if err := p.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := range 5 {
		got, err := c.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if got != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, got, i)
		}
	}
	if _, err := c.Dequeue(); !errors.Is(err, lockedin.ErrWouldBlock) {
		t.Fatalf("Dequeue once caught up: got %v, want ErrWouldBlock", err)
	}
}

func TestSPMCInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, 1, 3, 5, 6, 7} {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatalf("expected panic for capacity %d", c)
				}
			}()
			lockedin.NewSPMC[int](c)
		})
	}
}

func TestSPMCValidCapacity(t *testing.T) {
	for _, c := range []int{2, 4, 8, 16, 1024} {
		q := lockedin.NewSPMC[int](c)
		if q.Cap() != c {
			t.Fatalf("Cap(%d): got %d", c, q.Cap())
		}
	}
}

// TestSPMCBroadcastEquality: two consumers started before any push,
// draining an N-item sequence without overlap, each observe exactly
// 0, 1, ..., N-1.
func TestSPMCBroadcastEquality(t *testing.T) {
	if lockedin.RaceEnabled {
		t.Skip("skip: relies on cross-variable happens-before the race detector cannot model")
	}

	const n = 32
	q := lockedin.NewSPMC[int](256)
	c1 := q.GetConsumer()
	c2 := q.GetConsumer()

	drain := func(c *lockedin.SPMCConsumer[int]) []int {
		got := make([]int, 0, n)
		backoff := iox.Backoff{}
		for len(got) < n {
			v, err := c.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			got = append(got, v)
		}
		return got
	}

	var wg sync.WaitGroup
	results := make([][]int, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0] = drain(c1) }()
	go func() { defer wg.Done(); results[1] = drain(c2) }()

	p := q.GetProducer()
	for i := range n {
		v := i
		if err := p.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
		time.Sleep(50 * time.Microsecond)
	}

	wg.Wait()
	for ci, got := range results {
		if len(got) != n {
			t.Fatalf("consumer %d: got %d items, want %d", ci, len(got), n)
		}
		for i, v := range got {
			if v != i {
				t.Fatalf("consumer %d item %d: got %d, want %d", ci, i, v, i)
			}
		}
	}
}

// TestSPMCOverlapDetection: capacity 8, push 17 items while a consumer
// never reads. That consumer's first pop must fail with
// *OverlappedError; a second consumer kept up throughout must observe
// all 17 items in order, undisturbed.
func TestSPMCOverlapDetection(t *testing.T) {
	const capacity = 8
	const pushes = 2*capacity + 1 // 17

	q := lockedin.NewSPMC[int](capacity)
	dormant := q.GetConsumer()
	keptUp := q.GetConsumer()

	p := q.GetProducer()

	got := make([]int, 0, pushes)
	for i := range pushes {
		v := i
		if err := p.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
		// the kept-up consumer drains immediately, so it never overlaps
		x, err := keptUp.Dequeue()
		if err != nil {
			t.Fatalf("keptUp.Dequeue(%d): %v", i, err)
		}
		got = append(got, x)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("keptUp item %d: got %d, want %d", i, v, i)
		}
	}

	_, err := dormant.Dequeue()
	var overlap *lockedin.OverlappedError
	if !errors.As(err, &overlap) {
		t.Fatalf("dormant.Dequeue: got %v, want *OverlappedError", err)
	}
}

// TestSPMCRespawn: after Overlapped, respawn then pop returns
// ErrWouldBlock if the producer has since stopped, or the live-edge
// value otherwise -- never the stale slot.
func TestSPMCRespawn(t *testing.T) {
	const capacity = 8
	const pushes = 2*capacity + 1

	q := lockedin.NewSPMC[int](capacity)
	dormant := q.GetConsumer()
	p := q.GetProducer()

	for i := range pushes {
		v := i
		if err := p.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	_, err := dormant.Dequeue()
	var overlap *lockedin.OverlappedError
	if !errors.As(err, &overlap) {
		t.Fatalf("Dequeue before respawn: got %v, want *OverlappedError", err)
	}

	dormant.Respawn()
	// the producer has stopped: no items past the live edge
	if _, err := dormant.Dequeue(); !errors.Is(err, lockedin.ErrWouldBlock) {
		t.Fatalf("Dequeue after respawn with no further pushes: got %v, want ErrWouldBlock", err)
	}

	v := 999
	if err := p.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	got, err := dormant.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue after respawn following a push: %v", err)
	}
	if got != 999 {
		t.Fatalf("got %d, want the live-edge value 999, not a stale slot", got)
	}
}
