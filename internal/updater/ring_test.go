package updater

import (
	"fmt"
	"testing"

	"patch-router/internal/patch"
)

func TestRingFIFO(t *testing.T) {
	r := newRing(8)
	for i := 0; i < 5; i++ {
		if !r.push(patch.PathUpdate{ConnectionID: i}) {
			t.Fatalf("push %d failed", i)
		}
	}
	if got := r.len(); got != 5 {
		t.Errorf("len = %d, want 5", got)
	}
	for i := 0; i < 5; i++ {
		u, ok := r.pop()
		if !ok || u.ConnectionID != i {
			t.Fatalf("pop %d = %+v, %v", i, u, ok)
		}
	}
	if _, ok := r.pop(); ok {
		t.Error("pop on empty ring succeeded")
	}
}

func TestRingFullRejectsWithoutBlocking(t *testing.T) {
	r := newRing(4)
	for i := 0; i < 4; i++ {
		if !r.push(patch.PathUpdate{ConnectionID: i}) {
			t.Fatalf("push %d failed before capacity", i)
		}
	}
	if r.push(patch.PathUpdate{ConnectionID: 99}) {
		t.Error("push on full ring should return false")
	}
	// Draining one slot makes room again.
	if _, ok := r.pop(); !ok {
		t.Fatal("pop failed")
	}
	if !r.push(patch.PathUpdate{ConnectionID: 4}) {
		t.Error("push after drain should succeed")
	}
}

func TestRingCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := newRing(5)
	for i := 0; i < 8; i++ {
		if !r.push(patch.PathUpdate{ConnectionID: i}) {
			t.Fatalf("push %d failed; capacity should round up to 8", i)
		}
	}
	if r.push(patch.PathUpdate{ConnectionID: 8}) {
		t.Error("ninth push should fail")
	}

	tiny := newRing(0)
	if !tiny.push(patch.PathUpdate{}) || !tiny.push(patch.PathUpdate{}) {
		t.Error("minimum capacity should be 2")
	}
}

func TestRingWraparound(t *testing.T) {
	r := newRing(4)
	next := 0
	// Push/pop more than the capacity so the indices wrap the mask.
	for cycle := 0; cycle < 10; cycle++ {
		for i := 0; i < 3; i++ {
			if !r.push(patch.PathUpdate{ConnectionID: next + i, Token: fmt.Sprintf("t%d", next+i)}) {
				t.Fatalf("push %d failed", next+i)
			}
		}
		for i := 0; i < 3; i++ {
			u, ok := r.pop()
			if !ok || u.ConnectionID != next+i {
				t.Fatalf("cycle %d: pop = %+v, %v; want id %d", cycle, u, ok, next+i)
			}
		}
		next += 3
	}
	if got := r.len(); got != 0 {
		t.Errorf("len = %d, want 0 after balanced cycles", got)
	}
}

func TestRingConcurrentSPSC(t *testing.T) {
	r := newRing(64)
	const n = 10000

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			for !r.push(patch.PathUpdate{ConnectionID: i}) {
				// Ring full: spin until the consumer catches up.
			}
		}
	}()

	received := 0
	expect := 0
	for received < n {
		u, ok := r.pop()
		if !ok {
			continue
		}
		if u.ConnectionID != expect {
			t.Fatalf("out of order: got %d, want %d", u.ConnectionID, expect)
		}
		expect++
		received++
	}
	<-done
}
