package id

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testClock returns a generator pinned to a controllable millisecond clock.
func testClock(startMs int64) (*Generator, *atomic.Int64) {
	var clock atomic.Int64
	clock.Store(startMs)
	g := NewGenerator()
	g.now = clock.Load
	return g, &clock
}

func TestNextIncreasesWithinMillisecond(t *testing.T) {
	g, _ := testClock(1000)
	a := g.Next()
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("ids not increasing: %s, %s", a, b)
	}
}

func TestNextIncreasesAcrossMilliseconds(t *testing.T) {
	g, clock := testClock(1000)
	a := g.Next()
	clock.Store(1001)
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("ids not increasing: %s, %s", a, b)
	}
	if got := b.Time().UnixMilli(); got != 1001 {
		t.Fatalf("embedded time = %d, want 1001", got)
	}
}

func TestBackwardsClockKeepsOrdering(t *testing.T) {
	g, clock := testClock(1000)
	a := g.Next()
	clock.Store(400)
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("clock regression broke ordering: %s, %s", a, b)
	}
	if got := b.Time().UnixMilli(); got != 1000 {
		t.Fatalf("regressed id should keep the pinned ms, got %d", got)
	}
}

func TestCounterExhaustionWaitsForClock(t *testing.T) {
	g, clock := testClock(2000)
	g.ms, g.seq = 2000, math.MaxUint64

	done := make(chan ID, 1)
	go func() { done <- g.Next() }()

	time.Sleep(5 * time.Millisecond)
	clock.Store(2001)

	select {
	case id := <-done:
		if got := id.Time().UnixMilli(); got != 2001 {
			t.Fatalf("expected rollover into next ms, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Next did not roll over after counter exhaustion")
	}
}

func TestStringIsHex(t *testing.T) {
	g, _ := testClock(0x1234)
	s := g.Next().String()
	if len(s) != 32 {
		t.Fatalf("len = %d, want 32", len(s))
	}
	if s[:16] != "0000000000001234" {
		t.Fatalf("timestamp half = %q", s[:16])
	}
}

func TestConcurrentNextIsUnique(t *testing.T) {
	g := NewGenerator()
	const workers, each = 4, 500

	var mu sync.Mutex
	seen := make(map[ID]bool, workers*each)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				id := g.Next()
				mu.Lock()
				if seen[id] {
					mu.Unlock()
					t.Errorf("duplicate id %s", id)
					return
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
