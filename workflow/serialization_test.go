package workflow

import (
	"sync"
	"testing"
)

// NOTE: These tests are intentionally DB-free. They validate the intended sale
// posting semantics:
// - per-business serialization prevents two concurrent sales from both reading
//   pre-transition snapshots and both succeeding
// - a goat can only ever be sold once, regardless of interleaving
//
// Full DB integration behavior is covered by the sqlite-backed tests in this
// package; cross-instance locking needs MySQL + redis and is not exercised here.

type fakeSalePoster struct {
	muByBiz map[string]*sync.Mutex
	mu      sync.Mutex
	sold    map[string]bool
	posted  int
}

func newFakeSalePoster() *fakeSalePoster {
	return &fakeSalePoster{
		muByBiz: map[string]*sync.Mutex{},
		sold:    map[string]bool{},
	}
}

func (p *fakeSalePoster) sell(businessID, goatID string, fn func()) bool {
	// Serialize per business (utils.BusinessLock + AcquireBusinessPostingLock).
	p.mu.Lock()
	bm := p.muByBiz[businessID]
	if bm == nil {
		bm = &sync.Mutex{}
		p.muByBiz[businessID] = bm
	}
	p.mu.Unlock()

	bm.Lock()
	defer bm.Unlock()

	// Reject a second sale (the Active status check inside the lock).
	key := businessID + "|" + goatID
	p.mu.Lock()
	if p.sold[key] {
		p.mu.Unlock()
		return false
	}
	p.sold[key] = true
	p.mu.Unlock()

	fn()

	p.mu.Lock()
	p.posted++
	p.mu.Unlock()
	return true
}

func TestConcurrentSalesOfOneGoatPostOnce(t *testing.T) {
	p := newFakeSalePoster()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.sell("biz-1", "goat-1", func() {})
		}()
	}
	wg.Wait()

	if p.posted != 1 {
		t.Fatalf("expected exactly 1 posted sale, got %d", p.posted)
	}
}

func TestSalePostingDeterministicUnderConcurrency(t *testing.T) {
	for run := 0; run < 100; run++ {
		p := newFakeSalePoster()
		var wg sync.WaitGroup

		// same scenario, repeated concurrently
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.sell("biz-1", "goat-1", func() {})
				p.sell("biz-1", "goat-2", func() {})
				p.sell("biz-2", "goat-1", func() {})
				p.sell("biz-1", "goat-1", func() {}) // re-sell attempt
			}()
		}
		wg.Wait()

		if p.posted != 3 {
			t.Fatalf("run=%d expected 3 unique sales, got %d", run, p.posted)
		}
	}
}
