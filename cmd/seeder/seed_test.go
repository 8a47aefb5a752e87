package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restohub/internal/app"
	"restohub/internal/domain"
	"restohub/internal/storage/memory"
)

type slowSeeder struct {
	inFlight, peak int32
	mu             sync.Mutex
	fail           map[string]bool
}

func (s *slowSeeder) SeedTenant(ctx context.Context, tenantID string, force bool) (bool, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	s.mu.Lock()
	if n > s.peak {
		s.peak = n
	}
	s.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	if s.fail[tenantID] {
		return false, errors.New("boom")
	}
	return true, nil
}

func TestSeedAll_BoundsConcurrencyAndCounts(t *testing.T) {
	s := &slowSeeder{fail: map[string]bool{"t3": true}}
	tenants := []string{"t1", "t2", "t3", "t4", "t5", "t6"}

	res := seedAll(context.Background(), s, tenants, 2, false)
	if res.Seeded != 5 || res.Failed != 1 || res.Skipped != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if s.peak > 2 {
		t.Fatalf("expected at most 2 concurrent seeds, saw %d", s.peak)
	}
}

func TestSeedAll_SkipsExisting(t *testing.T) {
	store := memory.New(memory.WithSeed("warung-1", domain.DefaultHomepage()))
	res := seedAll(context.Background(), app.NewSeedService(store), []string{"warung-1", "kopi-2"}, 4, false)
	if res.Seeded != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := store.Get(context.Background(), "kopi-2"); err != nil {
		t.Fatalf("kopi-2 not seeded: %v", err)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("dedupe = %v", got)
	}
}

func TestSeedAll_StopsWhenCancelled(t *testing.T) {
	s := &slowSeeder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := seedAll(ctx, s, []string{"t1", "t2", "t3"}, 1, false)
	if res.Seeded+res.Skipped+res.Failed != 0 {
		t.Fatalf("expected no work after cancellation, got %+v", res)
	}
}
