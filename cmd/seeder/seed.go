package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

type tenantSeeder interface {
	SeedTenant(ctx context.Context, tenantID string, force bool) (bool, error)
}

type result struct {
	Seeded, Skipped, Failed int
}

// seedAll runs at most workers seeds at a time and keeps going past failures.
func seedAll(ctx context.Context, s tenantSeeder, tenants []string, workers int, force bool) result {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		res result
	)

	for _, id := range tenants {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(tenantID string) {
			defer wg.Done()
			defer sem.Release(1)

			wrote, err := s.SeedTenant(ctx, tenantID, force)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				log.Warn().Str("tenant", tenantID).Err(err).Msg("seed failed")
			case wrote:
				res.Seeded++
				log.Info().Str("tenant", tenantID).Msg("seeded")
			default:
				res.Skipped++
				log.Debug().Str("tenant", tenantID).Msg("already has a homepage")
			}
		}(id)
	}

	wg.Wait()
	return res
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
