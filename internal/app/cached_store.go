package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"restohub/internal/domain"
)

// CachedStore puts a read-through cache in front of a ContentStore.
// Writes go to the store first; the cache only ever holds what the store echoed.
type CachedStore struct {
	store    domain.ContentStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedStore(s domain.ContentStore, c domain.Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{store: s, cache: c, cacheTTL: ttl}
}

func homepageKey(tenantID string) string { return "homepage:" + tenantID }

func (s *CachedStore) Get(ctx context.Context, tenantID string) (domain.HomepageConfig, error) {
	key := homepageKey(tenantID)
	var cfg domain.HomepageConfig
	ok, err := s.cache.Get(ctx, key, &cfg)
	switch {
	case err != nil:
		// an entry we cannot fully decode is never served; the store has the truth
		log.Warn().Err(err).Str("tenant", tenantID).Msg("dropping unreadable homepage cache entry")
		_ = s.cache.Del(ctx, key)
	case ok:
		return cfg, nil
	}
	cfg, err = s.store.Get(ctx, tenantID)
	if err != nil {
		return domain.HomepageConfig{}, err
	}
	_ = s.cache.Set(ctx, key, cfg, int(s.cacheTTL.Seconds()))
	return cfg, nil
}

func (s *CachedStore) Replace(ctx context.Context, tenantID string, cfg domain.HomepageConfig) (domain.HomepageConfig, error) {
	key := homepageKey(tenantID)
	stored, err := s.store.Replace(ctx, tenantID, cfg)
	if err != nil {
		// the store may have moved on without us; drop whatever we hold
		_ = s.cache.Del(ctx, key)
		return domain.HomepageConfig{}, err
	}
	if err := s.cache.Set(ctx, key, stored, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("tenant", tenantID).Msg("homepage cache refresh failed")
		_ = s.cache.Del(ctx, key)
	}
	return stored, nil
}
