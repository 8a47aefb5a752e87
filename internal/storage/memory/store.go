// Package memory is an in-process ContentStore, used in development and as
// the mock collaborator in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"restohub/internal/domain"
)

type Option func(*Store)

// WithConflictCheck makes Replace reject documents whose version is not the stored one.
func WithConflictCheck() Option { return func(s *Store) { s.strict = true } }

// WithSeed pre-populates a tenant.
func WithSeed(tenantID string, cfg domain.HomepageConfig) Option {
	return func(s *Store) { s.docs[tenantID] = cfg.Clone() }
}

type Store struct {
	mu     sync.RWMutex
	docs   map[string]domain.HomepageConfig
	strict bool
}

func New(opts ...Option) *Store {
	s := &Store{docs: map[string]domain.HomepageConfig{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, tenantID string) (domain.HomepageConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.HomepageConfig{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.docs[tenantID]
	if !ok {
		return domain.HomepageConfig{}, fmt.Errorf("tenant %q: %w", tenantID, domain.ErrNotFound)
	}
	return cfg.Clone(), nil
}

func (s *Store) Replace(ctx context.Context, tenantID string, cfg domain.HomepageConfig) (domain.HomepageConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.HomepageConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.HomepageConfig{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, exists := s.docs[tenantID]
	if s.strict && exists && cur.Version != cfg.Version {
		return domain.HomepageConfig{}, fmt.Errorf("%w: have %d, got %d", domain.ErrVersionConflict, cur.Version, cfg.Version)
	}
	stored := cfg.Clone()
	stored.Version = cur.Version + 1
	s.docs[tenantID] = stored
	return stored.Clone(), nil
}

// Tenants lists seeded tenant ids.
func (s *Store) Tenants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.docs))
	for id := range s.docs {
		out = append(out, id)
	}
	return out
}
