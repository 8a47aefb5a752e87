package app

import (
	"context"
	"errors"

	"restohub/internal/domain"
)

type SeedService struct {
	store domain.ContentStore
}

func NewSeedService(s domain.ContentStore) *SeedService {
	return &SeedService{store: s}
}

// SeedTenant writes DefaultHomepage for a tenant that has no document yet.
// With force it overwrites an existing one. It reports whether it wrote.
func (s *SeedService) SeedTenant(ctx context.Context, tenantID string, force bool) (bool, error) {
	cur, err := s.store.Get(ctx, tenantID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_, err = s.store.Replace(ctx, tenantID, domain.DefaultHomepage())
		return err == nil, err
	case err != nil:
		return false, err
	case !force:
		return false, nil
	}
	def := domain.DefaultHomepage()
	def.Version = cur.Version
	if _, err := s.store.Replace(ctx, tenantID, def); err != nil {
		return false, err
	}
	return true, nil
}
