package domain

import "context"

// ContentStore owns the authoritative homepage document of every tenant.
// Replace is whole-document only; merging happens above this layer.
type ContentStore interface {
	// Get returns an independent copy, or ErrNotFound for a tenant never seeded.
	Get(ctx context.Context, tenantID string) (HomepageConfig, error)
	// Replace overwrites the document and echoes what is now stored.
	Replace(ctx context.Context, tenantID string, cfg HomepageConfig) (HomepageConfig, error)
}

// CatalogClient reaches the ordering service for data injected into sections.
type CatalogClient interface {
	MenuItems(ctx context.Context, tenantID string) ([]MenuItem, error)
	Recommendations(ctx context.Context, tenantID, userID string) ([]MenuItem, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
