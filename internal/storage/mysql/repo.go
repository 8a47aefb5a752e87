package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"restohub/internal/domain"
)

// Repo stores one JSON homepage document per tenant.
type Repo struct {
	db     *sql.DB
	strict bool
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// WithConflictCheck makes Replace reject stale versions instead of overwriting.
func (r *Repo) WithConflictCheck() *Repo {
	return &Repo{db: r.db, strict: true}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

func (r *Repo) Get(ctx context.Context, tenantID string) (domain.HomepageConfig, error) {
	var (
		version int64
		doc     []byte
	)
	err := r.db.QueryRowContext(ctx, getHomepageSQL, tenantID).Scan(&version, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HomepageConfig{}, fmt.Errorf("tenant %q: %w", tenantID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.HomepageConfig{}, unavailable("get", err)
	}

	var cfg domain.HomepageConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return domain.HomepageConfig{}, fmt.Errorf("tenant %q: decode stored homepage: %w", tenantID, err)
	}
	// the column is authoritative, not the copy inside the JSON
	cfg.Version = version
	return cfg, nil
}

func (r *Repo) Replace(ctx context.Context, tenantID string, cfg domain.HomepageConfig) (domain.HomepageConfig, error) {
	if err := cfg.Validate(); err != nil {
		return domain.HomepageConfig{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.HomepageConfig{}, unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cur int64
	switch err := tx.QueryRowContext(ctx, selectVersionForUpdateSQL, tenantID).Scan(&cur); {
	case errors.Is(err, sql.ErrNoRows):
		cur = 0
	case err != nil:
		return domain.HomepageConfig{}, unavailable("lock", err)
	case r.strict && cur != cfg.Version:
		return domain.HomepageConfig{}, fmt.Errorf("%w: have %d, got %d", domain.ErrVersionConflict, cur, cfg.Version)
	}

	stored := cfg.Clone()
	stored.Version = cur + 1
	doc, err := json.Marshal(stored)
	if err != nil {
		return domain.HomepageConfig{}, err
	}
	if _, err := tx.ExecContext(ctx, upsertHomepageSQL, tenantID, stored.Version, string(doc)); err != nil {
		return domain.HomepageConfig{}, unavailable("upsert", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.HomepageConfig{}, unavailable("commit", err)
	}
	return stored, nil
}

func (r *Repo) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listTenantsSQL)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("list", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return out, nil
}
