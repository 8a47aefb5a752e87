package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restohub/internal/domain"
)

func TestStore_GetUnknownTenant(t *testing.T) {
	_, err := New().Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GetReturnsIndependentCopy(t *testing.T) {
	s := New(WithSeed("t1", domain.DefaultHomepage()))

	cfg, err := s.Get(context.Background(), "t1")
	require.NoError(t, err)
	cfg.Header.BrandName = "mutated"
	cfg.Sections[6].Props.(domain.GalleryProps).Images[0] = "mutated.jpg"

	again, err := s.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHomepage(), again)
}

func TestStore_ReplaceBumpsVersionAndEchoes(t *testing.T) {
	s := New()
	ctx := context.Background()

	out, err := s.Replace(ctx, "t1", domain.DefaultHomepage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Version)

	next := out.WithFooter(domain.FooterPatch{})
	out, err = s.Replace(ctx, "t1", next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Version)

	// echo is a copy too
	out.Header.BrandName = "mutated"
	got, _ := s.Get(ctx, "t1")
	assert.Equal(t, "Restoran Nusantara", got.Header.BrandName)
	assert.ElementsMatch(t, []string{"t1"}, s.Tenants())
}

func TestStore_LastWriterWinsByDefault(t *testing.T) {
	s := New(WithSeed("t1", domain.DefaultHomepage()))
	ctx := context.Background()

	stale := domain.DefaultHomepage() // version 0
	_, err := s.Replace(ctx, "t1", stale)
	require.NoError(t, err)
	_, err = s.Replace(ctx, "t1", stale)
	assert.NoError(t, err)
}

func TestStore_ConflictCheck(t *testing.T) {
	s := New(WithSeed("t1", domain.DefaultHomepage()), WithConflictCheck())
	ctx := context.Background()

	first, err := s.Replace(ctx, "t1", domain.DefaultHomepage())
	require.NoError(t, err)

	_, err = s.Replace(ctx, "t1", domain.DefaultHomepage()) // still version 0
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	_, err = s.Replace(ctx, "t1", first)
	assert.NoError(t, err)
}

func TestStore_RejectsInvalidDocument(t *testing.T) {
	bad := domain.DefaultHomepage()
	bad.Sections[0].Props = nil
	_, err := New().Replace(context.Background(), "t1", bad)
	assert.ErrorIs(t, err, domain.ErrConfigurationShapeMismatch)
}
