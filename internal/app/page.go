package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"restohub/internal/content"
	"restohub/internal/domain"
	"restohub/internal/render"
)

// PageService assembles the public homepage of a tenant for one viewer.
type PageService struct {
	sessions *content.Registry
	catalog  domain.CatalogClient
	cache    domain.Cache // optional
	cacheTTL time.Duration
	renderer *render.Renderer
}

func NewPageService(sessions *content.Registry, catalog domain.CatalogClient, cache domain.Cache, ttl time.Duration, r *render.Renderer) *PageService {
	if r == nil {
		r = render.New(nil)
	}
	return &PageService{sessions: sessions, catalog: catalog, cache: cache, cacheTTL: ttl, renderer: r}
}

// Page resolves the document, the menu, and the viewer's recommendations in
// parallel and renders only once all three are in. Catalog failures degrade
// to empty lists; a document that cannot be loaded fails the page.
func (s *PageService) Page(ctx context.Context, tenantID string, viewer domain.Viewer) (render.Page, error) {
	var (
		cfg  domain.HomepageConfig
		menu []domain.MenuItem
		recs []domain.MenuItem
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sess, err := s.sessions.Session(gctx, tenantID)
		if err != nil {
			return err
		}
		snap, ok := sess.Snapshot()
		if !ok {
			return fmt.Errorf("tenant %q: %w", tenantID, domain.ErrNotReady)
		}
		cfg = snap
		return nil
	})
	g.Go(func() error {
		menu = s.menuItems(gctx, tenantID)
		return nil
	})
	g.Go(func() error {
		recs = s.recommendations(gctx, tenantID, viewer)
		return nil
	})

	if err := g.Wait(); err != nil {
		return render.Page{}, err
	}
	return s.renderer.RenderPage(render.PageInputs{
		Config:          &cfg,
		MenuItems:       &menu,
		Recommendations: &recs,
		Viewer:          viewer,
	}), nil
}

func (s *PageService) menuItems(ctx context.Context, tenantID string) []domain.MenuItem {
	key := "menu:" + tenantID
	var items []domain.MenuItem
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &items)
		if err != nil {
			log.Warn().Err(err).Str("tenant", tenantID).Msg("dropping unreadable menu cache entry")
			_ = s.cache.Del(ctx, key)
		} else if ok {
			return items
		}
	}
	items, err := s.catalog.MenuItems(ctx, tenantID)
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenantID).Msg("menu items unavailable")
		return []domain.MenuItem{}
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, items, int(s.cacheTTL.Seconds()))
	}
	return items
}

// recommendations are per viewer and never cached.
func (s *PageService) recommendations(ctx context.Context, tenantID string, viewer domain.Viewer) []domain.MenuItem {
	if !viewer.Authenticated || viewer.UserID == "" {
		return []domain.MenuItem{}
	}
	recs, err := s.catalog.Recommendations(ctx, tenantID, viewer.UserID)
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenantID).Str("user", viewer.UserID).Msg("recommendations unavailable")
		return []domain.MenuItem{}
	}
	return recs
}
