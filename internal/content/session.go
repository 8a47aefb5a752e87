// Package content holds the per-tenant working copy of the homepage document
// and mediates every edit through optimistic apply and rollback.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restohub/internal/adapters/observability"
	"restohub/internal/domain"
)

const DefaultStoreTimeout = 5 * time.Second

type Option func(*Session)

// WithStoreTimeout bounds every store call; zero disables the bound.
func WithStoreTimeout(d time.Duration) Option { return func(s *Session) { s.timeout = d } }

// WithSeedOnMissing controls whether a tenant without a document gets DefaultHomepage on load.
func WithSeedOnMissing(seed bool) Option { return func(s *Session) { s.seed = seed } }

func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// Session is the single in-memory source of truth for one tenant's homepage.
type Session struct {
	tenantID string
	store    domain.ContentStore
	timeout  time.Duration
	seed     bool
	log      zerolog.Logger

	mu      sync.Mutex
	st      snapshot
	loading chan struct{} // closed when the running load settles
	subs    map[int]func(domain.HomepageConfig)
	nextSub int
}

func New(store domain.ContentStore, tenantID string, opts ...Option) *Session {
	s := &Session{
		tenantID: tenantID,
		store:    store,
		timeout:  DefaultStoreTimeout,
		seed:     true,
		log:      log.Logger,
		subs:     map[int]func(domain.HomepageConfig){},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("tenant", tenantID).Logger()
	return s
}

func (s *Session) TenantID() string { return s.tenantID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.phase
}

// LoadErr is the cause of a failed initial load.
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.loadErr
}

// Snapshot returns a copy of the current document; ok is false until loaded.
func (s *Session) Snapshot() (domain.HomepageConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.config == nil {
		return domain.HomepageConfig{}, false
	}
	return s.st.config.Clone(), true
}

// Pending reports whether an optimistic edit is waiting for the store.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.head != uuid.Nil
}

// Subscribe registers fn for every change of the document. fn runs on the
// goroutine that caused the change and must not block.
func (s *Session) Subscribe(fn func(domain.HomepageConfig)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Load fetches the document once. Calling it again after success is a no-op;
// after a failure it retries.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	switch s.st.phase {
	case StateReady:
		s.mu.Unlock()
		return nil
	case StateDisposed:
		s.mu.Unlock()
		return fmt.Errorf("%w: session disposed", domain.ErrNotReady)
	case StateLoading:
		// join the load already running
		done := s.loading
		s.mu.Unlock()
		select {
		case <-done:
			return s.LoadErr()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.st = reduce(s.st, loadStarted{})
	done := make(chan struct{})
	s.loading = done
	s.mu.Unlock()
	defer close(done)

	cfg, err := s.get(ctx)
	if errors.Is(err, domain.ErrNotFound) && s.seed {
		s.log.Info().Msg("no homepage stored, seeding defaults")
		cfg, err = s.replace(ctx, domain.DefaultHomepage())
	}
	if err != nil {
		s.log.Error().Err(err).Msg("homepage load failed")
		s.dispatch(loadFailed{err: err})
		return err
	}
	s.dispatch(loadSucceeded{cfg: cfg})
	s.log.Debug().Int64("version", cfg.Version).Msg("homepage loaded")
	return nil
}

// Dispose drops subscribers; later mutations fail with ErrNotReady.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.st = reduce(s.st, disposed{})
	s.subs = map[int]func(domain.HomepageConfig){}
	s.mu.Unlock()
}

/********** mutators **********/

// UpdateSection merges a JSON props patch into one section.
func (s *Session) UpdateSection(ctx context.Context, sectionID string, patch json.RawMessage) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "section", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithSectionPatch(sectionID, patch)
	})
}

func (s *Session) UpdateHeader(ctx context.Context, p domain.HeaderPatch) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "header", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithHeader(p), nil
	})
}

func (s *Session) UpdateFooter(ctx context.Context, p domain.FooterPatch) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "footer", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithFooter(p), nil
	})
}

// UpdateFullConfig replaces the whole document. The stored version is kept so
// a version-checking store compares against what this session last saw.
func (s *Session) UpdateFullConfig(ctx context.Context, cfg domain.HomepageConfig) (domain.HomepageConfig, error) {
	if err := cfg.Validate(); err != nil {
		observability.ObserveMutation("full", "rejected")
		return domain.HomepageConfig{}, err
	}
	return s.mutate(ctx, "full", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		out := cfg.Clone()
		out.Version = c.Version
		return out, nil
	})
}

func (s *Session) AddGalleryImage(ctx context.Context, sectionID, url string) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "gallery_add", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithSectionProps(sectionID, func(p domain.SectionProps) (domain.SectionProps, error) {
			g, ok := p.(domain.GalleryProps)
			if !ok {
				return nil, fmt.Errorf("%w: not a gallery section", domain.ErrInvalidPatch)
			}
			if url == "" {
				return nil, fmt.Errorf("%w: empty image url", domain.ErrInvalidPatch)
			}
			g.Images = append(g.Images, url)
			return g, nil
		})
	})
}

func (s *Session) RemoveGalleryImage(ctx context.Context, sectionID string, index int) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "gallery_remove", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithSectionProps(sectionID, func(p domain.SectionProps) (domain.SectionProps, error) {
			g, ok := p.(domain.GalleryProps)
			if !ok {
				return nil, fmt.Errorf("%w: not a gallery section", domain.ErrInvalidPatch)
			}
			if index < 0 || index >= len(g.Images) {
				return nil, fmt.Errorf("%w: image index %d out of range", domain.ErrInvalidPatch, index)
			}
			g.Images = append(g.Images[:index:index], g.Images[index+1:]...)
			return g, nil
		})
	})
}

// AddTestimonial appends item with a freshly assigned local id.
func (s *Session) AddTestimonial(ctx context.Context, sectionID string, item domain.TestimonialItem) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "testimonial_add", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithSectionProps(sectionID, func(p domain.SectionProps) (domain.SectionProps, error) {
			tp, ok := p.(domain.TestimonialsProps)
			if !ok {
				return nil, fmt.Errorf("%w: not a testimonials section", domain.ErrInvalidPatch)
			}
			item.ID = tp.NextTestimonialID()
			tp.Items = append(tp.Items, item)
			return tp, nil
		})
	})
}

func (s *Session) RemoveTestimonial(ctx context.Context, sectionID string, itemID int64) (domain.HomepageConfig, error) {
	return s.mutate(ctx, "testimonial_remove", func(c domain.HomepageConfig) (domain.HomepageConfig, error) {
		return c.WithSectionProps(sectionID, func(p domain.SectionProps) (domain.SectionProps, error) {
			tp, ok := p.(domain.TestimonialsProps)
			if !ok {
				return nil, fmt.Errorf("%w: not a testimonials section", domain.ErrInvalidPatch)
			}
			for i, it := range tp.Items {
				if it.ID == itemID {
					tp.Items = append(tp.Items[:i:i], tp.Items[i+1:]...)
					return tp, nil
				}
			}
			return nil, fmt.Errorf("testimonial %d: %w", itemID, domain.ErrNotFound)
		})
	})
}

// mutate applies edit optimistically, persists, and rolls back on failure.
func (s *Session) mutate(ctx context.Context, kind string, edit func(domain.HomepageConfig) (domain.HomepageConfig, error)) (domain.HomepageConfig, error) {
	s.mu.Lock()
	if s.st.phase != StateReady || s.st.config == nil {
		phase := s.st.phase
		s.mu.Unlock()
		observability.ObserveMutation(kind, "rejected")
		return domain.HomepageConfig{}, fmt.Errorf("%w: session is %s", domain.ErrNotReady, phase)
	}
	prev := *s.st.config
	attempted, err := edit(prev)
	if err != nil {
		s.mu.Unlock()
		observability.ObserveMutation(kind, "rejected")
		return domain.HomepageConfig{}, err
	}
	tx := Transaction{ID: uuid.New(), Kind: kind, Previous: prev, Attempted: attempted}
	s.st = reduce(s.st, txBegun{tx: tx})
	subs := s.subscribers()
	cur := *s.st.config
	s.mu.Unlock()
	notify(subs, cur)

	l := s.log.With().Str("txn", tx.ID.String()).Str("kind", kind).Logger()
	stored, err := s.replace(ctx, tx.Attempted)
	if err != nil {
		s.dispatch(txFailed{tx: tx})
		observability.ObserveMutation(kind, "rolled_back")
		l.Warn().Err(err).Msg("homepage edit rolled back")
		if errors.Is(err, domain.ErrVersionConflict) {
			s.resync(ctx, l)
		}
		return domain.HomepageConfig{}, err
	}
	s.dispatch(txCommitted{tx: tx, stored: stored})
	observability.ObserveMutation(kind, "committed")
	l.Debug().Int64("version", stored.Version).Msg("homepage edit committed")
	return stored.Clone(), nil
}

// resync adopts what the store holds now, so the next edit is based on the
// document another writer produced instead of failing the same way again.
func (s *Session) resync(ctx context.Context, l zerolog.Logger) {
	cfg, err := s.get(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("homepage resync after conflict failed")
		return
	}
	s.dispatch(resynced{cfg: cfg})
	l.Info().Int64("version", cfg.Version).Msg("homepage resynced after conflict")
}

func (s *Session) dispatch(a action) {
	s.mu.Lock()
	before := s.st.rev
	s.st = reduce(s.st, a)
	if s.st.rev == before || s.st.config == nil {
		s.mu.Unlock()
		return
	}
	subs := s.subscribers()
	cur := *s.st.config
	s.mu.Unlock()
	notify(subs, cur)
}

// subscribers must be called with mu held.
func (s *Session) subscribers() []func(domain.HomepageConfig) {
	out := make([]func(domain.HomepageConfig), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(domain.HomepageConfig), cfg domain.HomepageConfig) {
	for _, fn := range subs {
		fn(cfg.Clone())
	}
}

/********** store calls **********/

func (s *Session) get(ctx context.Context) (domain.HomepageConfig, error) {
	start := time.Now()
	cfg, err := callStore(ctx, s.timeout, func(ctx context.Context) (domain.HomepageConfig, error) {
		return s.store.Get(ctx, s.tenantID)
	})
	observability.ObserveStore("get", err, time.Since(start))
	return cfg, err
}

func (s *Session) replace(ctx context.Context, cfg domain.HomepageConfig) (domain.HomepageConfig, error) {
	start := time.Now()
	out, err := callStore(ctx, s.timeout, func(ctx context.Context) (domain.HomepageConfig, error) {
		return s.store.Replace(ctx, s.tenantID, cfg.Clone())
	})
	observability.ObserveStore("replace", err, time.Since(start))
	return out, err
}

// callStore runs fn under a deadline and gives up waiting when it passes,
// even if fn ignores its context.
func callStore(ctx context.Context, d time.Duration, fn func(context.Context) (domain.HomepageConfig, error)) (domain.HomepageConfig, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	ch := make(chan storeResult, 1)
	go func() {
		cfg, err := fn(ctx)
		ch <- storeResult{cfg, err}
	}()
	return awaitStore(ctx, d, ch)
}

type storeResult struct {
	cfg domain.HomepageConfig
	err error
}

func awaitStore(ctx context.Context, d time.Duration, ch <-chan storeResult) (domain.HomepageConfig, error) {
	select {
	case r := <-ch:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.HomepageConfig{}, fmt.Errorf("%w: %v", domain.ErrStoreTimeout, r.err)
		}
		return r.cfg, r.err
	case <-ctx.Done():
		// the store may have answered at the same instant; a committed write wins
		select {
		case r := <-ch:
			if r.err == nil {
				return r.cfg, nil
			}
		default:
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.HomepageConfig{}, fmt.Errorf("%w after %s", domain.ErrStoreTimeout, d)
		}
		return domain.HomepageConfig{}, ctx.Err()
	}
}
