package content

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"restohub/internal/domain"
)

// Registry hands out one loaded Session per tenant.
type Registry struct {
	store domain.ContentStore
	opts  []Option

	mu       sync.Mutex
	sessions map[string]*Session
	group    singleflight.Group
}

func NewRegistry(store domain.ContentStore, opts ...Option) *Registry {
	return &Registry{store: store, opts: opts, sessions: map[string]*Session{}}
}

// Session returns the tenant's session, loading it on first use. Concurrent
// first requests share a single load.
func (r *Registry) Session(ctx context.Context, tenantID string) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[tenantID]; ok && s.State() == StateReady {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(tenantID, func() (any, error) {
		r.mu.Lock()
		s, ok := r.sessions[tenantID]
		if !ok || s.State() == StateDisposed {
			s = New(r.store, tenantID, r.opts...)
			r.sessions[tenantID] = s
		}
		r.mu.Unlock()
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Peek returns a session without loading it.
func (r *Registry) Peek(tenantID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tenantID]
	return s, ok
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Dispose()
		delete(r.sessions, id)
	}
}
