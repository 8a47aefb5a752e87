package content

import (
	"github.com/google/uuid"

	"restohub/internal/domain"
)

// Transaction is one optimistic edit: the document it started from and the one it tries to store.
type Transaction struct {
	ID        uuid.UUID
	Kind      string
	Previous  domain.HomepageConfig
	Attempted domain.HomepageConfig
}

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// snapshot is everything a Session knows. It is only changed through reduce.
type snapshot struct {
	phase   State
	config  *domain.HomepageConfig // nil until loaded
	loadErr error

	// confirmed is the last document the store acknowledged.
	confirmed *domain.HomepageConfig
	// head is the newest transaction not yet settled; uuid.Nil when none.
	head uuid.UUID
	// stale is set when an older transaction failed while head was in flight,
	// so head's Previous holds an edit the store never accepted.
	stale bool
	rev   uint64
}

type action interface{ isAction() }

type (
	loadStarted   struct{}
	loadSucceeded struct{ cfg domain.HomepageConfig }
	loadFailed    struct{ err error }
	txBegun       struct{ tx Transaction }
	txCommitted   struct {
		tx     Transaction
		stored domain.HomepageConfig
	}
	txFailed struct{ tx Transaction }
	// resynced carries a fresh read after the store refused a stale write.
	resynced struct{ cfg domain.HomepageConfig }
	disposed struct{}
)

func (loadStarted) isAction()   {}
func (loadSucceeded) isAction() {}
func (loadFailed) isAction()    {}
func (txBegun) isAction()       {}
func (txCommitted) isAction()   {}
func (txFailed) isAction()      {}
func (resynced) isAction()      {}
func (disposed) isAction()      {}

func ptr(c domain.HomepageConfig) *domain.HomepageConfig { return &c }

// reduce is pure: documents are never mutated, only replaced.
func reduce(s snapshot, a action) snapshot {
	switch a := a.(type) {
	case loadStarted:
		s.phase = StateLoading
		s.loadErr = nil
	case loadSucceeded:
		if s.phase == StateDisposed {
			break
		}
		s.phase = StateReady
		s.config = ptr(a.cfg)
		s.confirmed = ptr(a.cfg)
		s.head = uuid.Nil
		s.stale = false
		s.rev++
	case loadFailed:
		if s.phase == StateDisposed {
			break
		}
		s.phase = StateFailed
		s.loadErr = a.err
	case txBegun:
		s.config = ptr(a.tx.Attempted)
		s.head = a.tx.ID
		s.rev++
	case txCommitted:
		s.confirmed = ptr(a.stored)
		if s.head == a.tx.ID {
			// adopt the echo; content is what we applied, version is the store's
			s.config = ptr(a.stored)
			s.head = uuid.Nil
			s.stale = false
			s.rev++
		}
	case txFailed:
		if s.head != a.tx.ID {
			s.stale = true
			break
		}
		if s.stale && s.confirmed != nil {
			s.config = s.confirmed
		} else {
			s.config = ptr(a.tx.Previous)
		}
		s.head = uuid.Nil
		s.stale = false
		s.rev++
	case resynced:
		if s.phase != StateReady {
			break
		}
		s.confirmed = ptr(a.cfg)
		if s.head != uuid.Nil {
			// a newer edit is in flight; if it fails, fall back to the fresh read
			s.stale = true
			break
		}
		s.config = ptr(a.cfg)
		s.stale = false
		s.rev++
	case disposed:
		s.phase = StateDisposed
		s.head = uuid.Nil
	}
	return s
}
