package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"restohub/internal/domain"
)

func withFooter(c domain.HomepageConfig, text string) domain.HomepageConfig {
	return c.WithFooter(domain.FooterPatch{Copyright: &text})
}

func TestReduce_RollbackRestoresPrevious(t *testing.T) {
	base := domain.DefaultHomepage()
	s := reduce(snapshot{}, loadSucceeded{cfg: base})

	tx := Transaction{ID: uuid.New(), Previous: base, Attempted: withFooter(base, "a")}
	s = reduce(s, txBegun{tx: tx})
	assert.Equal(t, "a", s.config.Footer.Copyright)

	s = reduce(s, txFailed{tx: tx})
	assert.Equal(t, base, *s.config)
	assert.Equal(t, uuid.Nil, s.head)
}

func TestReduce_SupersededFailureKeepsNewerEdit(t *testing.T) {
	base := domain.DefaultHomepage()
	s := reduce(snapshot{}, loadSucceeded{cfg: base})

	a := Transaction{ID: uuid.New(), Previous: base, Attempted: withFooter(base, "a")}
	s = reduce(s, txBegun{tx: a})
	b := Transaction{ID: uuid.New(), Previous: a.Attempted, Attempted: withFooter(a.Attempted, "b")}
	s = reduce(s, txBegun{tx: b})

	// a fails while b is in flight: b owns the visible state
	s = reduce(s, txFailed{tx: a})
	assert.Equal(t, "b", s.config.Footer.Copyright)
	assert.True(t, s.stale)

	// b fails too: fall back to what the store last confirmed, not to a's edit
	s = reduce(s, txFailed{tx: b})
	assert.Equal(t, base, *s.config)
	assert.False(t, s.stale)
}

func TestReduce_CommitOfOlderEditDoesNotClobberHead(t *testing.T) {
	base := domain.DefaultHomepage()
	s := reduce(snapshot{}, loadSucceeded{cfg: base})

	a := Transaction{ID: uuid.New(), Previous: base, Attempted: withFooter(base, "a")}
	s = reduce(s, txBegun{tx: a})
	b := Transaction{ID: uuid.New(), Previous: a.Attempted, Attempted: withFooter(a.Attempted, "b")}
	s = reduce(s, txBegun{tx: b})

	stored := a.Attempted
	stored.Version = 1
	s = reduce(s, txCommitted{tx: a, stored: stored})
	assert.Equal(t, "b", s.config.Footer.Copyright)
	assert.Equal(t, b.ID, s.head)
	assert.Equal(t, int64(1), s.confirmed.Version)
}

func TestReduce_RevisionOnlyMovesWithDocument(t *testing.T) {
	s := reduce(snapshot{}, loadStarted{})
	assert.Equal(t, uint64(0), s.rev)
	s = reduce(s, loadFailed{err: domain.ErrStoreUnavailable})
	assert.Equal(t, uint64(0), s.rev)
	assert.Equal(t, StateFailed, s.phase)
	s = reduce(s, loadSucceeded{cfg: domain.DefaultHomepage()})
	assert.Equal(t, uint64(1), s.rev)
}

func TestReduce_ResyncAdoptsStoreWhenIdle(t *testing.T) {
	base := domain.DefaultHomepage()
	s := reduce(snapshot{phase: StateLoading}, loadSucceeded{cfg: base})

	fresh := withFooter(base, "elsewhere")
	fresh.Version = 5
	s = reduce(s, resynced{cfg: fresh})
	assert.Equal(t, fresh, *s.config)
	assert.Equal(t, fresh, *s.confirmed)
}

func TestReduce_ResyncDuringEditOnlyMovesConfirmed(t *testing.T) {
	base := domain.DefaultHomepage()
	s := reduce(snapshot{phase: StateLoading}, loadSucceeded{cfg: base})
	tx := Transaction{ID: uuid.New(), Previous: base, Attempted: withFooter(base, "mine")}
	s = reduce(s, txBegun{tx: tx})

	fresh := withFooter(base, "elsewhere")
	s = reduce(s, resynced{cfg: fresh})
	assert.Equal(t, "mine", s.config.Footer.Copyright)

	// the edit fails: fall back to the fresh read, not the stale Previous
	s = reduce(s, txFailed{tx: tx})
	assert.Equal(t, "elsewhere", s.config.Footer.Copyright)
}

func TestReduce_LoadAfterDisposeIsIgnored(t *testing.T) {
	s := reduce(snapshot{phase: StateLoading}, disposed{})
	s = reduce(s, loadSucceeded{cfg: domain.DefaultHomepage()})
	assert.Equal(t, StateDisposed, s.phase)
}

func TestAwaitStore_AnswerBeatsExpiredDeadline(t *testing.T) {
	want := domain.DefaultHomepage()
	want.Version = 3
	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		ch := make(chan storeResult, 1)
		ch <- storeResult{cfg: want}

		got, err := awaitStore(ctx, time.Millisecond, ch)
		cancel()
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, int64(3), got.Version)
	}
}

func TestAwaitStore_TimesOutWithoutAnswer(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := awaitStore(ctx, time.Millisecond, make(chan storeResult, 1))
	assert.True(t, errors.Is(err, domain.ErrStoreTimeout), "got %v", err)
}
