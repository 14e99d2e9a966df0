package memory

import (
	"context"
	"time"

	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/pkg/tutor/session"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions in process memory. Idle sessions expire
// after ttl and are purged every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

// Save stores a copy, so later edits by the caller are not visible until saved again.
func (r *SessionRepository) Save(_ context.Context, state *session.State) error {
	r.cache.Set(state.ID, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*session.State, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*session.State).Clone(), nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// Count is the number of live sessions, used by the health endpoint.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
