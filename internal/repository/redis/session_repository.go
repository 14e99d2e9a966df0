package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/pkg/tutor/session"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "tutor:session:"

// SessionRepository stores sessions as JSON values with a sliding TTL, so
// several API instances can share conversations.
type SessionRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *goredis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, state *session.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", state.ID, err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+state.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.ID, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*session.State, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	if state.Transcript == nil {
		state.Transcript = []session.Turn{}
	}
	if state.CorrectionLog == nil {
		state.CorrectionLog = []session.Correction{}
	}
	return &state, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, keyPrefix+sessionID).Err()
}
