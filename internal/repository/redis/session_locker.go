package redis

import (
	"context"
	"fmt"
	"time"

	"english-tutor-be/internal/repository/contract"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const lockPrefix = "tutor:lock:"

// releaseScript deletes the lock only while it still carries our token, so a
// holder whose lock expired cannot free someone else's.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLocker shares session locks between API instances. The ttl bounds
// how long a crashed holder can keep a session busy.
type SessionLocker struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ contract.SessionLocker = (*SessionLocker)(nil)

func NewSessionLocker(rdb *goredis.Client, ttl time.Duration) *SessionLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SessionLocker{rdb: rdb, ttl: ttl}
}

func (l *SessionLocker) TryLock(ctx context.Context, sessionID string) (func(), bool, error) {
	key := lockPrefix + sessionID
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		// The request context may already be cancelled.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(relCtx, l.rdb, []string{key}, token).Err()
	}, true, nil
}
