package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"english-tutor-be/pkg/tutor/session"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryIntegration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opt, err := goredis.ParseURL(url)
	require.NoError(t, err)
	rdb := goredis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}

	repo := NewSessionRepository(rdb, time.Minute)
	id := uuid.NewString()

	st := session.New(id)
	st.Mode = session.ModeChat
	st.Transcript = append(st.Transcript, session.Turn{Role: session.RoleUser, Text: "hi", At: time.Now().UTC()})
	st.MessageCount = 1
	require.NoError(t, repo.Save(ctx, st))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.ModeChat, got.Mode)
	assert.Equal(t, 1, got.MessageCount)
	assert.Equal(t, "hi", got.Transcript[0].Text)
	assert.NotNil(t, got.CorrectionLog)

	require.NoError(t, repo.Delete(ctx, id))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionLockerIntegration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opt, err := goredis.ParseURL(url)
	require.NoError(t, err)
	rdb := goredis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}

	// Two lockers on one redis behave like two API instances.
	a := NewSessionLocker(rdb, time.Minute)
	b := NewSessionLocker(rdb, time.Minute)
	id := uuid.NewString()

	release, ok, err := a.TryLock(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.TryLock(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := rdb.TTL(ctx, lockPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	release()

	releaseB, ok, err := b.TryLock(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	// A stale release from the first holder leaves the new lock in place.
	release()
	_, ok, err = a.TryLock(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	releaseB()
	exists, err := rdb.Exists(ctx, lockPrefix+id).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
