package memory

import (
	"context"
	"testing"
	"time"

	"english-tutor-be/pkg/tutor/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	st := session.New("abc")
	st.MessageCount = 2
	require.NoError(t, repo.Save(ctx, st))

	// Mutating the saved value must not leak into the store.
	st.MessageCount = 99

	got, err = repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.MessageCount)
	assert.Equal(t, 1, repo.Count())

	got.Transcript = append(got.Transcript, session.Turn{Role: session.RoleUser, Text: "x"})
	again, _ := repo.Get(ctx, "abc")
	assert.Empty(t, again.Transcript)

	require.NoError(t, repo.Delete(ctx, "abc"))
	got, err = repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, session.New("short")))

	time.Sleep(40 * time.Millisecond)

	got, err := repo.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}
