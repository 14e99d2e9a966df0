package contract

import (
	"context"

	"english-tutor-be/pkg/tutor/session"
)

// SessionRepository keeps live conversation state keyed by session id.
// Get returns (nil, nil) for an unknown or expired session.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*session.State, error)
	Save(ctx context.Context, state *session.State) error
	Delete(ctx context.Context, sessionID string) error
}
