package memory

import (
	"context"
	"sync"

	"english-tutor-be/internal/repository/contract"
)

// SessionLocker holds session locks for a single process.
type SessionLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ contract.SessionLocker = (*SessionLocker)(nil)

func NewSessionLocker() *SessionLocker {
	return &SessionLocker{held: make(map[string]struct{})}
}

func (l *SessionLocker) TryLock(_ context.Context, sessionID string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[sessionID]; busy {
		return nil, false, nil
	}
	l.held[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.held, sessionID)
		})
	}, true, nil
}
