package contract

import "context"

// SessionLocker serializes work on one session. TryLock never waits: ok is
// false while another holder has the session. release must be called once
// the holder is done.
type SessionLocker interface {
	TryLock(ctx context.Context, sessionID string) (release func(), ok bool, err error)
}
