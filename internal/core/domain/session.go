package domain

import (
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Session is one entry in the append-only session log.
//
// Lifecycle: Active (issued, not yet expired) → Expired (implicit, the
// moment now >= ExpiresAt) → Purged (removed by the next sweep). There is no
// revoked state; no logout path exists.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Active reports whether the session is still valid at the given instant.
// An expired session is indistinguishable from one that never existed.
func (s Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
