package ports

import "context"

// SessionStore defines the interface for the append-only session log.
type SessionStore interface {
	// Issue creates a session for username and returns its opaque token.
	Issue(ctx context.Context, username string) (string, error)
	// Validate resolves a token to its owner. Expired and unknown tokens
	// fail identically with domain.ErrInvalidSession.
	Validate(ctx context.Context, token string) (string, error)
	// Sweep rewrites the log keeping only unexpired entries and reports how
	// many were purged. It is the only deletion path for sessions.
	Sweep(ctx context.Context) (int, error)
}

// SweepScheduler requests an asynchronous session sweep. Requests may be
// coalesced; delivery is best-effort.
type SweepScheduler interface {
	Request()
}
