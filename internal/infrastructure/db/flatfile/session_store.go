package flatfile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lessonworks/learning-auth/internal/core/domain"
)

const (
	// tokenBytes gives 256 bits of entropy per token; collisions are not
	// checked because their probability is negligible at that size.
	tokenBytes = 32

	defaultSessionTTL = 24 * time.Hour
)

// SessionStore keeps sessions as an append-only log, one line per session.
// Entries are never mutated in place: Issue appends, expiry is implicit in
// the timestamp, and Sweep is the only deletion path.
//
// The mutex serializes in-process log access; a concurrent process can
// still interleave an append with a sweep rewrite and lose it.
type SessionStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewSessionStore returns a store writing to path. Sessions live for ttl
// from issuance (fixed, not sliding); ttl <= 0 selects the 24h default.
// A nil now falls back to time.Now — tests inject a fake clock so expiry is
// deterministic.
func NewSessionStore(path string, ttl time.Duration, now func() time.Time, log zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionStore{path: path, ttl: ttl, now: now, log: log}
}

// Issue generates a token for username, appends the session to the log, and
// returns the token.
func (s *SessionStore) Issue(_ context.Context, username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("flatfile: generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	session := domain.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return "", fmt.Errorf("flatfile: open session log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(EncodeSessionLine(session) + "\n"); err != nil {
		return "", fmt.Errorf("flatfile: append session: %w", err)
	}
	return token, nil
}

// Validate scans the log for a line matching token with an expiry still in
// the future and returns the owning username. Expired tokens fail exactly
// like tokens that never existed.
func (s *SessionStore) Validate(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrInvalidSession
		}
		return "", fmt.Errorf("flatfile: read session log: %w", err)
	}

	now := s.now()
	for _, line := range strings.Split(string(data), "\n") {
		session, ok := DecodeSessionLine(line)
		if !ok {
			continue
		}
		if session.Token == token && session.Active(now) {
			return session.Username, nil
		}
	}
	return "", domain.ErrInvalidSession
}

// Sweep rewrites the log with only unexpired entries and reports how many
// were purged. A missing log is an empty log.
func (s *SessionStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("flatfile: read session log: %w", err)
	}

	now := s.now()
	total := 0
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		session, ok := DecodeSessionLine(line)
		if !ok {
			continue
		}
		total++
		if session.Active(now) {
			kept = append(kept, line)
		}
	}

	if err := os.WriteFile(s.path, []byte(strings.Join(kept, "\n")+"\n"), fileMode); err != nil {
		return 0, fmt.Errorf("flatfile: rewrite session log: %w", err)
	}
	return total - len(kept), nil
}
