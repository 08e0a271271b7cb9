package flatfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lessonworks/learning-auth/internal/core/domain"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

const (
	usersDirName  = "users"
	indexFileName = "users.txt"
	fileMode      = 0o644
	dirMode       = 0o755
)

// CredentialStore keeps one detail file per user under <dataDir>/users/ and
// one summary line per user in <dataDir>/users.txt.
//
// The two copies are deliberately updated by different operations:
// UpdateLastLogin rewrites only the detail file, UpdateProgress rewrites
// only the index. They diverge over time and no operation reconciles them.
//
// The mutex serializes in-process mutations of the shared files; concurrent
// processes still race with last-write-wins whole-file semantics.
type CredentialStore struct {
	usersDir  string
	indexPath string
	mu        sync.Mutex
	log       zerolog.Logger
}

// NewCredentialStore creates the users directory if needed and returns the
// store rooted at dataDir.
func NewCredentialStore(dataDir string, log zerolog.Logger) (*CredentialStore, error) {
	usersDir := filepath.Join(dataDir, usersDirName)
	if err := os.MkdirAll(usersDir, dirMode); err != nil {
		return nil, fmt.Errorf("flatfile: create users dir: %w", err)
	}
	return &CredentialStore{
		usersDir:  usersDir,
		indexPath: filepath.Join(dataDir, indexFileName),
		log:       log,
	}, nil
}

// userPath maps a username to its detail file. Usernames that fail the
// domain shape check never map to a file: the username is a path component,
// so the guard also rejects traversal attempts for names that were never
// registrable in the first place.
func (s *CredentialStore) userPath(username string) (string, bool) {
	if !domain.ValidUsername(username) {
		return "", false
	}
	return filepath.Join(s.usersDir, username+".txt"), true
}

// Exists reports whether a detail file is present for username.
func (s *CredentialStore) Exists(_ context.Context, username string) (bool, error) {
	path, ok := s.userPath(username)
	if !ok {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("flatfile: stat user file: %w", err)
	}
	return true, nil
}

// Create writes the detail file, then appends the index line. If the index
// append fails after the detail file was written the store is left
// inconsistent; the error is surfaced and nothing is rolled back.
func (s *CredentialStore) Create(_ context.Context, user *domain.UserRecord) error {
	path, ok := s.userPath(user.Username)
	if !ok {
		return domain.NewValidationError("invalid username")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return domain.ErrUserExists
	}

	if err := os.WriteFile(path, EncodeUserFile(user), fileMode); err != nil {
		return fmt.Errorf("flatfile: write user file: %w", err)
	}

	if err := s.appendIndexLine(user); err != nil {
		s.log.Warn().
			Str("username", user.Username).
			Msg("user file written but index append failed; store is inconsistent")
		return err
	}
	return nil
}

func (s *CredentialStore) appendIndexLine(user *domain.UserRecord) error {
	f, err := os.OpenFile(s.indexPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("flatfile: open index: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(EncodeIndexLine(user) + "\n"); err != nil {
		return fmt.Errorf("flatfile: append index: %w", err)
	}
	return nil
}

// Read loads and decodes the detail file for username.
func (s *CredentialStore) Read(_ context.Context, username string) (*domain.UserRecord, error) {
	path, ok := s.userPath(username)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("flatfile: read user file: %w", err)
	}
	return DecodeUserFile(data), nil
}

// UpdateLastLogin read-modify-writes the detail file only. The index keeps
// whatever lastLogin it had at registration.
func (s *CredentialStore) UpdateLastLogin(_ context.Context, username, date string) error {
	path, ok := s.userPath(username)
	if !ok {
		return domain.ErrUserNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("flatfile: read user file: %w", err)
	}

	user := DecodeUserFile(data)
	user.LastLogin = date
	if err := os.WriteFile(path, EncodeUserFile(user), fileMode); err != nil {
		return fmt.Errorf("flatfile: write user file: %w", err)
	}
	return nil
}

// UpdateProgress read-modify-writes the entire index file: every line is
// scanned for a "username:" prefix, the matching line's progress and lesson
// set are mutated, and the whole file is rewritten. O(total users) per call,
// acceptable only at this system's trivial scale. The detail file is not
// touched.
func (s *CredentialStore) UpdateProgress(_ context.Context, username string, update ports.ProgressUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("flatfile: read index: %w", err)
	}

	prefix := username + ":"
	found := false
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		found = true

		user := DecodeIndexLine(line)
		if update.Progress != nil {
			user.Progress = domain.ClampProgress(*update.Progress)
		}
		if update.CompletedLesson != "" {
			user.CompletedLessons = domain.AddLesson(user.CompletedLessons, update.CompletedLesson)
		}
		lines[i] = EncodeIndexLine(user)
	}
	if !found {
		return domain.ErrUserNotFound
	}

	if err := os.WriteFile(s.indexPath, []byte(strings.Join(lines, "\n")+"\n"), fileMode); err != nil {
		return fmt.Errorf("flatfile: rewrite index: %w", err)
	}
	return nil
}

// ReadIndex returns the index line for username, decoded. Used by tests and
// the readiness probe; login reads the detail file instead.
func (s *CredentialStore) ReadIndex(_ context.Context, username string) (*domain.UserRecord, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("flatfile: read index: %w", err)
	}

	prefix := username + ":"
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, prefix) {
			return DecodeIndexLine(line), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Ping verifies the storage directory is writable by creating and removing
// a probe file. Used by the readiness endpoint.
func (s *CredentialStore) Ping(_ context.Context) error {
	probe := filepath.Join(s.usersDir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), fileMode); err != nil {
		return fmt.Errorf("flatfile: probe write: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("flatfile: probe remove: %w", err)
	}
	return nil
}
