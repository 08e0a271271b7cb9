package flatfile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lessonworks/learning-auth/internal/core/domain"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

func newTestCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()
	store, err := NewCredentialStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}
	return store
}

func testUser(username string) *domain.UserRecord {
	return &domain.UserRecord{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		JoinDate:     "2026-09-01",
		LastLogin:    "2026-09-01",
		PasswordHash: "$2a$10$somehash",
	}
}

func TestCredentialStore_CreateReadExists(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "alice")
	if err != nil || exists {
		t.Fatalf("expected no user before create, got exists=%v err=%v", exists, err)
	}

	if err := store.Create(ctx, testUser("alice")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err = store.Exists(ctx, "alice")
	if err != nil || !exists {
		t.Fatalf("expected user after create, got exists=%v err=%v", exists, err)
	}

	got, err := store.Read(ctx, "alice")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, testUser("alice")) {
		t.Fatalf("read mismatch:\n got %+v\nwant %+v", got, testUser("alice"))
	}
}

func TestCredentialStore_CreateDuplicate(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("bob")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, testUser("bob")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCredentialStore_ReadUnknown(t *testing.T) {
	store := newTestCredentialStore(t)

	if _, err := store.Read(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCredentialStore_RejectsInvalidUsernamePath(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	// Path traversal shapes can never have been registered; they behave as
	// absent users.
	exists, err := store.Exists(ctx, "../evil")
	if err != nil || exists {
		t.Fatalf("expected traversal name to be absent, got exists=%v err=%v", exists, err)
	}
	if _, err := store.Read(ctx, "../evil"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCredentialStore_UpdateLastLoginTouchesDetailFileOnly(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("carol")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.UpdateLastLogin(ctx, "carol", "2026-12-24"); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}

	detail, err := store.Read(ctx, "carol")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if detail.LastLogin != "2026-12-24" {
		t.Fatalf("expected detail lastLogin updated, got %q", detail.LastLogin)
	}

	// The index keeps the registration-time value; the two copies diverge.
	index, err := store.ReadIndex(ctx, "carol")
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if index.LastLogin != "2026-09-01" {
		t.Fatalf("expected index lastLogin untouched, got %q", index.LastLogin)
	}
}

func TestCredentialStore_UpdateProgressClamps(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("dave")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	over := 150
	if err := store.UpdateProgress(ctx, "dave", ports.ProgressUpdate{Progress: &over}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	index, _ := store.ReadIndex(ctx, "dave")
	if index.Progress != 100 {
		t.Fatalf("expected 150 clamped to 100, got %d", index.Progress)
	}

	under := -5
	if err := store.UpdateProgress(ctx, "dave", ports.ProgressUpdate{Progress: &under}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	index, _ = store.ReadIndex(ctx, "dave")
	if index.Progress != 0 {
		t.Fatalf("expected -5 clamped to 0, got %d", index.Progress)
	}

	// The detail file never sees progress updates.
	detail, _ := store.Read(ctx, "dave")
	if detail.Progress != 0 {
		t.Fatalf("expected detail progress untouched, got %d", detail.Progress)
	}
}

func TestCredentialStore_UpdateProgressLessonIdempotent(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("erin")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.UpdateProgress(ctx, "erin", ports.ProgressUpdate{CompletedLesson: "intro"}); err != nil {
			t.Fatalf("UpdateProgress: %v", err)
		}
	}

	index, _ := store.ReadIndex(ctx, "erin")
	if !reflect.DeepEqual(index.CompletedLessons, []string{"intro"}) {
		t.Fatalf("expected lesson stored exactly once, got %v", index.CompletedLessons)
	}
}

func TestCredentialStore_UpdateProgressUnknownUser(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("frank")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := 10
	if err := store.UpdateProgress(ctx, "ghost", ports.ProgressUpdate{Progress: &p}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCredentialStore_UpdateProgressLeavesOtherLinesAlone(t *testing.T) {
	store := newTestCredentialStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testUser("gina")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, testUser("gina_2")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p := 55
	if err := store.UpdateProgress(ctx, "gina", ports.ProgressUpdate{Progress: &p}); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	// The prefix match must not bleed into gina_2's line.
	other, _ := store.ReadIndex(ctx, "gina_2")
	if other.Progress != 0 {
		t.Fatalf("expected gina_2 untouched, got progress %d", other.Progress)
	}
	updated, _ := store.ReadIndex(ctx, "gina")
	if updated.Progress != 55 {
		t.Fatalf("expected gina progress 55, got %d", updated.Progress)
	}
}

func TestCredentialStore_Ping(t *testing.T) {
	store := newTestCredentialStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
