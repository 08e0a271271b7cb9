package ports

import (
	"context"

	"github.com/lessonworks/learning-auth/internal/core/domain"
)

// ProgressUpdate carries the optional index-file mutations of a progress
// update. A nil Progress leaves the stored value untouched; an empty
// CompletedLesson adds nothing to the set.
type ProgressUpdate struct {
	Progress        *int
	CompletedLesson string
}

// CredentialStore defines the interface for user credential persistence.
//
// Implementations hold each user twice: a per-user detail file and one line
// in a shared index. UpdateLastLogin touches only the detail file and
// UpdateProgress touches only the index, so the two copies diverge over
// time. That split is part of the contract, not an implementation accident.
type CredentialStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *domain.UserRecord) error
	Read(ctx context.Context, username string) (*domain.UserRecord, error)
	UpdateLastLogin(ctx context.Context, username, date string) error
	UpdateProgress(ctx context.Context, username string, update ProgressUpdate) error
}
