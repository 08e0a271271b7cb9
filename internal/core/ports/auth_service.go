package ports

import "context"

type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	FullName        string
}

type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the public view of a freshly authenticated user. Progress
// and CompletedLessons are read from the per-user detail file, which may lag
// behind the index (progress updates only touch the index).
type LoginResult struct {
	SessionToken     string
	Username         string
	Email            string
	FullName         string
	Progress         int
	CompletedLessons []string
}

type UpdateProgressInput struct {
	SessionToken    string
	Progress        *int
	CompletedLesson string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	UpdateProgress(ctx context.Context, input UpdateProgressInput) error
}
