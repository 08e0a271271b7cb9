package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lessonworks/learning-auth/internal/core/domain"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

// AuthService implements registration, login, and progress updates. It owns
// the business rules only; all storage behavior lives behind the two store
// ports.
type AuthService struct {
	users    ports.CredentialStore
	sessions ports.SessionStore
	sweeper  ports.SweepScheduler
	cost     int
	now      func() time.Time
	log      zerolog.Logger
}

// NewAuthService wires the service. cost <= 0 selects bcrypt.DefaultCost;
// a nil now falls back to time.Now.
func NewAuthService(
	users ports.CredentialStore,
	sessions ports.SessionStore,
	sweeper ports.SweepScheduler,
	cost int,
	now func() time.Time,
	log zerolog.Logger,
) *AuthService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		sweeper:  sweeper,
		cost:     cost,
		now:      now,
		log:      log,
	}
}

// Register validates the input, hashes the password, and creates the user.
// Validation runs before any storage access.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) error {
	username := domain.Sanitize(input.Username)
	email := domain.Sanitize(input.Email)
	fullName := domain.Sanitize(input.FullName)

	if err := validateRegistration(username, email, input.Password, input.ConfirmPassword); err != nil {
		return err
	}
	if fullName == "" {
		fullName = username
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return err
	}

	today := s.now().UTC().Format(domain.DateFormat)
	user := &domain.UserRecord{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		JoinDate:     today,
		LastLogin:    today,
		Progress:     0,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return nil
}

func validateRegistration(username, email, password, confirmPassword string) error {
	if username == "" || password == "" || confirmPassword == "" || email == "" {
		return domain.NewValidationError("all fields are required")
	}
	if !domain.ValidUsername(username) {
		return domain.NewValidationError("username must be 3-20 characters long and contain only letters, numbers, and underscores")
	}
	if !domain.ValidEmail(email) {
		return domain.NewValidationError("invalid email format")
	}
	if password != confirmPassword {
		return domain.NewValidationError("passwords do not match")
	}
	if len(password) < 8 {
		return domain.NewValidationError("password must be at least 8 characters long")
	}
	return nil
}

// Login verifies the credentials, issues a session, stamps lastLogin on the
// detail file, and schedules a sweep of the session log. An unknown
// username and a wrong password produce the identical error so the caller
// cannot tell which part failed.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	exists, err := s.users.Exists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.Read(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Format(domain.DateFormat)
	if err := s.users.UpdateLastLogin(ctx, user.Username, today); err != nil {
		return nil, err
	}

	s.sweeper.Request()

	s.log.Info().Str("username", user.Username).Msg("login succeeded")

	// Progress and lessons come from the detail file, which progress
	// updates never touch; the values may lag behind the index.
	return &ports.LoginResult{
		SessionToken:     token,
		Username:         user.Username,
		Email:            user.Email,
		FullName:         user.FullName,
		Progress:         user.Progress,
		CompletedLessons: user.CompletedLessons,
	}, nil
}

// UpdateProgress resolves the acting user from the session token and
// applies the requested index-file mutations.
func (s *AuthService) UpdateProgress(ctx context.Context, input ports.UpdateProgressInput) error {
	username, err := s.sessions.Validate(ctx, input.SessionToken)
	if err != nil {
		return err
	}

	update := ports.ProgressUpdate{
		Progress:        input.Progress,
		CompletedLesson: domain.Sanitize(input.CompletedLesson),
	}
	if err := s.users.UpdateProgress(ctx, username, update); err != nil {
		return err
	}

	s.log.Debug().Str("username", username).Msg("progress updated")
	return nil
}
