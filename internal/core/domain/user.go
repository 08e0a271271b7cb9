package domain

import (
	"errors"
	"regexp"
	"strings"
)

var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid username or password")

// DateFormat is the date-only layout used for JoinDate and LastLogin.
const DateFormat = "2006-01-02"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// UserRecord is the authoritative shape of a stored user. The same record is
// persisted twice — as a per-user detail file and as one line in the shared
// index — and the two copies are updated by different flows, so they are not
// guaranteed to agree (see the flatfile store).
type UserRecord struct {
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	FullName         string   `json:"fullName"`
	JoinDate         string   `json:"joinDate"`
	LastLogin        string   `json:"lastLogin"`
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completedLessons"`
	PasswordHash     string   `json:"-"`
}

// Sanitize strips the record delimiter from a free-text value. The line
// formats do not escape ':', so the character is replaced outright.
func Sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ":", "_"))
}

// ValidUsername reports whether a username is 3-20 characters of letters,
// digits, and underscores.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidEmail reports whether an email has a local@domain shape with a dotted
// domain part.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// AddLesson appends a lesson id to the set if not already present. The set
// only grows; there is no removal path.
func AddLesson(lessons []string, id string) []string {
	for _, l := range lessons {
		if l == id {
			return lessons
		}
	}
	return append(lessons, id)
}

// ValidationError is a user-facing input rejection. Its message is safe to
// return to the caller verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}
