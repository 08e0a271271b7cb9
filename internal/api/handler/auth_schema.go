package handler

// --- Request types ---

type registerRequest struct {
	Username        string `json:"username"        validate:"required"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Email           string `json:"email"           validate:"required"`
	FullName        string `json:"fullName"`
}

// loginRequest carries no validate tags: a missing field must fail the
// credential check (401, generic message), not input validation (400).
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// updateProgressRequest leaves the token unvalidated for the same reason: a
// missing token is an invalid session, not a malformed body. Progress is a
// pointer so "absent" and "zero" are distinguishable; out-of-range values
// are clamped by the store, never rejected.
type updateProgressRequest struct {
	SessionToken    string `json:"sessionToken"`
	Progress        *int   `json:"progress"`
	CompletedLesson string `json:"completedLesson"`
}

// --- Response types ---

// statusResponse is the canonical envelope for data-less replies.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type loginData struct {
	SessionToken     string   `json:"sessionToken"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	FullName         string   `json:"fullName"`
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completedLessons"`
}

type loginResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    loginData `json:"data"`
}
