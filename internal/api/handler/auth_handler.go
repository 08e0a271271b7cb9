package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lessonworks/learning-auth/internal/api/metrics"
	"github.com/lessonworks/learning-auth/internal/core/domain"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Failure      500   {object}  statusResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
	}

	err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
		FullName:        req.FullName,
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: ve.Msg})
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "username already exists"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		// Storage failure: the central error handler logs it and renders a
		// generic 500 without internal detail.
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "registration successful"})
}

// Login authenticates a user and returns a session token with the public
// profile fields.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  statusResponse
// @Failure      500   {object}  statusResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			// Same message for unknown user and wrong password.
			return c.JSON(http.StatusUnauthorized, statusResponse{Status: "error", Message: "invalid username or password"})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Status:  "success",
		Message: "login successful",
		Data: loginData{
			SessionToken:     result.SessionToken,
			Username:         result.Username,
			Email:            result.Email,
			FullName:         result.FullName,
			Progress:         result.Progress,
			CompletedLessons: result.CompletedLessons,
		},
	})
}
