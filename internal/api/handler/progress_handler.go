package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lessonworks/learning-auth/internal/api/metrics"
	"github.com/lessonworks/learning-auth/internal/core/domain"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

type ProgressHandler struct {
	authService ports.AuthService
}

func NewProgressHandler(authService ports.AuthService) *ProgressHandler {
	return &ProgressHandler{authService: authService}
}

// Update records lesson progress for the user owning the session token.
//
// @Summary      Update lesson progress
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        body  body      updateProgressRequest  true  "Session token plus progress and/or completed lesson"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  statusResponse
// @Failure      401   {object}  statusResponse
// @Failure      500   {object}  statusResponse
// @Router       /progress [post]
func (h *ProgressHandler) Update(c echo.Context) error {
	var req updateProgressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "invalid request body"})
	}

	err := h.authService.UpdateProgress(c.Request().Context(), ports.UpdateProgressInput{
		SessionToken:    req.SessionToken,
		Progress:        req.Progress,
		CompletedLesson: req.CompletedLesson,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, statusResponse{Status: "error", Message: "invalid or expired session"})
		}
		return err
	}

	metrics.SessionValidationsTotal.WithLabelValues("ok").Inc()
	if req.Progress != nil {
		metrics.ProgressUpdatesTotal.WithLabelValues("progress").Inc()
	}
	if req.CompletedLesson != "" {
		metrics.ProgressUpdatesTotal.WithLabelValues("completed_lesson").Inc()
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "progress updated successfully"})
}
