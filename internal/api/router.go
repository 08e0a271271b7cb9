package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lessonworks/learning-auth/internal/api/handler"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(authService ports.AuthService, storage handler.Pinger, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// CORS answers the OPTIONS preflight with success and no body; any
	// method other than POST/OPTIONS on the POST routes yields a 405.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("learnauth"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	progressHandler := handler.NewProgressHandler(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/progress", progressHandler.Update)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(storage)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is storage writable?

	// --- Metrics exposition ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
