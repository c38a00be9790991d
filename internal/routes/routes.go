package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lodgekey/passwordless/internal/handlers"
	"github.com/lodgekey/passwordless/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, authHandler *handlers.AuthHandler) {
	startLimit := middleware.DefaultStartRateLimit()
	verifyLimit := middleware.DefaultVerifyRateLimit()

	// Public routes - the whole login surface is unauthenticated by nature
	router.With(middleware.RateLimitByIP(startLimit)).Post("/auth/login/start", authHandler.StartLogin)
	router.With(middleware.RateLimitByIP(verifyLimit)).Post("/auth/login/verify", authHandler.VerifyLogin)
}
