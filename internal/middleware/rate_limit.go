package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	pkghttp "github.com/lodgekey/passwordless/pkg/http"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultStartRateLimit limits login initiations per IP. Every initiation
// sends an email, so this also caps mail cost per caller.
func DefaultStartRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 5,
	}
}

// DefaultVerifyRateLimit limits code submissions per IP. The per-record
// attempt ceiling is the real lockout; this only blunts blind guessing
// across many identities.
func DefaultVerifyRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 15,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "rate limit exceeded, slow down")
		}),
	)
}
