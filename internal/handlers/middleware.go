package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"gernibide/internal/credentials"
	"gernibide/internal/metrics"
	"gernibide/internal/models"
	"gernibide/internal/security"
	"gernibide/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	apiKeys     []string
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, apiKeys []string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		apiKeys:     apiKeys,
		limiter:     limiter,
	}
}

// RequireAuth accepts either a Bearer JWT or a configured X-API-Key header.
// API-key callers act without a user identity.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-API-Key"); key != "" {
			if credentials.VerifyAPIKey(key, m.apiKeys) {
				next(w, r)
				return
			}
			respondWithError(w, http.StatusUnauthorized, "invalid API key", "", nil)
			return
		}

		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			respondWithError(w, http.StatusUnauthorized, "missing credentials", "", nil)
			return
		}

		user, err := m.authService.ValidateToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid or expired token", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole wraps RequireAuth and additionally checks the user's role.
// API-key callers pass every role check.
func (m *Middleware) RequireRole(rol string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			// Authenticated via API key
			next(w, r)
			return
		}
		if user.Rol != rol && user.Rol != models.RolAdmin {
			respondWithError(w, http.StatusForbidden, "insufficient permissions", "", nil)
			return
		}
		next(w, r)
	})
}

// RateLimit rejects clients that exceed the configured request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// Instrument records request durations per route pattern
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.Usuario {
	user, ok := ctx.Value(UserContextKey).(*models.Usuario)
	if !ok {
		return nil
	}
	return user
}
