// Package middleware provides HTTP middleware for the platform API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuslink/platform/internal/app/services/users"
	"github.com/campuslink/platform/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "auth.claims"

// Auth validates bearer tokens issued by the users service.
type Auth struct {
	secret    []byte
	skipPaths map[string]bool
	log       *logger.Logger
}

// NewAuth creates the auth middleware. Requests to skipPaths pass through
// unauthenticated.
func NewAuth(secret string, skipPaths []string, log *logger.Logger) *Auth {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &Auth{secret: []byte(secret), skipPaths: skip, log: log}
}

// Handler returns the middleware handler.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w, "missing or malformed Authorization header")
			return
		}

		var claims users.Claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			a.log.WithError(err).WithField("path", r.URL.Path).Warn("token validation failed")
			unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, &claims)))
	})
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*users.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*users.Claims)
	return c, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
