package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"go.uber.org/zap"
)

type contextKey string

const userContextKey contextKey = "claims"

// Authenticator resolves a bearer token to the claims of a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Claims, error)
}

// HTTPMiddleware rejects requests without a valid bearer token, except for
// the listed public paths, and stores the claims in the request context.
func HTTPMiddleware(next http.Handler, authenticator Authenticator, logger *zap.Logger, publicPaths ...string) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := public[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			unauthenticated(w)
			return
		}

		claims, err := authenticator.Authenticate(r.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, e.ErrUnauthenticated) {
				logger.Error("Failed to authenticate request", zap.Error(err))
			}
			unauthenticated(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by HTTPMiddleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	return claims, ok
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return strings.TrimSpace(tokenString), nil
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
}
