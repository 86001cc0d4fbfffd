package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHTTPMiddleware(t *testing.T) {
	g := newTestGateway(t)
	res := login(t, g)

	expiredIssuer := NewTokenIssuer("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIssuer.Issue(1, "session-x")
	require.NoError(t, err)

	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := HTTPMiddleware(next, g, zaptest.NewLogger(t), "/login")

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantClaims bool
	}{
		{name: "valid token", path: "/companies", header: "Bearer " + res.Token, wantStatus: http.StatusOK, wantClaims: true},
		{name: "missing header", path: "/companies", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/companies", header: "Basic " + res.Token, wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", path: "/companies", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "expired token", path: "/companies", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "public path", path: "/login", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
			}
			assert.Equal(t, tt.wantClaims, seen != nil)
		})
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)
}
