package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gartstein/workforce/internal/workforce/auth"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// AuthGateway issues and revokes session tokens.
type AuthGateway interface {
	auth.Authenticator
	Login(ctx context.Context, in validation.Input) (*auth.Result, error)
	Refresh(ctx context.Context, claims *auth.Claims) (*auth.Result, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// AuthHandler serves /login, /refresh and /logout.
type AuthHandler struct {
	gateway AuthGateway
	logger  *zap.Logger
}

func NewAuthHandler(gateway AuthGateway, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		gateway: gateway,
		logger:  logger.Named("auth_handler"),
	}
}

func (h *AuthHandler) Register(mux *runtime.ServeMux) error {
	routes := []route{
		{http.MethodPost, "/login", h.Login},
		{http.MethodPost, "/refresh", h.Refresh},
		{http.MethodPost, "/logout", h.Logout},
	}
	return registerRoutes(mux, routes)
}

// Login reports invalid input as 422 with a summary message, unlike the
// entity routes which answer 400 with the bare error map.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	in, err := decodeInput(r)
	if err != nil {
		mapServiceError(w, h.logger, err, "")
		return
	}

	result, err := h.gateway.Login(r.Context(), in)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			respondJSON(w, h.logger, http.StatusUnprocessableEntity, loginErrorResponse{
				Message: validation.Login.Summarize(verrs),
				Errors:  verrs,
			})
			return
		}
		mapServiceError(w, h.logger, err, "")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.authResponse(result))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		mapServiceError(w, h.logger, e.ErrUnauthenticated, "")
		return
	}

	result, err := h.gateway.Refresh(r.Context(), claims)
	if err != nil {
		mapServiceError(w, h.logger, err, "")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.authResponse(result))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		mapServiceError(w, h.logger, e.ErrUnauthenticated, "")
		return
	}

	if err := h.gateway.Logout(r.Context(), claims); err != nil {
		mapServiceError(w, h.logger, err, "")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, statusResponse{Status: "success", Message: "Successfully logged out"})
}

func (h *AuthHandler) authResponse(result *auth.Result) authResponse {
	return authResponse{
		Status: "success",
		User:   userToResponse(result.User),
		Authorisation: authorisation{
			Token: result.Token,
			Type:  "bearer",
		},
	}
}
