package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// Registrar adds its routes to the gateway mux.
type Registrar interface {
	Register(mux *runtime.ServeMux) error
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

func registerRoutes(mux *runtime.ServeMux, routes []route) error {
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

// Paths reachable without a bearer token.
var publicPaths = []string{"/login", "/health"}

// NewRouter builds the HTTP API: JSON routes on a gateway mux behind the
// auth middleware, request logging and panic recovery.
func NewRouter(authenticator auth.Authenticator, logger *zap.Logger, registrars ...Registrar) (http.Handler, error) {
	logger = logger.Named("http")
	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(routingErrorHandler(logger)))

	err := mux.HandlePath(http.MethodGet, "/health", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	if err != nil {
		return nil, err
	}
	for _, r := range registrars {
		if err := r.Register(mux); err != nil {
			return nil, err
		}
	}

	handler := auth.HTTPMiddleware(mux, authenticator, logger, publicPaths...)
	handler = requestLogger(logger)(handler)
	handler = recoverer(logger)(handler)
	return handler, nil
}

// routingErrorHandler answers unknown routes and methods with a JSON body.
func routingErrorHandler(logger *zap.Logger) runtime.RoutingErrorHandlerFunc {
	return func(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, status int) {
		respondMessage(w, logger, status, http.StatusText(status))
	}
}
