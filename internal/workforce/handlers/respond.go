package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/validation"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondMessage(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	respondJSON(w, logger, status, messageResponse{Message: msg})
}

// mapServiceError writes the response for a failed operation. notFound is
// the message reported for a missing entity.
func mapServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFound string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respondJSON(w, logger, http.StatusBadRequest, verrs)
	case errors.Is(err, e.ErrNotFound):
		respondMessage(w, logger, http.StatusBadRequest, notFound)
	case errors.Is(err, e.ErrInvalidInput):
		respondMessage(w, logger, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, e.ErrUnauthorized):
		respondJSON(w, logger, http.StatusUnauthorized, statusResponse{Status: "error", Message: "Unauthorized."})
	case errors.Is(err, e.ErrUnauthenticated):
		respondMessage(w, logger, http.StatusUnauthorized, "Unauthenticated.")
	default:
		logger.Error("Internal server error", zap.Error(err))
		respondMessage(w, logger, http.StatusInternalServerError, "Server Error")
	}
}

// decodeInput reads the JSON request body. A malformed body is reported as
// e.ErrInvalidInput.
func decodeInput(r *http.Request) (validation.Input, error) {
	in, err := validation.DecodeInput(r.Body)
	if err != nil {
		return nil, errors.Join(e.ErrInvalidInput, err)
	}
	return in, nil
}

// parseID reads a numeric path parameter. Anything else maps to id 0,
// which no stored entity has, so it is reported like an unknown id.
func parseID(pathParams map[string]string, name string) int64 {
	id, err := strconv.ParseInt(pathParams[name], 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
