package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps use case errors onto HTTP status codes. Internal failures
// keep their detail out of the response body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, service.ErrInvalidApplication):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, port.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
