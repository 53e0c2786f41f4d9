package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

// ValidationResponse is the body of POST /v1/forms/{form}/validate.
type ValidationResponse struct {
	Valid  bool             `json:"valid"`
	Result map[string]any   `json:"result"`
	Errors validator.Errors `json:"errors,omitempty"`
}

// ErrorResponse is the body of every non-validation failure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WarnContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
