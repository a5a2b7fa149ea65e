package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Raw     string               `json:"raw,omitempty"`
	Details []service.FieldIssue `json:"details,omitempty"`
}

// decodeJSON reads the request body into dst. An empty body leaves dst unchanged.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, SuccessResponse{Success: true, Data: data})
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(context.Background(), w, statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps service errors to HTTP status codes and responses.
// Upstream root causes are logged but never returned to the caller.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation failed", "field", validationErr.Field, "error", validationErr.Message)
		writeJSON(ctx, w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation error: " + validationErr.Field + " " + validationErr.Message,
			Details: validationErr.Details,
		})
		return
	}

	var parseErr *service.ResponseParseError
	if errors.As(err, &parseErr) {
		logger.WarnContext(ctx, "AI response could not be parsed", "error", parseErr.Err)
		writeJSON(ctx, w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "AI response format invalid",
			Raw:   parseErr.Raw,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrUpstreamExhausted):
		logger.ErrorContext(ctx, "all AI providers failed", "error", err)
		writeError(w, http.StatusBadGateway, service.ErrUpstreamExhausted.Error())
	case errors.Is(err, service.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrUnauthorized):
		logger.WarnContext(ctx, "unauthorized", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, service.ErrExternalService):
		logger.ErrorContext(ctx, "external service error", "error", err)
		writeError(w, http.StatusBadGateway, "External service error")
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
