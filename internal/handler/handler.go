package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to an HTTP response. Typed domain
// errors become 4xx responses with their code; anything else is a 500 with
// no internals exposed.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeError(w, http.StatusConflict, model.ErrCodeInsufficientStock, stockErr.Error(), logger)
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// isValidationError spots plain-text validation failures from the service
// layer, which map to 400 rather than 500.
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "must not") ||
		strings.Contains(msg, "nil")
}

// statusForCode maps stable domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidCreds, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
