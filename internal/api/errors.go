package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"rent-reconciliation/internal/domain"
)

// APIError represents a structured error response.
// All error responses from the API use this format for consistency.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnreadable    = "unreadable_file"
	ErrCodeSchema        = "missing_columns"
	ErrCodeInternalError = "internal_error"
)

// InternalError creates an internal server error response.
func InternalError() APIError {
	return APIError{Code: ErrCodeInternalError, Message: "an internal error occurred"}
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return APIError{Code: ErrCodeBadRequest, Message: message}
}

// classify maps a reconciliation failure to a status code and response body.
// Only read and schema problems are the client's fault.
func classify(err error) (int, APIError) {
	var readErr *domain.ReadError
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return http.StatusBadRequest, APIError{Code: ErrCodeSchema, Message: schemaErr.Error()}
	case errors.As(err, &readErr):
		return http.StatusBadRequest, APIError{Code: ErrCodeUnreadable, Message: readErr.Error()}
	default:
		return http.StatusInternalServerError, InternalError()
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
