package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/services/launch"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidCharacterName = "INVALID_CHARACTER_NAME"
	CodeUnknownClass         = "UNKNOWN_CLASS"
	CodeCharacterExists      = "CHARACTER_EXISTS"
	CodeCharacterNotFound    = "CHARACTER_NOT_FOUND"
	CodeLaunchUnavailable    = "LAUNCH_UNAVAILABLE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidCharacterName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCharacterName, "Character name must be 1-15 letters, digits, _ or -"}}
	case errors.Is(err, model.ErrUnknownClass):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownClass, "Unknown character class"}}
	case errors.Is(err, model.ErrCharacterExists):
		return &httpError{http.StatusConflict, APIError{CodeCharacterExists, "Character already exists"}}
	case errors.Is(err, model.ErrCharacterNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCharacterNotFound, "Character not found"}}
	case errors.Is(err, launch.ErrNotConfigured):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeLaunchUnavailable, "No game executable configured"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
