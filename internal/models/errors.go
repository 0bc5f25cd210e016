package models

import (
	"errors"
	"net/http"
)

// ErrorCode is a stable identifier a presentation layer can localize
type ErrorCode string

const (
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"
	ErrPrivateProfile   ErrorCode = "PRIVATE_PROFILE"
	ErrEmptyLibrary     ErrorCode = "EMPTY_LIBRARY"
	ErrHiddenLibrary    ErrorCode = "HIDDEN_LIBRARY"
	ErrFewGames         ErrorCode = "FEW_GAMES"
	ErrNoPlaytime       ErrorCode = "NO_PLAYTIME"
	ErrSteamUnavailable ErrorCode = "STEAM_UNAVAILABLE"
	ErrRateLimited      ErrorCode = "RATE_LIMITED"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrInternal         ErrorCode = "INTERNAL"
)

// HTTPStatus maps the code to the status returned by the API layer.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrInvalidInput, ErrEmptyLibrary, ErrFewGames:
		return http.StatusBadRequest
	case ErrProfileNotFound:
		return http.StatusNotFound
	case ErrPrivateProfile, ErrHiddenLibrary, ErrNoPlaytime:
		return http.StatusForbidden
	case ErrSteamUnavailable, ErrGenerationFailed:
		return http.StatusBadGateway
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// APIError is a domain error carrying a stable code.
// Transient errors are worth an automatic retry by the caller.
type APIError struct {
	Code      ErrorCode
	Message   string
	Transient bool
	Err       error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func NewAPIError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// Unavailable wraps err as a transient upstream failure.
func Unavailable(message string, err error) *APIError {
	return &APIError{Code: ErrSteamUnavailable, Message: message, Transient: true, Err: err}
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
