package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnsupportedEntity  = errors.New("unsupported entity type")
)

// Error codes returned in the JSON body
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"errors,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports malformed or missing input. details carries the
// field-level explanation produced by the binder.
func Validation(details string) *AppError {
	e := NewAppError(http.StatusBadRequest, CodeValidation, "Validation error", ErrInvalidInput)
	e.Details = details
	return e
}

// BadRequest reports a request that is well formed but cannot be served.
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthenticated(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthenticated, message, ErrUnauthorized)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password", ErrInvalidCredentials)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

// InternalError hides err behind a generic message. err is kept for logging.
func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "Internal server error", err)
}

// FromError maps sentinel errors to their HTTP representation. Errors that
// are already an *AppError are returned as is; anything unknown becomes a 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("Resource already exists")
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials()
	case errors.Is(err, ErrUnauthorized):
		return Unauthenticated("Not authenticated")
	case errors.Is(err, ErrForbidden):
		return Forbidden("Forbidden")
	case errors.Is(err, ErrInvalidToken):
		return BadRequest("Invalid or expired token")
	case errors.Is(err, ErrUnsupportedEntity):
		return BadRequest("Entity type must be one of: product, farmer")
	case errors.Is(err, ErrInvalidInput):
		return BadRequest(err.Error())
	default:
		return InternalError(err)
	}
}
