package utils

// Error taxonomy shared by services and controllers. Services return these;
// RespondServiceError maps them to HTTP codes so raw driver errors never
// reach clients with a misleading status.

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a field-level validation failure.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// Validationf is the common single-message case.
func Validationf(message string) *ValidationError {
	return &ValidationError{Message: message}
}

type AuthError struct{ Message string }

func (e *AuthError) Error() string { return e.Message }

func NewAuthError(message string) *AuthError { return &AuthError{Message: message} }

type PermissionError struct{ Message string }

func (e *PermissionError) Error() string { return e.Message }

// ErrNoPermission is the default forbidden error.
var ErrNoPermission = &PermissionError{Message: "you do not have permission"}

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) *NotFoundError { return &NotFoundError{Message: message} }

// ConflictError covers double-bookings and duplicate resources.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) *ConflictError { return &ConflictError{Message: message} }
