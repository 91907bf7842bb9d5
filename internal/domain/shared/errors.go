package shared

// ErrorKind classifies a domain error into one of the categories the
// interface layer maps to transport status codes.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindConflict     ErrorKind = "CONFLICT"
	KindInternal     ErrorKind = "INTERNAL"
)

// DomainError represents an expected business failure. Operations return it
// as a plain error value; panics are reserved for programming defects.
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation failure
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewConflictError creates a conflict failure
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError(KindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError(KindValidation, "INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError(KindUnauthorized, "UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState  = NewDomainError(KindConflict, "INVALID_STATE", "Operation not allowed in current state")
	ErrStaleVersion  = NewDomainError(KindConflict, "STALE_VERSION", "Resource was modified concurrently")
	ErrInternal      = NewDomainError(KindInternal, "INTERNAL_ERROR", "An unexpected error occurred")
)
