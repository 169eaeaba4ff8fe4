package core

// Error codes for domain errors.
const (
	ErrCodeDuplicateUsername = "duplicate_username"
	ErrCodeInvalidCredential = "invalid_credential"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeNotFound          = "not_found"
	ErrCodeProtected         = "protected"
	ErrCodeValidation        = "validation"
	ErrCodeBadRequest        = "bad_request"
	ErrCodeInternal          = "internal"
)

// CoreError wraps a code and human-readable message. It is reported privately
// to the requesting connection and never crosses to other connections.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
