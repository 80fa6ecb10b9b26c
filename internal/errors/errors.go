// Package errors provides custom error types for the Sampatti API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is locked. Please try again later", StatusCode: http.StatusForbidden}
	ErrAccountInactive    = &AppError{Code: "ACCOUNT_INACTIVE", Message: "Account is not active", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Recovery flow errors.
var (
	ErrInvalidRecoveryWords = &AppError{Code: "INVALID_RECOVERY_WORDS", Message: "Invalid recovery words", StatusCode: http.StatusUnauthorized}
	ErrInvalidResetToken    = &AppError{Code: "INVALID_RESET_TOKEN", Message: "Invalid or expired reset token", StatusCode: http.StatusBadRequest}
)

// Nominee & emergency access errors.
var (
	ErrNomineeNotFound   = &AppError{Code: "NOMINEE_NOT_FOUND", Message: "Nominee not found", StatusCode: http.StatusNotFound}
	ErrDuplicateNominee  = &AppError{Code: "DUPLICATE_NOMINEE", Message: "A nominee with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidAccessCode = &AppError{Code: "INVALID_ACCESS_CODE", Message: "Invalid email or access code", StatusCode: http.StatusUnauthorized}
	ErrNomineeLocked     = &AppError{Code: "NOMINEE_LOCKED", Message: "Emergency access is locked. Please try again later", StatusCode: http.StatusForbidden}
)

// Asset & document errors.
var (
	ErrAssetNotFound    = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrDocumentNotFound = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
)
