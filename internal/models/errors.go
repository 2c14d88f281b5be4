// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes used across services. Every code has an HTTP status in statusByCode.
const (
	CodeNotFound          = "NOT_FOUND"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeAlreadyFollowed   = "ALREADY_FOLLOWED"
	CodeNotFollowed       = "NOT_FOLLOWED"
	CodeSelfFollow        = "SELF_FOLLOW"
	CodeAlreadyReacted    = "ALREADY_REACTED"
	CodeNotReacted        = "NOT_REACTED"
	CodeProfileNotCreated = "PROFILE_NOT_CREATED"
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodePasswordMismatch  = "PASSWORD_MISMATCH"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeNotFound:          fiber.StatusNotFound,
	CodeProfileNotCreated: fiber.StatusNotFound,
	CodePermissionDenied:  fiber.StatusForbidden,
	CodeUnauthorized:      fiber.StatusUnauthorized,
	CodeInvalidCreds:      fiber.StatusUnauthorized,
	CodeAlreadyRegistered: fiber.StatusConflict,
	CodeAlreadyFollowed:   fiber.StatusBadRequest,
	CodeNotFollowed:       fiber.StatusBadRequest,
	CodeSelfFollow:        fiber.StatusBadRequest,
	CodeAlreadyReacted:    fiber.StatusBadRequest,
	CodeNotReacted:        fiber.StatusBadRequest,
	CodePasswordMismatch:  fiber.StatusBadRequest,
	CodeValidation:        fiber.StatusBadRequest,
	CodeStoreUnavailable:  fiber.StatusInternalServerError,
}

// StatusForError maps an error to its HTTP status. Unknown errors are 500.
func StatusForError(err error) int {
	if appErr, ok := err.(*AppError); ok {
		if status, known := statusByCode[appErr.Code]; known {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewNotFoundByHandleError(handle string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("User with handle %q not found", handle),
	}
}

func NewPermissionDeniedError(message string) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
	}
}

func NewAlreadyFollowedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyFollowed,
		Message: "You already follow this user",
	}
}

func NewNotFollowedError() *AppError {
	return &AppError{
		Code:    CodeNotFollowed,
		Message: "You do not follow this user",
	}
}

func NewSelfFollowError() *AppError {
	return &AppError{
		Code:    CodeSelfFollow,
		Message: "You cannot follow yourself",
	}
}

func NewAlreadyReactedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyReacted,
		Message: "You already reacted to this thread",
	}
}

func NewNotReactedError() *AppError {
	return &AppError{
		Code:    CodeNotReacted,
		Message: "You have not reacted to this thread",
	}
}

func NewProfileNotCreatedError() *AppError {
	return &AppError{
		Code:    CodeProfileNotCreated,
		Message: "Profile has not been created yet",
	}
}

func NewAlreadyRegisteredError() *AppError {
	return &AppError{
		Code:    CodeAlreadyRegistered,
		Message: "An account with this email already exists",
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCreds,
		Message: "Invalid credentials",
	}
}

func NewPasswordMismatchError() *AppError {
	return &AppError{
		Code:    CodePasswordMismatch,
		Message: "Password and confirmation do not match",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure. The code is deliberately not
// in statusByCode; StatusForError falls through to 500.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// NewStoreError wraps a storage failure (DB or cache) into an AppError.
func NewStoreError(err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: "Storage unavailable",
		Err:     err,
	}
}

// RespondWithError writes a standardized error response with the given status.
// Wrapped causes are echoed as Details only for client errors; storage and
// other 5xx failures keep the cause in the server log and out of the body.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			if s, known := statusByCode[appErr.Code]; known && s < fiber.StatusInternalServerError {
				response.Details = appErr.Err.Error()
			} else {
				slog.ErrorContext(c.UserContext(), "request failed",
					"code", appErr.Code, "path", c.Path(), "error", appErr.Err)
			}
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError writes the error using the status derived from its code.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusForError(err), err)
}
