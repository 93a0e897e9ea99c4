// Package response provides the JSON envelope and application error type shared by handlers and services.
package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	ErrCodeQuotaExceeded        = "QUOTA_EXCEEDED"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   interface{} `json:"error"`
}

// ErrorDetail is the body of ErrorResponse.Error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string
	Message string
	Details string
	// Field names the request field that violated a contract, if any
	Field string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewFieldError creates a validation error bound to a request field
func NewFieldError(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, "")
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// SendError writes an error envelope
func SendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// SendAppError writes an error envelope from an AppError, keeping the violated field
func SendAppError(c *gin.Context, statusCode int, err *AppError) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    err.Code,
			Message: err.Message,
			Field:   err.Field,
		},
	})
}
