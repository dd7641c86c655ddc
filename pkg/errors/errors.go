// Package errors provides structured error handling for the application,
// mapping engine error codes to API responses.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"

	// Engine errors
	CodeInvalidBudget      ErrorCode = "INVALID_BUDGET"
	CodeNoCategorySelected ErrorCode = "NO_CATEGORY_SELECTED"
	CodeInsufficientData   ErrorCode = "INSUFFICIENT_DATA"
	CodeUnknownItem        ErrorCode = "UNKNOWN_ITEM"
	CodeUnknownUser        ErrorCode = "UNKNOWN_USER"
	CodeInfeasible         ErrorCode = "INFEASIBLE_SELECTION"
	CodeInvalidRating      ErrorCode = "INVALID_RATING"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidBudget,
		CodeNoCategorySelected, CodeInvalidRating, CodeInsufficientData:
		return http.StatusBadRequest
	case CodeNotFound, CodeUnknownItem, CodeUnknownUser:
		return http.StatusNotFound
	case CodeInfeasible:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Engine specific errors

// NewInvalidBudgetError indicates a non-positive recommendation budget
func NewInvalidBudgetError(budget float64) *AppError {
	return NewAppError(
		CodeInvalidBudget,
		"Budget must be greater than zero",
		fmt.Sprintf("got %.2f", budget),
	).WithMetadata("budget", budget)
}

// NewNoCategorySelectedError indicates an empty category set
func NewNoCategorySelectedError() *AppError {
	return NewAppError(
		CodeNoCategorySelected,
		"At least one category must be selected",
		"",
	)
}

// NewInsufficientDataError indicates training was attempted without ratings
func NewInsufficientDataError() *AppError {
	return NewAppError(
		CodeInsufficientData,
		"Not enough rating data to train the model",
		"the ratings source is empty",
	)
}

// NewUnknownItemError indicates an item identifier outside the catalog
func NewUnknownItemError(itemID int64) *AppError {
	return NewAppError(
		CodeUnknownItem,
		"Unknown menu item",
		fmt.Sprintf("item %d is not in the catalog", itemID),
	).WithMetadata("item_id", itemID)
}

// NewUnknownUserError indicates a malformed or missing user identifier
func NewUnknownUserError(userID string) *AppError {
	return NewAppError(
		CodeUnknownUser,
		"Unknown user",
		fmt.Sprintf("user %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewInfeasibleError indicates no selection satisfies the hard constraints
func NewInfeasibleError(details string) *AppError {
	return NewAppError(
		CodeInfeasible,
		"No selection satisfies the requested constraints within budget",
		details,
	)
}

// NewInvalidRatingError indicates a rating value outside [1,5]
func NewInvalidRatingError(value float64) *AppError {
	return NewAppError(
		CodeInvalidRating,
		"Rating must be between 1 and 5",
		fmt.Sprintf("got %.2f", value),
	).WithMetadata("rating", value)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
