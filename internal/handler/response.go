package handler

import (
	"errors"
	"net/http"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://spendkiler.app/errors/validation"
	ErrorTypeNotFound     = "https://spendkiler.app/errors/not-found"
	ErrorTypeUnauthorized = "https://spendkiler.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://spendkiler.app/errors/forbidden"
	ErrorTypeConflict     = "https://spendkiler.app/errors/conflict"
	ErrorTypeUnavailable  = "https://spendkiler.app/errors/unavailable"
	ErrorTypeInternal     = "https://spendkiler.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnavailableError creates a service unavailable error response
func NewUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// domainValidationErrors maps input sentinels to the field they belong to
var domainValidationErrors = []struct {
	err   error
	field string
}{
	{domain.ErrInvalidCategory, "category"},
	{domain.ErrInvalidAmount, "amount"},
	{domain.ErrInvalidDate, "date"},
	{domain.ErrNoteTooLong, "note"},
	{domain.ErrInvalidSalary, "salary"},
	{domain.ErrInvalidCycleStartDay, "cycleStartDay"},
	{domain.ErrInvalidTheme, "theme"},
}

// validationErrorFor returns the field-level error for a domain validation failure
func validationErrorFor(err error) (ValidationError, bool) {
	for _, v := range domainValidationErrors {
		if errors.Is(err, v.err) {
			return ValidationError{Field: v.field, Message: v.err.Error()}, true
		}
	}
	return ValidationError{}, false
}

// handleServiceError writes the problem response matching a service error
func handleServiceError(c echo.Context, err error, action string) error {
	if ve, ok := validationErrorFor(err); ok {
		return NewValidationError(c, "Validation failed", []ValidationError{ve})
	}

	switch {
	case errors.Is(err, domain.ErrExpenseNotFound), errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrBackupNotConfigured):
		return NewUnavailableError(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}
