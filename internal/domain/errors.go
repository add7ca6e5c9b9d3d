package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInternalError        = errors.New("internal error")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrSettingsNotFound     = errors.New("settings not found")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidAmount        = errors.New("amount must be a non-negative number")
	ErrInvalidDate          = errors.New("date must be an ISO-8601 timestamp")
	ErrNoteTooLong          = errors.New("note exceeds maximum length")
	ErrInvalidCycleStartDay = errors.New("cycle start day must be between 1 and 28")
	ErrInvalidSalary        = errors.New("salary must be a non-negative number")
	ErrInvalidTheme         = errors.New("theme must be light, dark or system")
	ErrBackupNotConfigured  = errors.New("backup storage is not configured")
)

// Validation constants
const (
	MaxNoteLength = 500
)
