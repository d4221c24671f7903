package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrUnsupportedMethod   = errors.New("unsupported withdrawal method")
	ErrConcurrency         = errors.New("concurrent operation detected, please try again")
)

// ValidationError describes a syntactically invalid request field. It is
// detected before any transaction opens and never creates a withdrawal record.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// SettlementError is a downstream method-specific failure. It always results
// in a terminal REJECTED record.
type SettlementError struct {
	Reason string
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed: %s", e.Reason)
}
