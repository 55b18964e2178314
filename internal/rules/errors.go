package rules

import (
	"errors"
	"fmt"
)

// RulesErrorCode categorizes rule construction errors.
type RulesErrorCode string

const (
	// ErrCodeNoModels indicates an empty model list.
	ErrCodeNoModels RulesErrorCode = "NO_MODELS"

	// ErrCodeNoConnections indicates a socket collection without connections.
	ErrCodeNoConnections RulesErrorCode = "NO_CONNECTIONS"

	// ErrCodeDimensionMismatch indicates models mixing 2D and 3D socket layouts.
	ErrCodeDimensionMismatch RulesErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeUnknownSocket indicates a socket created by another collection.
	ErrCodeUnknownSocket RulesErrorCode = "UNKNOWN_SOCKET"

	// ErrCodeInvalidAxis indicates a rotation axis the model layout cannot use.
	ErrCodeInvalidAxis RulesErrorCode = "INVALID_AXIS"
)

// RulesError is returned when rules cannot be built from the given input.
type RulesError struct {
	Code    RulesErrorCode
	Message string

	// ModelIndex identifies the offending model, or -1.
	ModelIndex int
}

// Error implements the error interface.
func (e *RulesError) Error() string {
	if e.ModelIndex >= 0 {
		return fmt.Sprintf("%s: %s (model=%d)", e.Code, e.Message, e.ModelIndex)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRulesInvalid returns true if err is a RulesError.
// Uses errors.As to handle wrapped errors.
func IsRulesInvalid(err error) bool {
	var re *RulesError
	return errors.As(err, &re)
}

func newRulesError(code RulesErrorCode, model int, format string, args ...any) *RulesError {
	return &RulesError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		ModelIndex: model,
	}
}
