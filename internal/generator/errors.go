package generator

import (
	"errors"
	"fmt"
)

// GeneratorError reports a contradiction: a node was left without any
// possible variant.
//
// A contradiction is recoverable by reinitializing the generator, which
// Generate does automatically while the retry budget lasts.
type GeneratorError struct {
	// NodeIndex is the grid index of the contradicted node.
	NodeIndex int
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generation contradiction at node %d", e.NodeIndex)
}

// IsContradiction returns true if err is a GeneratorError.
// Uses errors.As to handle wrapped errors.
func IsContradiction(err error) bool {
	var ge *GeneratorError
	return errors.As(err, &ge)
}

// NodeSetErrorCode categorizes failed node set operations.
type NodeSetErrorCode string

const (
	// ErrCodeInvalidNode indicates a node index outside the grid.
	ErrCodeInvalidNode NodeSetErrorCode = "INVALID_NODE"

	// ErrCodeInvalidVariant indicates a model instance the rules never expanded.
	ErrCodeInvalidVariant NodeSetErrorCode = "INVALID_VARIANT"

	// ErrCodeIllegalVariant indicates a variant that is no longer possible
	// at the node.
	ErrCodeIllegalVariant NodeSetErrorCode = "ILLEGAL_VARIANT"

	// ErrCodeAlreadySet indicates a node already pinned to another variant.
	ErrCodeAlreadySet NodeSetErrorCode = "ALREADY_SET"
)

// NodeSetError is returned when a node cannot be set to the requested
// variant. The generator state is left unchanged.
type NodeSetError struct {
	Code      NodeSetErrorCode
	NodeIndex int
	Variant   int
}

// Error implements the error interface.
func (e *NodeSetError) Error() string {
	return fmt.Sprintf("%s: cannot set node %d to variant %d", e.Code, e.NodeIndex, e.Variant)
}

// IsNodeSetError returns true if err is a NodeSetError.
func IsNodeSetError(err error) bool {
	var ne *NodeSetError
	return errors.As(err, &ne)
}

// BuilderErrorCode categorizes generator construction errors.
type BuilderErrorCode string

const (
	// ErrCodeMissingRules indicates Build was called without rules.
	ErrCodeMissingRules BuilderErrorCode = "MISSING_RULES"

	// ErrCodeMissingGrid indicates Build was called without a grid.
	ErrCodeMissingGrid BuilderErrorCode = "MISSING_GRID"

	// ErrCodeDirectionMismatch indicates 2D rules on a 3D grid or vice versa.
	ErrCodeDirectionMismatch BuilderErrorCode = "DIRECTION_MISMATCH"

	// ErrCodeGridSizeMismatch indicates initial grid data of the wrong size.
	ErrCodeGridSizeMismatch BuilderErrorCode = "GRID_SIZE_MISMATCH"

	// ErrCodeInvalidInitialNode indicates an initial node outside the grid,
	// referencing an unknown variant, or conflicting with another one.
	ErrCodeInvalidInitialNode BuilderErrorCode = "INVALID_INITIAL_NODE"

	// ErrCodeInvalidConfig indicates an out-of-range option value.
	ErrCodeInvalidConfig BuilderErrorCode = "INVALID_CONFIG"

	// ErrCodeInitialContradiction indicates pregen ended in a contradiction.
	ErrCodeInitialContradiction BuilderErrorCode = "INITIAL_CONTRADICTION"
)

// BuilderError is returned when a Generator cannot be built.
// Construction errors are never retried.
type BuilderError struct {
	Code    BuilderErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *BuilderError) Unwrap() error {
	return e.Err
}

// IsBuilderError returns true if err is a BuilderError.
func IsBuilderError(err error) bool {
	var be *BuilderError
	return errors.As(err, &be)
}

func newBuilderError(code BuilderErrorCode, err error, format string, args ...any) *BuilderError {
	return &BuilderError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}
