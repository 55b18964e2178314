package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/wfcgen/internal/compiler"
)

// LoadError represents an error that occurred while loading a tileset.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// Error code constants - unified across all CLI commands.
// Tileset validation uses the compiler's E1xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeLoadFailed  = "E004" // Tileset or scenario could not be decoded
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Generator could not be built
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeInvalidFlag = "E008" // Malformed flag value

	ErrCodeContradiction = "E201" // Generation failed within the retry budget
	ErrCodeTestFailed    = "E202" // One or more scenarios failed
)

// LoadTileset reads and decodes a tileset file.
// Errors are returned as *LoadError.
func LoadTileset(path string) (*compiler.Tileset, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("tileset not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing tileset: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("tileset is a directory: %s", path)}
	}

	ts, err := compiler.LoadTileset(path)
	if err != nil {
		return nil, toLoadError(path, err)
	}
	return ts, nil
}

// LoadCompiled loads and compiles a tileset. Validation problems are
// returned as compiler.ValidationErrors, everything else as *LoadError.
func LoadCompiled(path string) (*compiler.Compiled, error) {
	ts, err := LoadTileset(path)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(ts)
}

// toLoadError converts a decoding error to a LoadError, keeping the CUE
// position when there is one.
func toLoadError(path string, err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeLoadFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", path, err),
	}
}

// loadFailure reports a LoadCompiled error through the formatter.
// Validation errors exit with ExitFailure, load errors with
// ExitCommandError.
func loadFailure(f *OutputFormatter, err error) error {
	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return f.Fail(ExitFailure, verrs[0].Code,
			fmt.Sprintf("tileset is invalid: %d error(s), first: %s", len(verrs), verrs[0].Message), verrs)
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
