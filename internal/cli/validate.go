package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wfcgen/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                       `json:"valid"`
	Name       string                     `json:"name,omitempty"`
	Dimensions int                        `json:"dimensions,omitempty"`
	Models     int                        `json:"models,omitempty"`
	Variants   int                        `json:"variants,omitempty"`
	Errors     []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <tileset>",
		Short: "Validate a tileset without generating",
		Long: `Validate a CUE or YAML tileset.

Checks the document against the tileset schema, then reports every
structural problem at once: missing names, unknown or duplicate sockets,
bad rotations, faces that do not match the dimensions.

Exit codes:
  0 - Tileset valid
  1 - Tileset invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ts, err := LoadTileset(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeLoadFailed {
			// Decoding problems are reported like validation errors.
			return outputValidationErrors(formatter, []compiler.ValidationError{{
				Field:   "document",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    loadErr.Line(),
			}})
		}
		return loadFailure(formatter, err)
	}

	formatter.VerboseLog("Loaded tileset %q: %d socket(s), %d model(s)", ts.Name, len(ts.Sockets), len(ts.Models))

	if errs := compiler.Validate(ts); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	compiled, err := compiler.Compile(ts)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	result := ValidationResult{
		Valid:      true,
		Name:       ts.Name,
		Dimensions: ts.Dimensions,
		Models:     compiled.Rules.ModelCount(),
		Variants:   compiled.Rules.VariantCount(),
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Tileset %s valid: %dD, %d model(s), %d variant(s)\n",
		result.Name, result.Dimensions, result.Models, result.Variants)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
