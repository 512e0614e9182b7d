// Package exitcodes provides centralized exit code definitions and error handling for upgrade-component.
// Exit codes are organized in ranges to categorize different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, missing values file)
//	10-19: Values Processing Errors (e.g., parse failures, unexpected structure)
//	20-29: Runtime Errors (e.g., I/O errors)
//	30-39: Internal Errors
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required argument or flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitValuesNotFound          = 4 // values.yaml not found in the chart directory

	// Values Processing Errors (10-19)
	ExitValuesParsingError = 10 // values.yaml is not valid YAML
	ExitUnsupportedValues  = 12 // Component, image or tag key missing or of the wrong kind

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20 // General runtime/system error
	ExitIOError             = 21 // IO operation error

	// Internal Errors (30-39)
	ExitInternalError = 30 // Internal error in command execution
)

// ExitCodeError wraps an error with an exit code for consistent error handling.
// This type is used to propagate both error details and the appropriate exit
// code up to the command entry point.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeFor returns the exit code carried by err, ExitSuccess for a nil error
// and ExitGeneralRuntimeError for errors that carry no code.
func CodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := IsExitCodeError(err); ok {
		return code
	}
	return ExitGeneralRuntimeError
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required argument or flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitValuesNotFound:          "Values file not found",
	ExitValuesParsingError:      "Failed to parse values file",
	ExitUnsupportedValues:       "Component image tag not found in values",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitInternalError:           "Internal error in command execution",
}
