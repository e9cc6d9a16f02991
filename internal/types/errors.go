package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================
//
// Every error below aborts the current file. Config fallback is not an error:
// it is reported as a warning on the conversion result.

var (
	// ErrPathNotFound means the input or report path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrPathIsDirectory means a file was expected but a directory was given.
	ErrPathIsDirectory = errors.New("path is a directory")

	// ErrMissingField means a structurally required element is absent.
	ErrMissingField = errors.New("missing field")

	// ErrValidationMismatch means the FLK report refers to another document.
	ErrValidationMismatch = errors.New("validation report does not match input")

	// ErrNoActionableErrors means a failing FLK report produced nothing to exclude.
	ErrNoActionableErrors = errors.New("no actionable errors in validation report")

	// ErrReportRequired means an ATM file was given without an FLK report.
	ErrReportRequired = errors.New("validation report path is required")

	// ErrUnsupportedKind means the file name prefix selects no rule.
	ErrUnsupportedKind = errors.New("unsupported document kind")
)

// MissingFieldError names the element and the field that were expected.
type MissingFieldError struct {
	Element string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %s in %s", e.Field, e.Element)
}

// Is lets errors.Is match ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
