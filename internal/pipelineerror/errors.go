// Package pipelineerror defines the error taxonomy surfaced by the statement
// pipeline. Every external-service failure is converted into one of these types
// before it reaches the CLI.
package pipelineerror

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindMalformedResponse  Kind = "malformed_response"
	KindServiceUnavailable Kind = "service_unavailable"
	KindEmptyResult        Kind = "empty_result"
	KindCountMismatch      Kind = "count_mismatch"
	KindUnknownCategory    Kind = "unknown_category"
	KindEmptyLedger        Kind = "empty_ledger"
)

// InvalidInputError is returned for input rejected locally, before any call to
// the interpretation service.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// SchemaError names the field path that failed structural validation.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema violation: %s", e.Reason)
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// ExtractionError represents a failed statement extraction.
type ExtractionError struct {
	Kind Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CategorizationError represents a categorization that could not be applied.
type CategorizationError struct {
	Kind Kind
	Err  error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed (%s): %v", e.Kind, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// SummarizationError represents a summary that could not be produced.
type SummarizationError struct {
	Kind Kind
	Err  error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed (%s): %v", e.Kind, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// ExportError is a non-destructive warning: nothing was written.
type ExportError struct {
	Kind   Kind
	Format string
}

func (e *ExportError) Error() string {
	if e.Kind == KindEmptyLedger {
		return fmt.Sprintf("%s export skipped: there is no data to export", e.Format)
	}
	return fmt.Sprintf("%s export failed (%s)", e.Format, e.Kind)
}

// KindOf returns the Kind carried by err, or "" when err is not a kinded
// pipeline error.
func KindOf(err error) Kind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	var categorizationErr *CategorizationError
	if errors.As(err, &categorizationErr) {
		return categorizationErr.Kind
	}
	var summarizationErr *SummarizationError
	if errors.As(err, &summarizationErr) {
		return summarizationErr.Kind
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return ""
}

// IsInvalidInput reports whether err was a local input rejection.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
