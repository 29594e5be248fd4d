// Package apperror provides coded errors for invoice layout and batch generation.
// Every failure the engine reports to a caller is an *AppError so callers can
// branch on Code without parsing messages.
package apperror

import (
	"errors"
	"fmt"
)

// Error codes
const (
	// An invoice's full detail could not be retrieved; the invoice is skipped.
	CodeDataFetch = "DATA_FETCH_FAILURE"
	// A seal, signature or logo image was unavailable; its box renders empty.
	CodeArtifactLoad = "ARTIFACT_LOAD_FAILURE"
	// The minimum-remainder clamp engaged while planning a page split.
	CodeEstimationOverflow = "ESTIMATION_OVERFLOW"
	// The rendering collaborator failed to produce an artifact.
	CodeRendering = "RENDERING_FAILURE"
	// The invoice failed validation.
	CodeInvalidInput = "INVALID_INPUT"
)

// AppError is the structured error type used across the module
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (invoice id, artifact ref, ...)
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying error
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewDataFetch reports that an invoice could not be hydrated
func NewDataFetch(invoiceID string, err error) *AppError {
	return &AppError{
		Code:    CodeDataFetch,
		Message: fmt.Sprintf("failed to fetch invoice %q", invoiceID),
		Details: map[string]any{"invoice_id": invoiceID},
		Err:     err,
	}
}

// NewArtifactLoad reports that an image artifact could not be loaded
func NewArtifactLoad(kind, ref string, err error) *AppError {
	return &AppError{
		Code:    CodeArtifactLoad,
		Message: fmt.Sprintf("failed to load %s artifact", kind),
		Details: map[string]any{"artifact": kind, "ref": ref},
		Err:     err,
	}
}

// NewEstimationOverflow reports that the page split clamp had to engage
func NewEstimationOverflow(invoiceID string, itemCount, firstPageItems int) *AppError {
	return &AppError{
		Code:    CodeEstimationOverflow,
		Message: "item count too small for the split heuristic, page split clamped",
		Details: map[string]any{
			"invoice_id":       invoiceID,
			"item_count":       itemCount,
			"first_page_items": firstPageItems,
		},
	}
}

// NewRendering reports that the renderer failed
func NewRendering(format string, err error) *AppError {
	return &AppError{
		Code:    CodeRendering,
		Message: fmt.Sprintf("failed to render %s artifact", format),
		Details: map[string]any{"format": format},
		Err:     err,
	}
}

// NewInvalidInput creates a validation error
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode checks whether any AppError in the chain carries code
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsDataFetch checks if error is CodeDataFetch
func IsDataFetch(err error) bool { return HasCode(err, CodeDataFetch) }

// IsArtifactLoad checks if error is CodeArtifactLoad
func IsArtifactLoad(err error) bool { return HasCode(err, CodeArtifactLoad) }

// IsRendering checks if error is CodeRendering
func IsRendering(err error) bool { return HasCode(err, CodeRendering) }

// IsInvalidInput checks if error is CodeInvalidInput
func IsInvalidInput(err error) bool { return HasCode(err, CodeInvalidInput) }
