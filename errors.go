package html2doc

import (
	"errors"
	"fmt"

	"github.com/alnah/go-html2doc/internal/sanitize"
)

// Sentinel errors for library operations.
var (
	// Validation errors: caller input is malformed, not retryable.
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrUnknownFormat    = errors.New("unknown document format")
	ErrWatermarkKind    = errors.New("invalid watermark kind")
	ErrWatermarkTooLong = errors.New("watermark text exceeds maximum length")
	ErrWatermarkImage   = errors.New("watermark image is not valid base64")

	// Rendering errors: backend could not produce bytes, not retried here.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrDocxGeneration = errors.New("document assembly failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Resource exhaustion: transient, retryable by the caller.
	ErrPoolExhausted = errors.New("no renderer available before deadline")

	// Lifecycle errors.
	ErrPoolClosed = errors.New("pool is closed")

	// Sanitization errors. Re-exported so callers need not import the
	// internal sanitize package to classify failures.
	ErrDisallowedElement = sanitize.ErrDisallowedElement
)

// RenderError wraps a backend failure with the format that was being
// produced, for diagnostics.
type RenderError struct {
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Format, e.Err)
}

// Unwrap enables errors.Is/errors.As on the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// renderErr wraps err in a RenderError for the given format.
func renderErr(format Format, err error) error {
	return &RenderError{Format: format, Err: err}
}
