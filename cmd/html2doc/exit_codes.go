package main

import (
	"errors"
	"os"

	html2doc "github.com/alnah/go-html2doc"
	"github.com/alnah/go-html2doc/internal/config"
	"github.com/alnah/go-html2doc/internal/storage"
)

// Exit codes for the html2doc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, html2doc.ErrBrowserConnect) ||
		errors.Is(err, html2doc.ErrPageCreate) ||
		errors.Is(err, html2doc.ErrPageLoad) ||
		errors.Is(err, html2doc.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, storage.ErrCreateOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigExists) ||
		errors.Is(err, html2doc.ErrEmptyContent) ||
		errors.Is(err, html2doc.ErrUnknownFormat) ||
		errors.Is(err, html2doc.ErrWatermarkKind) ||
		errors.Is(err, html2doc.ErrWatermarkTooLong) ||
		errors.Is(err, html2doc.ErrWatermarkImage) ||
		errors.Is(err, html2doc.ErrDisallowedElement) ||
		errors.Is(err, ErrBadPlaceholder) ||
		errors.Is(err, ErrBadTimeout) ||
		errors.Is(err, ErrBadFormat) ||
		errors.Is(err, ErrConflictingWatermarks) ||
		errors.Is(err, storage.ErrUnsafeFilename) {
		return ExitUsage
	}

	return ExitGeneral
}
