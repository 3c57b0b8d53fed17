package main

import (
	"errors"
	"os"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
	"github.com/alnah/go-mergepdf/internal/dateutil"
	"github.com/alnah/go-mergepdf/internal/fileutil"
)

// Exit codes for mergepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Document written
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied, unreadable PDF
	ExitAssembly = 4 // Nothing could be assembled or serialized
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Assembly errors (exit 4)
	if errors.Is(err, mergepdf.ErrSerialize) ||
		errors.Is(err, mergepdf.ErrNoSources) ||
		errors.Is(err, ErrJobsFailed) {
		return ExitAssembly
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, mergepdf.ErrSourceParse) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, fileutil.ErrNoInputFiles) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoJobs) ||
		errors.Is(err, ErrUnknownJob) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDate) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, mergepdf.ErrInvalidPageSize) ||
		errors.Is(err, mergepdf.ErrInvalidOrientation) ||
		errors.Is(err, mergepdf.ErrInvalidMargin) ||
		errors.Is(err, mergepdf.ErrInvalidPageNumberPosition) ||
		errors.Is(err, mergepdf.ErrInvalidCreationDate) {
		return ExitUsage
	}

	return ExitGeneral
}
