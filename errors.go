package mergepdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSources  = errors.New("no sources to assemble")
	ErrSerialize  = errors.New("PDF serialization failed")
	ErrSuperseded = errors.New("assembly superseded by a newer request")

	// Input set errors. Rejected files never enter the set.
	ErrUnsupportedInput = errors.New("unsupported input: not an image or PDF")
	ErrCapacityExceeded = errors.New("input set is full")
	ErrDuplicateSource  = errors.New("duplicate source identifier")
	ErrSourceNotFound   = errors.New("source not found")
	ErrInvalidOrder     = errors.New("invalid source order")

	// Per-source failures. Reported as warnings, the source is skipped.
	ErrSourceParse      = errors.New("source could not be parsed")
	ErrUnsupportedImage = errors.New("unsupported image type")

	// Password handling. Reported as warnings, the document is never protected.
	ErrPasswordMismatch    = errors.New("passwords do not match; skipping password protection")
	ErrPasswordUnsupported = errors.New("password protection is not supported")

	// Layout validation errors.
	ErrInvalidPageSize           = errors.New("invalid page size")
	ErrInvalidOrientation        = errors.New("invalid orientation")
	ErrInvalidMargin             = errors.New("invalid margin")
	ErrInvalidPageNumberPosition = errors.New("invalid page number position")
	ErrInvalidCreationDate       = errors.New("invalid creation date")
)
