package mergepdf

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/alnah/go-mergepdf/internal/dateutil"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
	PageSizeA4     = "a4"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Page number positions.
const (
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
)

// DefaultMargin is applied to every side by DefaultLayout, in inches.
const DefaultMargin = 0.5

// DefaultMaxSources is the input set capacity of the default tier.
const DefaultMaxSources = 10

// SourceKind tells the assembler how to treat a source.
type SourceKind string

// Source kinds.
const (
	KindImage SourceKind = "image"
	KindPDF   SourceKind = "pdf"
)

// Media types handled by the assembler.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeJPEG = "image/jpeg"
	MediaTypeJPG  = "image/jpg"
	MediaTypePNG  = "image/png"
)

// SourceItem is one user-supplied file queued for inclusion.
// The assembler never modifies Data.
type SourceItem struct {
	ID        string     // original filename, unique within a set
	Kind      SourceKind // image or pdf
	MediaType string     // e.g. "image/png"; selects the image codec
	Data      []byte
}

// NewSourceItem classifies a file by media type.
// Any image/* type is accepted; subtypes other than JPEG and PNG are
// skipped later, at assembly time, with a warning.
func NewSourceItem(id, mediaType string, data []byte) (SourceItem, error) {
	mt := normalizeMediaType(mediaType)
	var kind SourceKind
	switch {
	case mt == MediaTypePDF:
		kind = KindPDF
	case strings.HasPrefix(mt, "image/"):
		kind = KindImage
	default:
		return SourceItem{}, fmt.Errorf("%w: %s (%q)", ErrUnsupportedInput, id, mediaType)
	}
	return SourceItem{ID: id, Kind: kind, MediaType: mt, Data: data}, nil
}

// normalizeMediaType lowercases and drops parameters ("image/PNG; q=1" -> "image/png").
func normalizeMediaType(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// Margins are page margins in inches.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargins returns margins with the same value on every side.
func UniformMargins(inches float64) Margins {
	return Margins{Top: inches, Right: inches, Bottom: inches, Left: inches}
}

// Validate rejects negative and non-finite margins.
// Margins that leave no content area are allowed.
func (m Margins) Validate() error {
	sides := []struct {
		name  string
		value float64
	}{
		{"top", m.Top},
		{"right", m.Right},
		{"bottom", m.Bottom},
		{"left", m.Left},
	}
	for _, s := range sides {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) || s.value < 0 {
			return fmt.Errorf("%w: %s=%v (must be a non-negative number of inches)", ErrInvalidMargin, s.name, s.value)
		}
	}
	return nil
}

// PageNumbers enables page stamping. A nil *PageNumbers means no stamps.
type PageNumbers struct {
	Position string // "bottom-left" (default) or "bottom-right"
}

// Validate checks the position. Returns nil if p is nil.
func (p *PageNumbers) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Position) {
	case "", PositionBottomLeft, PositionBottomRight:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidPageNumberPosition, p.Position, PositionBottomLeft, PositionBottomRight)
	}
}

// position resolves the configured corner, defaulting to bottom-left.
func (p *PageNumbers) position() string {
	if p != nil && strings.EqualFold(p.Position, PositionBottomRight) {
		return PositionBottomRight
	}
	return PositionBottomLeft
}

// Metadata is written to the document information dictionary.
// Empty fields are omitted.
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	CreationDate string // calendar date, e.g. "2025-03-14"; omitted if it does not parse
}

// creationTime parses CreationDate. ok is false when the field is empty or invalid.
func (m Metadata) creationTime() (t time.Time, ok bool) {
	if m.CreationDate == "" {
		return time.Time{}, false
	}
	t, err := dateutil.ParseCalendarDate(m.CreationDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Password is the password pair entered by the user.
// Protection is not implemented: the assembler only reports warnings.
type Password struct {
	User    string
	Confirm string
}

// LayoutConfig is the per-invocation layout snapshot.
// The zero value has no margins; DefaultLayout fills in the defaults.
type LayoutConfig struct {
	PageSize    string  // "letter", "legal", "a4"; unknown values fall back to letter
	Orientation string  // "portrait", "landscape"
	Margins     Margins // inches
	PageNumbers *PageNumbers
	Metadata    Metadata
	Password    *Password // nil = protection not requested
}

// DefaultLayout returns a letter portrait layout with half-inch margins.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PageSize:    PageSizeLetter,
		Orientation: OrientationPortrait,
		Margins:     UniformMargins(DefaultMargin),
	}
}

// Validate checks every field strictly. It is meant for trust boundaries
// (config files, flags); Assemble itself only rejects invalid margins and
// falls back to defaults for unknown size or orientation.
func (c LayoutConfig) Validate() error {
	if !isValidPageSize(c.PageSize) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, c.PageSize)
	}
	if !isValidOrientation(c.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, c.Orientation)
	}
	if err := c.Margins.Validate(); err != nil {
		return err
	}
	if err := c.PageNumbers.Validate(); err != nil {
		return err
	}
	if c.Metadata.CreationDate != "" {
		if _, err := dateutil.ParseCalendarDate(c.Metadata.CreationDate); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCreationDate, err)
		}
	}
	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
// Empty means default.
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case "", PageSizeLetter, PageSizeLegal, PageSizeA4:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
// Empty means default.
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case "", OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Warning records a non-fatal problem met during assembly.
type Warning struct {
	Source string // source ID; empty for document-level warnings
	Err    error  // wraps one of the sentinel errors
}

func (w Warning) String() string {
	if w.Source == "" {
		return w.Err.Error()
	}
	return w.Source + ": " + w.Err.Error()
}

// AssembledDocument is the output of one assembly run.
// PDF is never modified after Assemble returns.
type AssembledDocument struct {
	PDF       []byte
	PageCount int
	Warnings  []Warning
	RunID     string
}

// HasWarnings reports whether any source was skipped or any option ignored.
func (d *AssembledDocument) HasWarnings() bool {
	return d != nil && len(d.Warnings) > 0
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithCodec replaces the PDF codec. Panics if c is nil (programmer error).
func WithCodec(c Codec) Option {
	if c == nil {
		panic("mergepdf: WithCodec codec must not be nil")
	}
	return func(a *Assembler) {
		a.codec = c
	}
}

// WithLogger routes warnings and stage logs to l. The default logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxSources changes how many sources one run accepts.
// Panics if n < 1 (programmer error).
func WithMaxSources(n int) Option {
	if n < 1 {
		panic("mergepdf: WithMaxSources must be at least 1")
	}
	return func(a *Assembler) {
		a.maxSources = n
	}
}
