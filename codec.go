package mergepdf

import (
	"io"
	"time"
)

// Codec is the PDF capability the assembler consumes. The default
// implementation is returned by NewFPDFCodec; tests and callers may plug in
// another one with WithCodec.
type Codec interface {
	// NewDocument creates an empty output document.
	NewDocument() (DocumentWriter, error)

	// ParseSource parses an existing PDF. An error means the source is unusable.
	ParseSource(id string, data []byte) (SourcePDF, error)
}

// SourcePDF is a parsed input PDF.
type SourcePDF interface {
	ID() string
	PageCount() int
}

// PageHandle is a portable reference to a page copied from a SourcePDF.
// It is only valid for the DocumentWriter that produced it.
type PageHandle interface {
	Size() Size
}

// DocumentWriter builds one output document. Implementations are not safe
// for concurrent use.
type DocumentWriter interface {
	SetInfo(info DocumentInfo)

	// CopyPages copies every page of src in order. On error no handle is
	// returned and no page has been added to the document.
	CopyPages(src SourcePDF) ([]PageHandle, error)

	// AddCopiedPage appends a page produced by CopyPages, keeping its size.
	// A page that fails is not added; pages added before it stay.
	AddCopiedPage(h PageHandle) (Page, error)

	// AddPage appends an empty page of the given size.
	AddPage(size Size) (Page, error)

	EmbedJPEG(data []byte) (Image, error)
	EmbedPNG(data []byte) (Image, error)

	PageCount() int

	// Save serializes the document. It fails when the document has no pages.
	Save(w io.Writer) error
}

// Page is one page of the output document. Coordinates are in points with
// the origin at the bottom-left corner.
type Page interface {
	Size() Size
	DrawText(text string, x, y, fontSize float64, c Color) error
	DrawImage(img Image, r Rect) error
}

// Image is an image embedded in an output document.
// Size is its native size, one point per pixel.
type Image interface {
	Size() Size
}

// Color is an RGB fill color.
type Color struct {
	R, G, B uint8
}

// DocumentInfo is the resolved document information dictionary.
// Empty strings and a zero CreationDate are omitted.
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	CreationDate time.Time
}
