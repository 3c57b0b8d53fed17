package mergepdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// Compile-time interface implementation checks.
var (
	_ Codec          = (*FPDFCodec)(nil)
	_ DocumentWriter = (*fpdfDocument)(nil)
	_ Page           = (*fpdfPage)(nil)
	_ Image          = (*fpdfImage)(nil)
	_ PageHandle     = (*fpdfPageHandle)(nil)
	_ SourcePDF      = (*fpdfSource)(nil)
)

// stampFont is a core font; it needs no font files.
const stampFont = "Helvetica"

var errNoPages = errors.New("document has no pages")

// CodecOption configures an FPDFCodec.
type CodecOption func(*FPDFCodec)

// WithCompression toggles stream compression in the output. Enabled by default.
func WithCompression(enabled bool) CodecOption {
	return func(c *FPDFCodec) {
		c.compress = enabled
	}
}

// FPDFCodec builds documents with gofpdf, copies source pages with gofpdi
// and parses sources with pdfcpu.
type FPDFCodec struct {
	compress bool
}

// NewFPDFCodec creates the default codec.
func NewFPDFCodec(opts ...CodecOption) *FPDFCodec {
	c := &FPDFCodec{compress: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDocument implements Codec.
func (c *FPDFCodec) NewDocument() (DocumentWriter, error) {
	base := BaseSize(PageSizeLetter, OrientationPortrait)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: base.Width, Ht: base.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(c.compress)
	pdf.SetCatalogSort(true)
	if pdf.Err() {
		return nil, pdf.Error()
	}
	return &fpdfDocument{pdf: pdf, importer: gofpdi.NewImporter()}, nil
}

// ParseSource implements Codec. Sources are validated with pdfcpu before
// any page is imported, so unreadable files never reach the output.
func (c *FPDFCodec) ParseSource(id string, data []byte) (SourcePDF, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if info.PageCount == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrSourceParse)
	}
	return &fpdfSource{id: id, data: data, pages: info.Pages}, nil
}

type fpdfSource struct {
	id    string
	data  []byte
	pages []Size
}

func (s *fpdfSource) ID() string     { return s.id }
func (s *fpdfSource) PageCount() int { return len(s.pages) }

type fpdfPageHandle struct {
	doc  *fpdfDocument
	tpl  int
	size Size
}

func (h *fpdfPageHandle) Size() Size { return h.size }

type fpdfImage struct {
	doc     *fpdfDocument
	name    string
	imgType string
	size    Size
}

func (i *fpdfImage) Size() Size { return i.size }

// fpdfDocument shares one importer across all sources: gofpdi numbers
// templates per importer, so separate importers would reuse template names.
//
// The importer keys its readers by the printed address of the stream
// pointer. streams keeps every pointer reachable until the document is
// done, so no later source is allocated at an address already in use.
type fpdfDocument struct {
	pdf      *gofpdf.Fpdf
	importer *gofpdi.Importer
	streams  []*io.ReadSeeker
	images   int
}

func (d *fpdfDocument) SetInfo(info DocumentInfo) {
	if info.Title != "" {
		d.pdf.SetTitle(info.Title, !isASCII(info.Title))
	}
	if info.Author != "" {
		d.pdf.SetAuthor(info.Author, !isASCII(info.Author))
	}
	if info.Subject != "" {
		d.pdf.SetSubject(info.Subject, !isASCII(info.Subject))
	}
	if !info.CreationDate.IsZero() {
		d.pdf.SetCreationDate(info.CreationDate)
	}
}

// CopyPages imports every page of src as a template. gofpdi panics on input
// it cannot read; the panic is turned into an error.
func (d *fpdfDocument) CopyPages(src SourcePDF) (handles []PageHandle, err error) {
	s, ok := src.(*fpdfSource)
	if !ok {
		return nil, fmt.Errorf("source %s was not parsed by this codec", src.ID())
	}

	defer func() {
		if r := recover(); r != nil {
			handles, err = nil, fmt.Errorf("importing pages: %v", r)
		}
	}()

	rs := new(io.ReadSeeker)
	*rs = bytes.NewReader(s.data)
	d.streams = append(d.streams, rs)

	handles = make([]PageHandle, 0, len(s.pages))
	for i, size := range s.pages {
		pageNo := i + 1
		tpl := d.importer.ImportPageFromStream(d.pdf, rs, pageNo, "/MediaBox")
		if box, ok := d.importer.GetPageSizes()[pageNo]["/MediaBox"]; ok {
			size = Size{Width: box["w"], Height: box["h"]}
		}
		handles = append(handles, &fpdfPageHandle{doc: d, tpl: tpl, size: size})
	}
	if err := d.takeError(); err != nil {
		return nil, err
	}
	return handles, nil
}

func (d *fpdfDocument) AddCopiedPage(handle PageHandle) (Page, error) {
	h, ok := handle.(*fpdfPageHandle)
	if !ok || h.doc != d {
		return nil, errors.New("page handle belongs to another document")
	}
	d.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: h.size.Width, Ht: h.size.Height})
	d.importer.UseImportedTemplate(d.pdf, h.tpl, 0, 0, h.size.Width, h.size.Height)
	return d.currentPage(h.size)
}

func (d *fpdfDocument) AddPage(size Size) (Page, error) {
	d.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: size.Width, Ht: size.Height})
	return d.currentPage(size)
}

func (d *fpdfDocument) currentPage(size Size) (Page, error) {
	if err := d.takeError(); err != nil {
		return nil, err
	}
	return &fpdfPage{doc: d, n: d.pdf.PageNo(), size: size}, nil
}

// EmbedJPEG decodes data fully before registering it, so a truncated file
// is rejected here and not at serialization time.
func (d *fpdfDocument) EmbedJPEG(data []byte) (Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding JPEG: %w", err)
	}
	return d.register("JPG", data, img.Bounds())
}

// EmbedPNG re-encodes the image as 8-bit non-interlaced NRGBA, the only PNG
// layout gofpdf reads for every color type.
func (d *fpdfDocument) EmbedPNG(data []byte) (Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding PNG: %w", err)
	}
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		return nil, fmt.Errorf("normalizing PNG: %w", err)
	}
	return d.register("PNG", buf.Bytes(), b)
}

func (d *fpdfDocument) register(imgType string, data []byte, bounds image.Rectangle) (Image, error) {
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, errors.New("image has no pixels")
	}
	d.images++
	name := fmt.Sprintf("img%d", d.images)
	info := d.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if err := d.takeError(); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("registering %s image failed", imgType)
	}
	return &fpdfImage{
		doc:     d,
		name:    name,
		imgType: imgType,
		size:    Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())},
	}, nil
}

func (d *fpdfDocument) PageCount() int {
	return d.pdf.PageCount()
}

func (d *fpdfDocument) Save(w io.Writer) error {
	if d.pdf.PageCount() == 0 {
		return errNoPages
	}
	return d.pdf.Output(w)
}

// takeError returns and clears the sticky gofpdf error, so one bad source
// does not poison the rest of the document.
func (d *fpdfDocument) takeError() error {
	if !d.pdf.Err() {
		return nil
	}
	err := d.pdf.Error()
	d.pdf.ClearError()
	return err
}

type fpdfPage struct {
	doc  *fpdfDocument
	n    int
	size Size
}

func (p *fpdfPage) Size() Size { return p.size }

// activate makes p the page gofpdf draws on.
func (p *fpdfPage) activate() {
	if p.doc.pdf.PageNo() != p.n {
		p.doc.pdf.SetPage(p.n)
	}
}

// DrawText draws text with its baseline at (x, y).
func (p *fpdfPage) DrawText(text string, x, y, fontSize float64, c Color) error {
	p.activate()
	pdf := p.doc.pdf
	pdf.SetFont(stampFont, "", fontSize)
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	pdf.Text(x, p.size.Height-y, text)
	return p.doc.takeError()
}

// DrawImage draws img into r. Empty or inverted rectangles draw nothing;
// gofpdf would read a non-positive width as a resolution.
func (p *fpdfPage) DrawImage(img Image, r Rect) error {
	fi, ok := img.(*fpdfImage)
	if !ok || fi.doc != p.doc {
		return errors.New("image belongs to another document")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	p.activate()
	yTop := p.size.Height - r.Y - r.Height
	p.doc.pdf.ImageOptions(fi.name, r.X, yTop, r.Width, r.Height, false,
		gofpdf.ImageOptions{ImageType: fi.imgType}, 0, "")
	return p.doc.takeError()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
