package mergepdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding PNG fixture: %v", err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encoding JPEG fixture: %v", err)
	}
	return buf.Bytes()
}

// testPDF builds an uncompressed PDF with one page per size. Pages hold a
// filled rectangle and no text, so page stamps are the only text operators
// in an assembled document.
func testPDF(t *testing.T, sizes ...Size) []byte {
	t.Helper()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: 612, Ht: 792},
	})
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	for _, s := range sizes {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: s.Width, Ht: s.Height})
		pdf.SetFillColor(30, 90, 160)
		pdf.Rect(20, 20, s.Width/2, s.Height/2, "F")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building PDF fixture: %v", err)
	}
	return buf.Bytes()
}

var stampPattern = regexp.MustCompile(`\((\d+)\) Tj`)

// stampsOf returns the page stamps of an uncompressed document in page order.
func stampsOf(pdf []byte) []string {
	var got []string
	for _, m := range stampPattern.FindAllSubmatch(pdf, -1) {
		got = append(got, string(m[1]))
	}
	return got
}

func mustItem(t *testing.T, id, mediaType string, data []byte) SourceItem {
	t.Helper()
	item, err := NewSourceItem(id, mediaType, data)
	if err != nil {
		t.Fatalf("NewSourceItem(%q, %q) unexpected error: %v", id, mediaType, err)
	}
	return item
}

func hasWarning(doc *AssembledDocument, source string, target error) bool {
	for _, w := range doc.Warnings {
		if w.Source == source && errors.Is(w.Err, target) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Recording codec
// ---------------------------------------------------------------------------

// fakePDF encodes page sizes as "fake-pdf:612x792,300x400".
func fakePDF(sizes ...Size) []byte {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%gx%g", s.Width, s.Height)
	}
	return []byte("fake-pdf:" + strings.Join(parts, ","))
}

var errFakeParse = errors.New("not a fake pdf")

type fakeText struct {
	text     string
	x, y     float64
	fontSize float64
	color    Color
}

type fakePage struct {
	size   Size
	copied bool
	texts  []fakeText
	images []Rect
}

func (p *fakePage) Size() Size { return p.size }

func (p *fakePage) DrawText(text string, x, y, fontSize float64, c Color) error {
	p.texts = append(p.texts, fakeText{text: text, x: x, y: y, fontSize: fontSize, color: c})
	return nil
}

func (p *fakePage) DrawImage(_ Image, r Rect) error {
	p.images = append(p.images, r)
	return nil
}

type fakeImage struct{ size Size }

func (i fakeImage) Size() Size { return i.size }

type fakeHandle struct{ size Size }

func (h fakeHandle) Size() Size { return h.size }

type fakeSource struct {
	id    string
	pages []Size
}

func (s *fakeSource) ID() string     { return s.id }
func (s *fakeSource) PageCount() int { return len(s.pages) }

type fakeDoc struct {
	info  DocumentInfo
	pages []*fakePage
}

func (d *fakeDoc) SetInfo(info DocumentInfo) { d.info = info }

func (d *fakeDoc) CopyPages(src SourcePDF) ([]PageHandle, error) {
	s := src.(*fakeSource)
	handles := make([]PageHandle, len(s.pages))
	for i, size := range s.pages {
		handles[i] = fakeHandle{size: size}
	}
	return handles, nil
}

var errFakeCopy = errors.New("page cannot be appended")

// AddCopiedPage refuses pages with a negative width, which fakePDF can encode.
func (d *fakeDoc) AddCopiedPage(h PageHandle) (Page, error) {
	if h.Size().Width < 0 {
		return nil, errFakeCopy
	}
	p := &fakePage{size: h.Size(), copied: true}
	d.pages = append(d.pages, p)
	return p, nil
}

func (d *fakeDoc) AddPage(size Size) (Page, error) {
	p := &fakePage{size: size}
	d.pages = append(d.pages, p)
	return p, nil
}

func (d *fakeDoc) EmbedJPEG(data []byte) (Image, error) {
	return decodeFakeImage(data, "jpeg")
}

func (d *fakeDoc) EmbedPNG(data []byte) (Image, error) {
	return decodeFakeImage(data, "png")
}

func decodeFakeImage(data []byte, format string) (Image, error) {
	cfg, got, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if got != format {
		return nil, fmt.Errorf("declared %s, found %s", format, got)
	}
	return fakeImage{size: Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}}, nil
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Save(w io.Writer) error {
	if len(d.pages) == 0 {
		return errNoPages
	}
	_, err := fmt.Fprintf(w, "%%PDF-fake pages=%d", len(d.pages))
	return err
}

// recordingCodec keeps every document it creates. Sources whose ID is in
// block wait for release before parsing.
type recordingCodec struct {
	mu      sync.Mutex
	docs    []*fakeDoc
	block   map[string]bool
	started chan string
	release chan struct{}
	panicOn string
}

func newRecordingCodec() *recordingCodec {
	return &recordingCodec{
		block:   map[string]bool{},
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (c *recordingCodec) NewDocument() (DocumentWriter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &fakeDoc{}
	c.docs = append(c.docs, d)
	return d, nil
}

func (c *recordingCodec) ParseSource(id string, data []byte) (SourcePDF, error) {
	if id == c.panicOn {
		panic("codec exploded")
	}
	if c.block[id] {
		c.started <- id
		<-c.release
	}
	layout, ok := strings.CutPrefix(string(data), "fake-pdf:")
	if !ok {
		return nil, errFakeParse
	}
	src := &fakeSource{id: id}
	for _, part := range strings.Split(layout, ",") {
		ws, hs, _ := strings.Cut(part, "x")
		w, err1 := strconv.ParseFloat(ws, 64)
		h, err2 := strconv.ParseFloat(hs, 64)
		if err1 != nil || err2 != nil {
			return nil, errFakeParse
		}
		src.pages = append(src.pages, Size{Width: w, Height: h})
	}
	return src, nil
}

func (c *recordingCodec) lastDoc(t *testing.T) *fakeDoc {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.docs) == 0 {
		t.Fatal("codec created no document")
	}
	return c.docs[len(c.docs)-1]
}
