package mergepdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Assembler merges images and PDFs into one document.
// It holds no state between runs and is safe for concurrent use.
type Assembler struct {
	codec      Codec
	logger     *slog.Logger
	maxSources int
}

// NewAssembler creates an Assembler using the gofpdf codec.
// Use options to customize behavior (e.g., WithLogger, WithMaxSources).
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		codec:      NewFPDFCodec(),
		logger:     slog.New(slog.DiscardHandler),
		maxSources: DefaultMaxSources,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxSources returns how many sources one run accepts.
func (a *Assembler) MaxSources() int {
	return a.maxSources
}

// Assemble builds a PDF from items in order, using cfg for new pages.
//
// A source that cannot be read, or an image of an unsupported type, is
// skipped and reported in the result's Warnings; the other sources are still
// assembled. Items past the source limit, or repeating an earlier ID, are
// skipped the same way. Errors are returned only when there is nothing to
// assemble, the margins are invalid, ctx is done, or the output cannot be
// serialized.
//
// cfg is used as given: a zero LayoutConfig has no margins. Start from
// DefaultLayout for the 0.5 inch default.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (a *Assembler) Assemble(ctx context.Context, items []SourceItem, cfg LayoutConfig) (doc *AssembledDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if len(items) == 0 {
		return nil, ErrNoSources
	}
	if err := cfg.Margins.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &run{
		id:       uuid.NewString(),
		geometry: ResolveGeometry(cfg),
	}
	r.logger = a.logger.With("run", r.id)
	r.numberer = newPageNumberer(cfg.PageNumbers, r.geometry)

	w, err := a.codec.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("%w: creating document: %v", ErrSerialize, err)
	}
	r.doc = w
	r.setInfo(cfg.Metadata)
	r.checkPassword(cfg.Password)

	r.logger.Debug("assembly started",
		"sources", len(items),
		"page_width", r.geometry.Base.Width,
		"page_height", r.geometry.Base.Height)

	seen := make(map[string]bool, len(items))
	accepted := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if accepted >= a.maxSources {
			r.warn(item.ID, fmt.Errorf("%w: limit %d", ErrCapacityExceeded, a.maxSources))
			continue
		}
		if seen[item.ID] {
			r.warn(item.ID, ErrDuplicateSource)
			continue
		}
		seen[item.ID] = true
		accepted++
		r.addSource(a.codec, item)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := w.Save(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v (%d warnings)", ErrSerialize, err, len(r.warnings))
	}

	r.logger.Debug("assembly finished", "pages", r.pages, "warnings", len(r.warnings), "bytes", buf.Len())
	return &AssembledDocument{
		PDF:       buf.Bytes(),
		PageCount: r.pages,
		Warnings:  r.warnings,
		RunID:     r.id,
	}, nil
}

// run carries the state of one Assemble call.
type run struct {
	id       string
	logger   *slog.Logger
	geometry Geometry
	numberer *pageNumberer
	doc      DocumentWriter
	pages    int
	warnings []Warning
}

func (r *run) warn(source string, err error) {
	r.warnings = append(r.warnings, Warning{Source: source, Err: err})
	r.logger.Warn("assembly warning", "source", source, "error", err)
}

func (r *run) setInfo(m Metadata) {
	info := DocumentInfo{Title: m.Title, Author: m.Author, Subject: m.Subject}
	if t, ok := m.creationTime(); ok {
		info.CreationDate = t
	} else if m.CreationDate != "" {
		r.logger.Debug("creation date omitted", "value", m.CreationDate)
	}
	r.doc.SetInfo(info)
}

// checkPassword reports why the document stays unprotected.
func (r *run) checkPassword(p *Password) {
	if p == nil || p.User == "" {
		return
	}
	var err error
	if p.User != p.Confirm {
		err = ErrPasswordMismatch
	} else {
		err = ErrPasswordUnsupported
	}
	r.warnings = append(r.warnings, Warning{Err: err})
	r.logger.Warn("password ignored", "error", err)
}

func (r *run) addSource(codec Codec, item SourceItem) {
	if item.Kind == "" {
		classified, err := NewSourceItem(item.ID, item.MediaType, item.Data)
		if err != nil {
			r.warn(item.ID, err)
			return
		}
		item = classified
	}

	switch item.Kind {
	case KindPDF:
		r.addPDF(codec, item)
	case KindImage:
		r.addImage(item)
	default:
		r.warn(item.ID, fmt.Errorf("%w: kind %q", ErrUnsupportedInput, item.Kind))
	}
}

// addPDF copies every page of a source PDF. Pages keep their own size.
// A source that fails to parse or import adds no page. If appending fails
// partway, the pages already appended stay numbered and the warning names
// the first page left out.
func (r *run) addPDF(codec Codec, item SourceItem) {
	src, err := codec.ParseSource(item.ID, item.Data)
	if err != nil {
		r.warn(item.ID, wrapParse(err))
		return
	}
	handles, err := r.doc.CopyPages(src)
	if err != nil {
		r.warn(item.ID, wrapParse(err))
		return
	}
	for i, h := range handles {
		p, err := r.doc.AddCopiedPage(h)
		if err != nil {
			r.warn(item.ID, fmt.Errorf("%w: page %d: %v", ErrSourceParse, i+1, err))
			return
		}
		r.emit(item.ID, p)
	}
	r.logger.Debug("pdf copied", "source", item.ID, "pages", len(handles))
}

// addImage places an image on a new page of the configured size, scaled
// down to the content area and centered in it.
func (r *run) addImage(item SourceItem) {
	var (
		img Image
		err error
	)
	switch normalizeMediaType(item.MediaType) {
	case MediaTypeJPEG, MediaTypeJPG:
		img, err = r.doc.EmbedJPEG(item.Data)
	case MediaTypePNG:
		img, err = r.doc.EmbedPNG(item.Data)
	default:
		r.warn(item.ID, fmt.Errorf("%w: %s", ErrUnsupportedImage, item.MediaType))
		return
	}
	if err != nil {
		r.warn(item.ID, wrapParse(err))
		return
	}

	p, err := r.doc.AddPage(r.geometry.Base)
	if err != nil {
		r.warn(item.ID, wrapParse(err))
		return
	}
	size := img.Size()
	place := r.geometry.FitImage(size.Width, size.Height)
	if err := p.DrawImage(img, place.Rect); err != nil {
		r.warn(item.ID, wrapParse(err))
	}
	r.emit(item.ID, p)
	r.logger.Debug("image placed", "source", item.ID, "scale", place.Scale)
}

// emit counts a page and stamps it when numbering is on.
func (r *run) emit(source string, p Page) {
	r.pages++
	if err := r.numberer.stamp(p, r.pages); err != nil {
		r.warn(source, fmt.Errorf("stamping page %d: %w", r.pages, err))
	}
}

// wrapParse makes sure a per-source error matches ErrSourceParse.
func wrapParse(err error) error {
	if errors.Is(err, ErrSourceParse) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSourceParse, err)
}
