package mergepdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo describes an existing PDF.
type PDFInfo struct {
	PageCount int
	Pages     []Size // media box of each page, in order
	Encrypted bool
}

var disableConfigDir sync.Once

// pdfcpuConfig returns a relaxed validation config that never touches the
// user's config directory.
func pdfcpuConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect parses data and reports page count and page sizes.
// Returns an error wrapping ErrSourceParse if data is not a readable PDF.
func Inspect(data []byte) (info *PDFInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("%w: %v", ErrSourceParse, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrSourceParse)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceParse, err)
	}

	info = &PDFInfo{
		PageCount: ctx.PageCount,
		Pages:     make([]Size, ctx.PageCount),
		Encrypted: ctx.Encrypt != nil,
	}
	for i := range info.Pages {
		size, err := pageSize(ctx, i+1)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrSourceParse, i+1, err)
		}
		info.Pages[i] = size
	}
	return info, nil
}

// pageSize returns the media box of page pageNr as displayed. Pages without
// their own /MediaBox inherit the nearest one up the page tree.
func pageSize(ctx *model.Context, pageNr int) (Size, error) {
	_, _, attrs, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return Size{}, err
	}
	if attrs == nil || attrs.MediaBox == nil {
		return Size{}, errors.New("no media box")
	}
	size := Size{Width: attrs.MediaBox.Width(), Height: attrs.MediaBox.Height()}
	if attrs.Rotate%180 != 0 {
		size.Width, size.Height = size.Height, size.Width
	}
	return size, nil
}
