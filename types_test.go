package mergepdf

import (
	"errors"
	"math"
	"testing"
)

func TestNewSourceItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mediaType string
		wantKind  SourceKind
		wantType  string
		wantErr   bool
	}{
		{name: "pdf", mediaType: "application/pdf", wantKind: KindPDF, wantType: MediaTypePDF},
		{name: "uppercase png", mediaType: "IMAGE/PNG", wantKind: KindImage, wantType: MediaTypePNG},
		{name: "jpeg with parameters", mediaType: "image/jpeg; q=0.9", wantKind: KindImage, wantType: MediaTypeJPEG},
		{name: "octet stream", mediaType: "application/octet-stream", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewSourceItem("f", tt.mediaType, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedInput) {
					t.Fatalf("NewSourceItem(%q) error = %v, want ErrUnsupportedInput", tt.mediaType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSourceItem(%q) unexpected error: %v", tt.mediaType, err)
			}
			if got.Kind != tt.wantKind || got.MediaType != tt.wantType {
				t.Errorf("NewSourceItem(%q) = %+v, want kind %q type %q", tt.mediaType, got, tt.wantKind, tt.wantType)
			}
		})
	}
}

func TestMargins_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		margins Margins
		wantErr bool
	}{
		{name: "zero", margins: Margins{}},
		{name: "default", margins: UniformMargins(DefaultMargin)},
		{name: "larger than page is allowed", margins: UniformMargins(20)},
		{name: "negative top", margins: Margins{Top: -0.1}, wantErr: true},
		{name: "negative left", margins: Margins{Left: -1}, wantErr: true},
		{name: "NaN", margins: Margins{Right: math.NaN()}, wantErr: true},
		{name: "infinite", margins: Margins{Bottom: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.margins.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidMargin) {
				t.Errorf("Validate() error = %v, want ErrInvalidMargin", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestLayoutConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*LayoutConfig)
		wantErr error
	}{
		{name: "default is valid", mutate: func(*LayoutConfig) {}},
		{name: "empty size and orientation", mutate: func(c *LayoutConfig) { c.PageSize, c.Orientation = "", "" }},
		{name: "uppercase values", mutate: func(c *LayoutConfig) { c.PageSize, c.Orientation = "LEGAL", "Landscape" }},
		{name: "unknown size", mutate: func(c *LayoutConfig) { c.PageSize = "tabloid" }, wantErr: ErrInvalidPageSize},
		{name: "unknown orientation", mutate: func(c *LayoutConfig) { c.Orientation = "sideways" }, wantErr: ErrInvalidOrientation},
		{name: "negative margin", mutate: func(c *LayoutConfig) { c.Margins.Top = -1 }, wantErr: ErrInvalidMargin},
		{name: "page numbers default position", mutate: func(c *LayoutConfig) { c.PageNumbers = &PageNumbers{} }},
		{name: "page numbers right", mutate: func(c *LayoutConfig) { c.PageNumbers = &PageNumbers{Position: "Bottom-Right"} }},
		{name: "page numbers top", mutate: func(c *LayoutConfig) { c.PageNumbers = &PageNumbers{Position: "top-left"} }, wantErr: ErrInvalidPageNumberPosition},
		{name: "valid creation date", mutate: func(c *LayoutConfig) { c.Metadata.CreationDate = "2025-03-14" }},
		{name: "impossible creation date", mutate: func(c *LayoutConfig) { c.Metadata.CreationDate = "2025-02-30" }, wantErr: ErrInvalidCreationDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultLayout()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestPageNumbers_Position(t *testing.T) {
	t.Parallel()

	var nilNumbers *PageNumbers
	tests := []struct {
		name string
		pn   *PageNumbers
		want string
	}{
		{"nil", nilNumbers, PositionBottomLeft},
		{"empty", &PageNumbers{}, PositionBottomLeft},
		{"right", &PageNumbers{Position: PositionBottomRight}, PositionBottomRight},
		{"right any case", &PageNumbers{Position: "BOTTOM-RIGHT"}, PositionBottomRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.pn.position(); got != tt.want {
				t.Errorf("position() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWarning_String(t *testing.T) {
	t.Parallel()

	w := Warning{Source: "scan.png", Err: ErrSourceParse}
	if got, want := w.String(), "scan.png: source could not be parsed"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	doc := Warning{Err: ErrPasswordMismatch}
	if got := doc.String(); got != ErrPasswordMismatch.Error() {
		t.Errorf("String() = %q, want %q", got, ErrPasswordMismatch.Error())
	}
}

func TestAssembledDocument_HasWarnings(t *testing.T) {
	t.Parallel()

	var nilDoc *AssembledDocument
	if nilDoc.HasWarnings() {
		t.Error("nil document reports warnings")
	}
	if (&AssembledDocument{}).HasWarnings() {
		t.Error("empty document reports warnings")
	}
	if !(&AssembledDocument{Warnings: []Warning{{Err: ErrSourceParse}}}).HasWarnings() {
		t.Error("document with a warning reports none")
	}
}
