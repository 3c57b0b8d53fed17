package main

import (
	"errors"
	"strings"
	"testing"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
	"github.com/alnah/go-mergepdf/internal/dateutil"
)

func fptr(v float64) *float64 { return &v }

func TestApplyMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Margins.All = fptr(1)
		cfg.Metadata.Title = "From config"
		f := &mergeFlags{
			output:   "x.pdf",
			page:     pageFlags{size: "a4", left: fptr(0)},
			metadata: metadataFlags{title: "From flag"},
		}

		applyMergeFlags(f, cfg)

		if cfg.Output.File != "x.pdf" || cfg.Page.Size != "a4" {
			t.Errorf("output/page = %q/%q", cfg.Output.File, cfg.Page.Size)
		}
		top, _, _, left := cfg.Margins.Resolve()
		if top != 1 || left != 0 {
			t.Errorf("top, left = %v, %v, want 1, 0", top, left)
		}
		if cfg.Metadata.Title != "From flag" {
			t.Errorf("Title = %q", cfg.Metadata.Title)
		}
	})

	t.Run("number position enables numbering", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyMergeFlags(&mergeFlags{numbers: numberFlags{position: "bottom-right"}}, cfg)
		if !cfg.PageNumbers.Enabled || cfg.PageNumbers.Position != "bottom-right" {
			t.Errorf("PageNumbers = %+v", cfg.PageNumbers)
		}
	})

	t.Run("no-page-numbers wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.PageNumbers.Enabled = true
		applyMergeFlags(&mergeFlags{numbers: numberFlags{enabled: true, disabled: true}}, cfg)
		if cfg.PageNumbers.Enabled {
			t.Error("PageNumbers.Enabled = true, want false")
		}
	})

	t.Run("empty flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Password = config.PasswordConfig{User: "a", Confirm: "a"}
		applyMergeFlags(&mergeFlags{}, cfg)
		if cfg.Password.User != "a" || cfg.Output.File != config.DefaultOutputFile {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}

func TestBuildLayout(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		layout, err := buildLayout(config.DefaultConfig(), fixedNow)
		if err != nil {
			t.Fatalf("buildLayout() error = %v", err)
		}
		if layout.PageSize != "letter" || layout.Orientation != "portrait" {
			t.Errorf("page = %s %s", layout.PageSize, layout.Orientation)
		}
		if layout.Margins != mergepdf.UniformMargins(config.DefaultMargin) {
			t.Errorf("Margins = %+v", layout.Margins)
		}
		if layout.PageNumbers != nil || layout.Password != nil {
			t.Error("numbering and password should be off")
		}
		if layout.Metadata.CreationDate != "2025-03-14" {
			t.Errorf("CreationDate = %q, want today", layout.Metadata.CreationDate)
		}
	})

	t.Run("everything set", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page = config.PageConfig{Size: "A4", Orientation: "Landscape"}
		cfg.Margins = config.MarginsConfig{All: fptr(1), Bottom: fptr(0.25)}
		cfg.PageNumbers = config.PageNumbersConfig{Enabled: true, Position: "Bottom-Right"}
		cfg.Metadata = config.MetadataConfig{Title: "T", Author: "A", Subject: "S", Date: "2024-12-31"}
		cfg.Password = config.PasswordConfig{User: "p", Confirm: "q"}

		layout, err := buildLayout(cfg, fixedNow)
		if err != nil {
			t.Fatalf("buildLayout() error = %v", err)
		}
		if layout.PageSize != "a4" || layout.Orientation != "landscape" {
			t.Errorf("page = %s %s", layout.PageSize, layout.Orientation)
		}
		want := mergepdf.Margins{Top: 1, Right: 1, Bottom: 0.25, Left: 1}
		if layout.Margins != want {
			t.Errorf("Margins = %+v, want %+v", layout.Margins, want)
		}
		if layout.PageNumbers == nil || layout.PageNumbers.Position != "bottom-right" {
			t.Errorf("PageNumbers = %+v", layout.PageNumbers)
		}
		if layout.Metadata.CreationDate != "2024-12-31" || layout.Metadata.Title != "T" {
			t.Errorf("Metadata = %+v", layout.Metadata)
		}
		if layout.Password == nil || layout.Password.Confirm != "q" {
			t.Errorf("Password = %+v", layout.Password)
		}
	})

	t.Run("invalid calendar date", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Metadata.Date = "yesterday"
		if _, err := buildLayout(cfg, fixedNow); !errors.Is(err, mergepdf.ErrInvalidCreationDate) {
			t.Errorf("error = %v, want ErrInvalidCreationDate", err)
		}
	})
}

func TestResolveCreationDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr error
	}{
		{value: "", want: ""},
		{value: "auto", want: "2025-03-14"},
		{value: "AUTO", want: "2025-03-14"},
		{value: "auto:long", want: "2025-03-14"},
		{value: "auto:DD/MM/YYYY", want: "2025-03-14"},
		{value: "auto:[unclosed", wantErr: dateutil.ErrInvalidDateFormat},
		{value: "2020-01-02", want: "2020-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := resolveCreationDate(tt.value, fixedNow)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveCreationDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestResolveMaxSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    int
		env     int
		want    int
		wantErr bool
	}{
		{name: "default", want: mergepdf.DefaultMaxSources},
		{name: "env", env: 20, want: 20},
		{name: "flag wins", flag: 5, env: 20, want: 5},
		{name: "negative flag", flag: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveMaxSources(tt.flag, &envConfig{MaxSources: tt.env})
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveMaxSources() = %d, %v, want %d", got, err, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, maxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{-1, maxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestTriedPaths(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig("surely-missing-config-name")
	paths := triedPaths(err)
	if len(paths) < 2 || !strings.HasSuffix(paths[0], "surely-missing-config-name.yaml") {
		t.Errorf("triedPaths() = %v", paths)
	}
	if triedPaths(errors.New("other")) != nil {
		t.Error("triedPaths(other) should be nil")
	}
}

func TestPrintWarnings(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	printWarnings(&buf, []mergepdf.Warning{
		{Source: "a.gif", Err: mergepdf.ErrUnsupportedImage},
		{Err: mergepdf.ErrPasswordUnsupported},
		{Source: "b.pdf", Err: mergepdf.ErrSourceParse},
	}, 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"warning: a.gif: unsupported image type",
		"  hint: supported formats",
		"warning: password protection is not supported",
		"  hint: the output is written unprotected",
		"warning: b.pdf: source could not be parsed",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %d lines", lines, len(want))
	}
	for i := range want {
		if !strings.HasPrefix(lines[i], want[i]) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], want[i])
		}
	}
}
