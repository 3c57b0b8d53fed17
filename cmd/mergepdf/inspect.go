package main

import (
	"fmt"
	"io"
	"math"
	"os"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/hints"
	"github.com/alnah/go-mergepdf/internal/yamlutil"
)

// sizeTolerance absorbs rounding in MediaBox values, in points.
const sizeTolerance = 1.0

// pageReport describes one page for inspect output.
type pageReport struct {
	Page   int     `yaml:"page"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Paper  string  `yaml:"paper,omitempty"`
}

// fileReport describes one PDF for inspect output.
type fileReport struct {
	File      string       `yaml:"file"`
	Pages     int          `yaml:"pages"`
	Encrypted bool         `yaml:"encrypted"`
	Sizes     []pageReport `yaml:"sizes"`
}

// runInspect prints page count and page sizes of each PDF.
func runInspect(args []string, env *Environment) error {
	flags, paths, err := parseInspectFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.format != "text" && flags.format != "yaml" {
		return fmt.Errorf("%w: --format must be text or yaml, got %q", ErrUsage, flags.format)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: inspect needs at least one PDF", ErrNoInput)
	}

	reports := make([]fileReport, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- user-provided input path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		info, err := mergepdf.Inspect(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		reports = append(reports, newFileReport(p, info))
	}

	if flags.format == "yaml" {
		return yamlutil.Encode(env.Stdout, reports)
	}
	for _, r := range reports {
		printFileReport(env.Stdout, r)
	}
	return nil
}

func newFileReport(path string, info *mergepdf.PDFInfo) fileReport {
	r := fileReport{File: path, Pages: info.PageCount, Encrypted: info.Encrypted}
	for i, s := range info.Pages {
		r.Sizes = append(r.Sizes, pageReport{
			Page:   i + 1,
			Width:  math.Round(s.Width*100) / 100,
			Height: math.Round(s.Height*100) / 100,
			Paper:  paperName(s),
		})
	}
	return r
}

func printFileReport(w io.Writer, r fileReport) {
	fmt.Fprintf(w, "%s: %d pages\n", r.File, r.Pages)
	if r.Encrypted {
		fmt.Fprintf(w, "  encrypted%s\n", hints.ForEncryptedSource())
	}
	for _, p := range r.Sizes {
		if p.Paper != "" {
			fmt.Fprintf(w, "  page %d: %g x %g pt (%s)\n", p.Page, p.Width, p.Height, p.Paper)
		} else {
			fmt.Fprintf(w, "  page %d: %g x %g pt\n", p.Page, p.Width, p.Height)
		}
	}
}

// paperName names a standard page size, e.g. "a4 landscape".
func paperName(s mergepdf.Size) string {
	for _, size := range []string{mergepdf.PageSizeLetter, mergepdf.PageSizeLegal, mergepdf.PageSizeA4} {
		for _, o := range []string{mergepdf.OrientationPortrait, mergepdf.OrientationLandscape} {
			base := mergepdf.BaseSize(size, o)
			if math.Abs(base.Width-s.Width) <= sizeTolerance && math.Abs(base.Height-s.Height) <= sizeTolerance {
				return size + " " + o
			}
		}
	}
	return ""
}
