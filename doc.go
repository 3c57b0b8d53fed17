// Package mergepdf assembles one PDF from an ordered mix of images and PDFs.
//
// # Quick Start
//
// Collect sources in an OrderedInputSet, then assemble a snapshot:
//
//	set := mergepdf.NewOrderedInputSet(mergepdf.DefaultMaxSources)
//	if _, err := set.Add("scan.png", "image/png", pngBytes); err != nil {
//	    log.Println(err) // unsupported type, set full, or duplicate name
//	}
//	set.Add("report.pdf", "application/pdf", pdfBytes)
//
//	doc, err := mergepdf.NewAssembler().Assemble(ctx, set.Snapshot(), mergepdf.DefaultLayout())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range doc.Warnings {
//	    log.Println("warning:", w)
//	}
//	os.WriteFile("merged.pdf", doc.PDF, 0644)
//
// # Assembly
//
// Sources are processed strictly in order:
//
//  1. Every page of a PDF source is copied, keeping its own size.
//  2. A JPEG or PNG source becomes one page of the configured size; the image
//     is scaled down (never up) to fit inside the margins and centered.
//  3. With LayoutConfig.PageNumbers set, every emitted page is stamped with a
//     run-wide counter starting at 1.
//
// A source that cannot be read is skipped and reported in
// AssembledDocument.Warnings. Only serialization failures, invalid margins,
// an empty source list and cancellation are returned as errors.
//
// # Layout
//
//	cfg := mergepdf.LayoutConfig{
//	    PageSize:    mergepdf.PageSizeA4,
//	    Orientation: mergepdf.OrientationLandscape,
//	    Margins:     mergepdf.UniformMargins(0.5),
//	    PageNumbers: &mergepdf.PageNumbers{Position: mergepdf.PositionBottomRight},
//	    Metadata:    mergepdf.Metadata{Title: "Receipts", CreationDate: "2025-03-14"},
//	}
//
// Passwords are accepted but never applied: Assemble reports
// ErrPasswordUnsupported, or ErrPasswordMismatch when the pair differs.
//
// # Live Preview
//
// Session runs one assembly at a time and drops results that a newer
// Refresh has superseded:
//
//	s := mergepdf.NewSession(nil)
//	doc, err := s.Refresh(ctx, set.Snapshot(), cfg)
//	if errors.Is(err, mergepdf.ErrSuperseded) {
//	    return // a newer refresh owns the preview
//	}
//
// # Parallel Processing
//
// For batch jobs, AssemblerPool bounds concurrent assemblies:
//
//	pool := mergepdf.NewAssemblerPool(mergepdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	a := pool.Acquire()
//	defer pool.Release(a)
//	doc, err := a.Assemble(ctx, items, cfg)
//
// # Codec
//
// The default Codec builds documents with gofpdf, copies pages with gofpdi and
// validates sources with pdfcpu. Supply another implementation with WithCodec.
package mergepdf
