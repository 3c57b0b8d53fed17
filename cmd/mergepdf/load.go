package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/fileutil"
)

// sourceFile is one input read from disk.
type sourceFile struct {
	path      string
	id        string
	mediaType string
	data      []byte
}

// readSources reads every path concurrently. Results keep the input order.
func readSources(ctx context.Context, paths []string) ([]sourceFile, error) {
	files := make([]sourceFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p) // #nosec G304 -- user-provided input path
			if err != nil {
				return fmt.Errorf("%w: %w", ErrReadSource, err)
			}
			files[i] = sourceFile{
				path:      p,
				id:        filepath.Base(p),
				mediaType: fileutil.DetectMediaType(p, data),
				data:      data,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// collectSources adds files to a fresh input set in order. Files the set
// rejects (unsupported type, set full, duplicate name) become warnings and
// the rest still go in.
func collectSources(files []sourceFile, limit int) (*mergepdf.OrderedInputSet, []mergepdf.Warning) {
	set := mergepdf.NewOrderedInputSet(limit)
	var warnings []mergepdf.Warning
	for _, f := range files {
		if _, err := set.Add(f.id, f.mediaType, f.data); err != nil {
			warnings = append(warnings, mergepdf.Warning{Source: f.path, Err: err})
		}
	}
	return set, warnings
}

// loadSources reads paths and fills an input set of the given capacity.
func loadSources(ctx context.Context, paths []string, limit int) (*mergepdf.OrderedInputSet, []mergepdf.Warning, error) {
	files, err := readSources(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	set, warnings := collectSources(files, limit)
	return set, warnings, nil
}
