package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mergepdf "github.com/alnah/go-mergepdf"
)

func TestReadSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.png", "a.pdf", "b.jpg", "d"} {
		paths = append(paths, writeFile(t, filepath.Join(dir, name), []byte(name)))
	}

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		files, err := readSources(context.Background(), paths)
		if err != nil {
			t.Fatalf("readSources() error = %v", err)
		}
		wantTypes := []string{"image/png", "application/pdf", "image/jpeg", "text/plain; charset=utf-8"}
		for i, f := range files {
			if f.id != filepath.Base(paths[i]) || string(f.data) != f.id {
				t.Errorf("files[%d] = %s %q", i, f.id, f.data)
			}
			if f.mediaType != wantTypes[i] {
				t.Errorf("files[%d].mediaType = %q, want %q", i, f.mediaType, wantTypes[i])
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := readSources(context.Background(), append(paths, filepath.Join(dir, "missing.png")))
		if !errors.Is(err, ErrReadSource) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want ErrReadSource wrapping os.ErrNotExist", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := readSources(ctx, paths); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestCollectSources(t *testing.T) {
	t.Parallel()

	files := []sourceFile{
		{path: "in/1.png", id: "1.png", mediaType: "image/png", data: []byte("1")},
		{path: "in/notes.txt", id: "notes.txt", mediaType: "text/plain", data: []byte("n")},
		{path: "in/2.pdf", id: "2.pdf", mediaType: "application/pdf", data: []byte("2")},
		{path: "other/1.png", id: "1.png", mediaType: "image/png", data: []byte("dup")},
		{path: "in/3.png", id: "3.png", mediaType: "image/png", data: []byte("3")},
	}

	set, warnings := collectSources(files, 2)

	if got := set.IDs(); len(got) != 2 || got[0] != "1.png" || got[1] != "2.pdf" {
		t.Errorf("IDs() = %v, want [1.png 2.pdf]", got)
	}
	wantErrs := []struct {
		source string
		err    error
	}{
		{"in/notes.txt", mergepdf.ErrUnsupportedInput},
		{"other/1.png", mergepdf.ErrCapacityExceeded},
		{"in/3.png", mergepdf.ErrCapacityExceeded},
	}
	if len(warnings) != len(wantErrs) {
		t.Fatalf("warnings = %v, want %d", warnings, len(wantErrs))
	}
	for i, w := range wantErrs {
		if warnings[i].Source != w.source || !errors.Is(warnings[i].Err, w.err) {
			t.Errorf("warnings[%d] = %v, want %s: %v", i, warnings[i], w.source, w.err)
		}
	}
}
