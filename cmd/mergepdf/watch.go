package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mergepdf "github.com/alnah/go-mergepdf"
)

// watcher rebuilds the output whenever an input changes. Only the newest
// build is written; older builds still running are dropped by the session.
type watcher struct {
	plan    *mergePlan
	session *mergepdf.Session
	quiet   bool

	outMu sync.Mutex // serializes output writes and messages
	out   io.Writer
	errw  io.Writer
	wg    sync.WaitGroup
}

// runWatch builds once, then again after every change to an input file,
// until the context is cancelled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, plan, err := prepareMerge("watch", args, env)
	if err != nil {
		return err
	}
	if flags.debounce <= 0 {
		flags.debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	// Directories are watched, not files: editors often replace a file by
	// renaming, which drops a watch placed on the file itself.
	watched := make(map[string]bool, len(plan.inputs))
	dirs := make(map[string]bool)
	for _, in := range plan.inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", in, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := fsw.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	a := mergepdf.NewAssembler(
		mergepdf.WithLogger(newLogger(env.Stderr, flags.common.verbose)),
		mergepdf.WithMaxSources(plan.maxSources),
	)
	w := &watcher{
		plan:    plan,
		session: mergepdf.NewSession(a),
		quiet:   flags.common.quiet,
		out:     env.Stdout,
		errw:    env.Stderr,
	}
	defer w.wg.Wait()

	if !w.quiet {
		fmt.Fprintf(env.Stdout, "Watching %d files, writing %s (Ctrl-C to stop)\n", len(plan.inputs), plan.output)
	}
	w.refresh(ctx)

	debounce := time.NewTimer(flags.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
				continue
			}
			debounce.Reset(flags.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.printf(w.errw, "warning: watcher: %v\n", err)
		case <-debounce.C:
			w.refresh(ctx)
		}
	}
}

// refresh starts a build in the background. A newer refresh cancels it.
func (w *watcher) refresh(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.build(ctx)
	}()
}

func (w *watcher) build(ctx context.Context) {
	start := time.Now()

	set, warnings, err := loadSources(ctx, w.plan.inputs, w.plan.maxSources)
	if err != nil {
		if ctx.Err() == nil {
			w.printf(w.errw, "error: %v\n", err)
		}
		return
	}

	doc, err := w.session.Refresh(ctx, set.Snapshot(), w.plan.layout)
	if errors.Is(err, mergepdf.ErrSuperseded) || ctx.Err() != nil {
		return
	}

	w.outMu.Lock()
	defer w.outMu.Unlock()

	if doc != nil {
		warnings = append(warnings, doc.Warnings...)
	}
	printWarnings(w.errw, warnings, w.plan.maxSources)
	if err != nil {
		fmt.Fprintf(w.errw, "error: %v\n", err)
		return
	}
	// A newer build may have finished while this one waited for the lock.
	if w.session.Latest() != doc {
		return
	}
	if err := writeOutput(w.plan.output, doc.PDF); err != nil {
		fmt.Fprintf(w.errw, "error: %v\n", err)
		return
	}
	if !w.quiet {
		fmt.Fprintf(w.out, "Updated %s (%d pages, %v)\n", w.plan.output, doc.PageCount, time.Since(start).Round(time.Millisecond))
	}
}

func (w *watcher) printf(dst io.Writer, format string, args ...any) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	fmt.Fprintf(dst, format, args...)
}
