package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRunWatch(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cover := writeFile(t, filepath.Join(dir, "in", "cover.png"), pngBytes(t, 8, 8))
	body := writeFile(t, filepath.Join(dir, "in", "body.pdf"), pdfBytes(t, 1))
	output := filepath.Join(dir, "out", "live.pdf")

	env, stdout, stderr := testEnv()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- runMain(ctx, []string{"mergepdf", "watch", "--debounce", "50ms", "-o", output, cover, body}, env)
	}()

	updates := func() int { return strings.Count(stdout.String(), "Updated "+output) }

	waitFor(t, "initial build", func() bool { return updates() >= 1 })
	if got := pageCount(t, output); got != 2 {
		t.Errorf("initial pages = %d, want 2", got)
	}

	writeFile(t, body, pdfBytes(t, 3))
	waitFor(t, "rebuild", func() bool { return updates() >= 2 && pageCount(t, output) == 4 })

	// Unrelated files in a watched directory do not trigger builds.
	before := updates()
	writeFile(t, filepath.Join(dir, "in", "notes.txt"), []byte("draft"))
	time.Sleep(300 * time.Millisecond)
	if got := updates(); got != before {
		t.Errorf("updates after unrelated write = %d, want %d", got, before)
	}

	cancel()
	select {
	case code := <-done:
		if code != ExitSuccess {
			t.Errorf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	if !strings.Contains(stdout.String(), "Watching 2 files") {
		t.Errorf("stdout = %q, want watch banner", stdout.String())
	}
}

func TestRunWatch_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no inputs", []string{"watch"}, ExitUsage},
		{"missing input", []string{"watch", filepath.Join(dir, "missing.png")}, ExitIO},
		{"bad debounce", []string{"watch", "--debounce", "soon", "x.png"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, stderr := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.want, stderr)
			}
		})
	}
}
