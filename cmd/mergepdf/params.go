package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
	"github.com/alnah/go-mergepdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadSource         = errors.New("failed to read source file")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoJobs             = errors.New("config defines no jobs")
	ErrUnknownJob         = errors.New("unknown job")
	ErrJobsFailed         = errors.New("batch jobs failed")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxWorkers caps --workers.
const maxWorkers = 32

// loadConfig loads the config named by the flag, then MERGEPDF_CONFIG, or
// the defaults, and applies environment overrides.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(triedPaths(err)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// triedPaths extracts the searched locations from a not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// applyMergeFlags merges CLI flags into config. CLI values override config values.
func applyMergeFlags(f *mergeFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.File = f.output
	}

	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	cfg.Margins = cfg.Margins.Merge(&config.MarginsConfig{
		All:    f.page.margin,
		Top:    f.page.top,
		Right:  f.page.right,
		Bottom: f.page.bottom,
		Left:   f.page.left,
	})

	if f.numbers.enabled || f.numbers.position != "" {
		cfg.PageNumbers.Enabled = true
	}
	if f.numbers.position != "" {
		cfg.PageNumbers.Position = f.numbers.position
	}
	if f.numbers.disabled {
		cfg.PageNumbers.Enabled = false
	}

	if f.metadata.title != "" {
		cfg.Metadata.Title = f.metadata.title
	}
	if f.metadata.author != "" {
		cfg.Metadata.Author = f.metadata.author
	}
	if f.metadata.subject != "" {
		cfg.Metadata.Subject = f.metadata.subject
	}
	if f.metadata.date != "" {
		cfg.Metadata.Date = f.metadata.date
	}

	if f.password.user != "" || f.password.confirm != "" {
		cfg.Password = config.PasswordConfig{User: f.password.user, Confirm: f.password.confirm}
	}
}

// buildLayout converts a validated config into a layout snapshot.
func buildLayout(cfg *config.Config, now time.Time) (mergepdf.LayoutConfig, error) {
	top, right, bottom, left := cfg.Margins.Resolve()

	date, err := resolveCreationDate(cfg.Metadata.Date, now)
	if err != nil {
		return mergepdf.LayoutConfig{}, err
	}

	layout := mergepdf.LayoutConfig{
		PageSize:    strings.ToLower(cfg.Page.Size),
		Orientation: strings.ToLower(cfg.Page.Orientation),
		Margins:     mergepdf.Margins{Top: top, Right: right, Bottom: bottom, Left: left},
		Metadata: mergepdf.Metadata{
			Title:        cfg.Metadata.Title,
			Author:       cfg.Metadata.Author,
			Subject:      cfg.Metadata.Subject,
			CreationDate: date,
		},
	}
	if cfg.PageNumbers.Enabled {
		layout.PageNumbers = &mergepdf.PageNumbers{Position: strings.ToLower(cfg.PageNumbers.Position)}
	}
	if cfg.Password.User != "" || cfg.Password.Confirm != "" {
		layout.Password = &mergepdf.Password{User: cfg.Password.User, Confirm: cfg.Password.Confirm}
	}

	if err := layout.Validate(); err != nil {
		return mergepdf.LayoutConfig{}, err
	}
	return layout, nil
}

// resolveCreationDate turns "auto" and "auto:FORMAT" into today's date.
// The information dictionary stores a timestamp, so the format only has to
// be valid; other values must be calendar dates.
func resolveCreationDate(value string, now time.Time) (string, error) {
	if !strings.HasPrefix(strings.ToLower(value), "auto") {
		return value, nil
	}
	if _, err := mergepdf.ResolveDate(value, now); err != nil {
		return "", fmt.Errorf("invalid date: %w", err)
	}
	return mergepdf.ResolveDate("auto", now)
}

// resolveMaxSources picks the flag, then MERGEPDF_MAX_SOURCES, then the default.
func resolveMaxSources(flagValue int, env *envConfig) (int, error) {
	switch {
	case flagValue < 0:
		return 0, fmt.Errorf("%w: --max-sources must be positive, got %d", ErrUsage, flagValue)
	case flagValue > 0:
		return flagValue, nil
	case env.MaxSources > 0:
		return env.MaxSources, nil
	default:
		return mergepdf.DefaultMaxSources, nil
	}
}

// validateWorkers checks the --workers flag. 0 means auto.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// newLogger returns a DEBUG text logger on w when verbose, nil otherwise.
// A nil logger keeps the library default, which discards.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// warningHint returns the hint for a warning, if any.
func warningHint(err error, limit int) string {
	switch {
	case errors.Is(err, mergepdf.ErrUnsupportedInput), errors.Is(err, mergepdf.ErrUnsupportedImage):
		return hints.ForUnsupportedInput()
	case errors.Is(err, mergepdf.ErrCapacityExceeded):
		return hints.ForCapacity(limit)
	case errors.Is(err, mergepdf.ErrPasswordUnsupported), errors.Is(err, mergepdf.ErrPasswordMismatch):
		return hints.ForPassword()
	default:
		return ""
	}
}

// printWarnings writes one "warning:" line per warning.
func printWarnings(w io.Writer, warnings []mergepdf.Warning, limit int) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s%s\n", warn, warningHint(warn.Err, limit))
	}
}
