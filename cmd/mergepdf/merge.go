package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
	"github.com/alnah/go-mergepdf/internal/fileutil"
	"github.com/alnah/go-mergepdf/internal/hints"
)

// mergePlan is everything one document needs, resolved from config, env and flags.
type mergePlan struct {
	inputs     []string
	output     string
	layout     mergepdf.LayoutConfig
	maxSources int
}

// planFromConfig expands inputs and builds the layout of a validated config.
// args, when present, replace the configured input files.
func planFromConfig(cfg *config.Config, args []string, maxSources int, now time.Time) (*mergePlan, error) {
	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Input.Files
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: pass files or set input.files in the config", ErrNoInput)
	}

	files, err := fileutil.ExpandInputs(inputs, cfg.Input.DefaultDir)
	if err != nil {
		return nil, fmt.Errorf("resolving inputs: %w", err)
	}

	layout, err := buildLayout(cfg, now)
	if err != nil {
		return nil, err
	}

	output := cfg.Output.File
	if output == "" {
		output = config.DefaultOutputFile
	}

	return &mergePlan{inputs: files, output: output, layout: layout, maxSources: maxSources}, nil
}

// prepareMerge parses merge/watch arguments into a plan.
func prepareMerge(name string, args []string, env *Environment) (*mergeFlags, *mergePlan, error) {
	flags, positional, err := parseMergeFlags(name, args, env.Stderr)
	if err != nil {
		return nil, nil, err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, nil, err
	}
	applyMergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	maxSources, err := resolveMaxSources(flags.maxSources, envCfg)
	if err != nil {
		return nil, nil, err
	}

	plan, err := planFromConfig(cfg, positional, maxSources, env.Now())
	if err != nil {
		return nil, nil, err
	}
	return flags, plan, nil
}

// runMerge assembles the inputs into one PDF.
func runMerge(ctx context.Context, args []string, env *Environment) error {
	flags, plan, err := prepareMerge("merge", args, env)
	if err != nil {
		return err
	}

	a := mergepdf.NewAssembler(
		mergepdf.WithLogger(newLogger(env.Stderr, flags.common.verbose)),
		mergepdf.WithMaxSources(plan.maxSources),
	)

	res := assembleAndWrite(ctx, a, plan)
	printWarnings(env.Stderr, res.Warnings, plan.maxSources)
	if res.Err != nil {
		return res.Err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%d pages)\n", res.OutputPath, res.Pages)
	}
	return nil
}

// assembleResult holds the outcome of one document.
type assembleResult struct {
	Name       string
	OutputPath string
	Pages      int
	Warnings   []mergepdf.Warning
	Err        error
	Duration   time.Duration
}

// assembler is the part of *mergepdf.Assembler the CLI uses.
type assembler interface {
	Assemble(ctx context.Context, items []mergepdf.SourceItem, cfg mergepdf.LayoutConfig) (*mergepdf.AssembledDocument, error)
}

// Compile-time interface implementation check.
var _ assembler = (*mergepdf.Assembler)(nil)

// assembleAndWrite loads the plan's inputs, assembles them and writes the output.
func assembleAndWrite(ctx context.Context, a assembler, plan *mergePlan) (res assembleResult) {
	start := time.Now()
	res.OutputPath = plan.output
	defer func() { res.Duration = time.Since(start) }()

	set, warnings, err := loadSources(ctx, plan.inputs, plan.maxSources)
	res.Warnings = warnings
	if err != nil {
		res.Err = err
		return res
	}

	doc, err := a.Assemble(ctx, set.Snapshot(), plan.layout)
	if doc != nil {
		res.Warnings = append(res.Warnings, doc.Warnings...)
	}
	if err != nil {
		if errors.Is(err, mergepdf.ErrSerialize) && set.Len() > 0 {
			err = fmt.Errorf("%w%s", err, hints.ForNoPages())
		}
		res.Err = err
		return res
	}

	if err := writeOutput(plan.output, doc.PDF); err != nil {
		res.Err = err
		return res
	}
	res.Pages = doc.PageCount
	return res
}

// writeOutput creates the parent directory and replaces path atomically.
func writeOutput(path string, pdf []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating output directory: %w%s", ErrWritePDF, err, hints.ForOutputDirectory())
		}
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := fileutil.WriteFileAtomic(path, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}
