package main

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
)

// batchJob is one configured document ready to run.
type batchJob struct {
	name string
	plan *mergePlan
	err  error // planning failure, reported without running
}

// runBatch builds every job of the config file through the assembler pool.
// Positional arguments select jobs by name.
func runBatch(ctx context.Context, args []string, env *Environment) error {
	flags, names, err := parseBatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if flags.common.config == "" && envCfg.ConfigPath == "" {
		return fmt.Errorf("%w: batch needs --config", ErrUsage)
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Jobs) == 0 {
		return ErrNoJobs
	}

	maxSources, err := resolveMaxSources(flags.maxSources, envCfg)
	if err != nil {
		return err
	}
	jobs, err := planJobs(cfg, names, maxSources, env.Now())
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := mergepdf.ResolvePoolSize(workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := mergepdf.NewAssemblerPool(poolSize,
		mergepdf.WithLogger(newLogger(env.Stderr, flags.common.verbose)),
		mergepdf.WithMaxSources(maxSources),
	)
	defer pool.Close()

	results := runJobs(ctx, &poolAdapter{pool: pool}, jobs)

	failed := printResults(results, maxSources, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrJobsFailed, failed, len(results))
	}
	return nil
}

// planJobs resolves the selected jobs. Unnamed jobs are called job-N.
// A job whose inputs or layout cannot be resolved keeps its error and
// fails on its own.
func planJobs(cfg *config.Config, names []string, maxSources int, now time.Time) ([]batchJob, error) {
	var jobs []batchJob
	seen := make(map[string]bool, len(names))
	for i, job := range cfg.Jobs {
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}
		if len(names) > 0 && !slices.Contains(names, name) {
			continue
		}
		seen[name] = true

		jobCfg, err := cfg.ForJob(i)
		if err != nil {
			return nil, err
		}
		plan, err := planFromConfig(jobCfg, nil, maxSources, now)
		jobs = append(jobs, batchJob{name: name, plan: plan, err: err})
	}
	for _, n := range names {
		if !seen[n] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownJob, n)
		}
	}
	return jobs, nil
}

// runJobs processes jobs concurrently using the pool.
func runJobs(ctx context.Context, pool Pool, jobs []batchJob) []assembleResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]assembleResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			a := pool.Acquire()
			if a == nil {
				for idx := range queue {
					results[idx] = assembleResult{Name: jobs[idx].name, Err: context.Canceled}
				}
				return
			}
			defer pool.Release(a)

			for idx := range queue {
				results[idx] = runJob(ctx, a, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// runJob runs one job unless it failed planning or the batch was cancelled.
func runJob(ctx context.Context, a assembler, job batchJob) assembleResult {
	if job.err != nil {
		return assembleResult{Name: job.name, Err: job.err}
	}
	if err := ctx.Err(); err != nil {
		return assembleResult{Name: job.name, OutputPath: job.plan.output, Err: err}
	}
	res := assembleAndWrite(ctx, a, job.plan)
	res.Name = job.name
	return res
}

// ResultSummary holds the count of succeeded and failed jobs.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed jobs.
func countResults(results []assembleResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs job results in config order and returns the failure count.
func printResults(results []assembleResult, limit int, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "warning: %s: %s%s\n", r.Name, w, warningHint(w.Err, limit))
		}
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Name, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.Name, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%d pages)\n", r.OutputPath, r.Pages)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
