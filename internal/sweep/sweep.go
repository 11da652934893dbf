// Package sweep runs the same experiment over many rule, alpha, boundary and
// policy combinations on a bounded pool of goroutines.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"meca/internal/driver"
	"meca/internal/logging"
	"meca/internal/sims/meca"
	"meca/internal/stats"
	"meca/internal/store"
	pcore "meca/pkg/core"
)

// Grid lists the values combined by a sweep. Empty lists fall back to the
// base configuration's value.
type Grid struct {
	Rules      []int
	Alphas     []float64
	Boundaries []meca.Boundary
	Policies   []meca.Policy
}

// Job is one simulation of a sweep.
type Job struct {
	Index  int
	Config meca.Config
}

// Plan expands the grid over base, rules outermost. Job i runs with seed
// base.Seed+i, so every job replays on its own through driver.Run.
func Plan(base meca.Config, g Grid) []Job {
	rules := g.Rules
	if len(rules) == 0 {
		rules = []int{base.Rule}
	}
	alphas := g.Alphas
	if len(alphas) == 0 {
		alphas = []float64{base.Alpha}
	}
	boundaries := g.Boundaries
	if len(boundaries) == 0 {
		boundaries = []meca.Boundary{base.Boundary}
	}
	policies := g.Policies
	if len(policies) == 0 {
		policies = []meca.Policy{base.Policy}
	}

	var jobs []Job
	for _, rule := range rules {
		for _, alpha := range alphas {
			for _, b := range boundaries {
				for _, p := range policies {
					cfg := base
					cfg.Rule, cfg.Alpha, cfg.Boundary, cfg.Policy = rule, alpha, b, p
					cfg.Workers = 1
					cfg.Seed = base.Seed + int64(len(jobs))
					jobs = append(jobs, Job{Index: len(jobs), Config: cfg})
				}
			}
		}
	}
	return jobs
}

// Result is the outcome of one job.
type Result struct {
	Job
	Summary     stats.Summary
	Sensitivity float64
	Final       string
}

// Runner executes jobs.
type Runner struct {
	// Workers bounds concurrent jobs; <= 0 uses runtime.NumCPU().
	Workers   int
	Steps     int
	StartStep int
	Logger    *slog.Logger
	// Store, when set, receives every result in one transaction.
	Store *store.Store
}

// Run executes all jobs and returns their results sorted by rule, then alpha,
// then job index. The first failing job cancels the rest.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	log := logging.OrDiscard(r.Logger)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log.Info("sweep started", "jobs", len(jobs), "workers", workers, "steps", r.Steps)

	results := make([]Result, len(jobs))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.runJob(gctx, job)
			if err != nil {
				return fmt.Errorf("sweep job %d (%s alpha=%.3f %s %s): %w",
					job.Index, meca.Rule(job.Config.Rule), job.Config.Alpha, job.Config.Boundary, job.Config.Policy, err)
			}
			results[i] = res
			mu.Lock()
			done++
			log.Debug("job finished", "index", job.Index, "done", done, "mean", res.Summary.Mean)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		ra, rb := results[a].Config, results[b].Config
		if ra.Rule != rb.Rule {
			return ra.Rule < rb.Rule
		}
		if ra.Alpha != rb.Alpha {
			return ra.Alpha < rb.Alpha
		}
		return results[a].Index < results[b].Index
	})

	if r.Store != nil {
		if err := r.Store.SaveAll(ctx, Records(results, r.Steps)); err != nil {
			return results, fmt.Errorf("sweep: store results: %w", err)
		}
	}
	log.Info("sweep finished", "jobs", len(results))
	return results, nil
}

func (r *Runner) runJob(ctx context.Context, job Job) (Result, error) {
	c := stats.NewCollector(r.StartStep)
	final, err := driver.Run(ctx, job.Config, r.Steps, driver.Options{RNG: pcore.NewRNG(job.Config.Seed)},
		driver.Func(func(row *meca.Row) error {
			c.Observe(row)
			return nil
		}))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Job:         job,
		Summary:     c.Summary(),
		Sensitivity: meca.Rule(job.Config.Rule).Sensitivity(),
		Final:       final.String(),
	}, nil
}

// Records converts results to store rows.
func Records(results []Result, steps int) []store.Run {
	out := make([]store.Run, len(results))
	for i, res := range results {
		cfg := res.Config
		out[i] = store.Run{
			Rule:        cfg.Rule,
			Width:       cfg.Width,
			Steps:       steps,
			Alpha:       cfg.Alpha,
			Boundary:    cfg.Boundary.String(),
			Policy:      cfg.Policy.String(),
			Pattern:     cfg.Pattern.String(),
			Seed:        cfg.Seed,
			Mean:        res.Summary.Mean,
			Variance:    res.Summary.Variance,
			Samples:     res.Summary.Samples,
			Sensitivity: res.Sensitivity,
		}
	}
	return out
}
