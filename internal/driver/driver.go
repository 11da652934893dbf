// Package driver advances a lattice generation by generation and hands each
// generation to observers.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"meca/internal/logging"
	"meca/internal/sims/meca"
	pcore "meca/pkg/core"
)

// Observer receives every generation before it is stepped.
type Observer interface {
	Observe(row *meca.Row) error
}

// Func adapts a function to Observer.
type Func func(row *meca.Row) error

// Observe calls f(row).
func (f Func) Observe(row *meca.Row) error { return f(row) }

// Options tune a run.
type Options struct {
	// RNG seeds the lattice and drives the schedule. Nil uses cfg.Seed.
	RNG meca.Source
	// Logger receives progress at debug level. Nil discards.
	Logger *slog.Logger
	// LogEvery logs a progress line every n generations when positive.
	LogEvery int
}

// Run builds generation 0 from cfg and observes generations 0..steps-1,
// advancing after each. It returns the final generation (t == steps).
// Cancelling ctx stops the run between generations.
func Run(ctx context.Context, cfg meca.Config, steps int, opts Options, observers ...Observer) (*meca.Row, error) {
	if steps < 0 {
		return nil, fmt.Errorf("driver: negative step count %d", steps)
	}
	rng := opts.RNG
	if rng == nil {
		rng = pcore.NewRNG(cfg.Seed)
	}
	log := logging.OrDiscard(opts.Logger)

	row, err := meca.NewRow(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("driver: initial row: %w", err)
	}
	log.Debug("run started", "rule", cfg.Rule, "width", cfg.Width, "alpha", cfg.Alpha,
		"boundary", cfg.Boundary.String(), "policy", cfg.Policy.String(), "steps", steps)

	for row.T() < steps {
		if err := ctx.Err(); err != nil {
			return row, err
		}
		for _, o := range observers {
			if err := o.Observe(row); err != nil {
				return row, fmt.Errorf("driver: observe t=%d: %w", row.T(), err)
			}
		}
		next, err := row.Next()
		if err != nil {
			return row, fmt.Errorf("driver: step t=%d: %w", row.T(), err)
		}
		row = next
		if opts.LogEvery > 0 && row.T()%opts.LogEvery == 0 {
			log.Debug("progress", "t", row.T(), "ones", row.Ones(), "value", row.Value())
		}
	}
	log.Debug("run finished", "t", row.T(), "density", row.Density())
	return row, nil
}
