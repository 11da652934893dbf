package meca

import (
	"meca/internal/core"
	pcore "meca/pkg/core"
)

// Automaton adapts a lattice to core.Sim. It keeps the newest generation and
// a scrolling spacetime history whose top row is the current generation.
type Automaton struct {
	cfg  Config
	row  *Row
	prev *Row
	grid *core.ByteGrid
	line []uint8
}

// New builds an Automaton seeded with cfg.Seed.
func New(cfg Config) (*Automaton, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultConfig().Height
	}
	a := &Automaton{
		cfg:  cfg,
		grid: core.NewByteGrid(cfg.Width, cfg.Height),
		line: make([]uint8, cfg.Width),
	}
	if err := a.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the simulation identifier.
func (a *Automaton) Name() string { return "meca" }

// Size returns the spacetime view dimensions.
func (a *Automaton) Size() core.Size { return core.Size{W: a.grid.W, H: a.grid.H} }

// Cells exposes the spacetime buffer as palette indices, see Palette.
func (a *Automaton) Cells() []uint8 { return a.grid.Cells() }

// Row returns the current generation.
func (a *Automaton) Row() *Row { return a.row }

// Previous returns the generation before the current one, nil at t=0.
func (a *Automaton) Previous() *Row { return a.prev }

// Config returns the active configuration.
func (a *Automaton) Config() Config { return a.cfg }

// Reset rebuilds generation 0. A zero seed falls back to the configured one.
func (a *Automaton) Reset(seed int64) error {
	effective := seed
	if effective == 0 {
		effective = a.cfg.Seed
	}
	row, err := NewRow(a.cfg, pcore.NewRNG(effective))
	if err != nil {
		return err
	}
	a.row, a.prev = row, nil
	a.grid.Clear()
	a.push()
	return nil
}

// Step advances one macro-step.
func (a *Automaton) Step() error {
	next, err := a.row.Next()
	if err != nil {
		return err
	}
	a.prev, a.row = a.row, next
	a.push()
	return nil
}

func (a *Automaton) push() {
	for i, c := range a.row.cells {
		a.line[i] = encodeDisplay(c)
	}
	a.grid.Push(a.line)
}

func init() {
	core.Register("meca", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}
