package meca

import "strings"

// Source is the random generator a lattice draws from. *core.RNG from
// meca/pkg/core satisfies it.
type Source interface {
	Bool() bool
	IntN(n int) int
	Perm(n int) []int
}

// Row is one generation of the lattice. Rows are immutable once returned:
// Next always builds a fresh successor.
type Row struct {
	cells    []Cell
	t        int
	rule     Rule
	boundary Boundary
	fixed    Cell
	sched    *schedule
	rng      Source
	workers  int
	// inputs holds, per cell, the (self, neighbor) states read at the cell's
	// most recent update, see readInputs.
	inputs []uint8
}

// NewRow builds generation 0. Every cell is first seeded at random from rng,
// then the configured pattern, if any, overrides the states. Policy state
// (cyclic order, clock phases) is drawn afterwards from the same rng.
func NewRow(cfg Config, rng Source) (*Row, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Row{
		cells:    make([]Cell, cfg.Width),
		rule:     Rule(cfg.Rule),
		boundary: cfg.Boundary,
		fixed:    NewCell(cfg.Alpha, false),
		rng:      rng,
		workers:  cfg.Workers,
		inputs:   make([]uint8, cfg.Width),
	}
	for i := range r.cells {
		r.cells[i] = SeedCell(cfg.Alpha, rng)
	}
	cfg.Pattern.apply(r.cells)
	r.sched = newSchedule(cfg.Policy, len(r.cells), rng)
	return r, nil
}

// T returns the generation index.
func (r *Row) T() int { return r.t }

// Len returns the number of cells.
func (r *Row) Len() int { return len(r.cells) }

// Rule returns the lattice rule.
func (r *Row) Rule() Rule { return r.rule }

// Boundary returns the boundary mode.
func (r *Row) Boundary() Boundary { return r.boundary }

// Policy returns the update policy.
func (r *Row) Policy() Policy { return r.sched.policy }

// Cell returns the cell at an in-range index.
func (r *Row) Cell(i int) Cell { return r.cells[i] }

// Resolve returns the cell for a possibly out-of-range index under the
// row's boundary mode.
func (r *Row) Resolve(i int) Cell {
	return r.resolveIn(r.cells, i)
}

func (r *Row) resolveIn(cells []Cell, i int) Cell {
	idx, outside := resolveIndex(r.boundary, i, len(cells))
	if outside {
		return r.fixed
	}
	return cells[idx]
}

// NeighborIndex is the unresolved index cell i reads while this row is
// stepped: i+1 on even generations, i-1 on odd ones.
func (r *Row) NeighborIndex(i int) int {
	if r.t%2 == 0 {
		return i + 1
	}
	return i - 1
}

const (
	inputRead     = 0x4
	inputSelf     = 0x2
	inputNeighbor = 0x1
)

func readInputs(self, neighbor bool) uint8 {
	v := uint8(inputRead)
	if self {
		v |= inputSelf
	}
	if neighbor {
		v |= inputNeighbor
	}
	return v
}

// Inputs reports the self and neighbor states cell i read when it was last
// updated. ok is false for cells never updated since generation 0.
func (r *Row) Inputs(i int) (self, neighbor, ok bool) {
	v := r.inputs[i]
	return v&inputSelf != 0, v&inputNeighbor != 0, v&inputRead != 0
}

// Ones counts cells in state true.
func (r *Row) Ones() int {
	n := 0
	for _, c := range r.cells {
		if c.state {
			n++
		}
	}
	return n
}

// Density is Ones over the lattice length.
func (r *Row) Density() float64 {
	return float64(r.Ones()) / float64(len(r.cells))
}

// Value sums omega/bigOmega over all cells.
func (r *Row) Value() float64 {
	v := 0.0
	for _, c := range r.cells {
		v += c.omega / c.bigOmega
	}
	return v
}

// States appends the cell states to dst.
func (r *Row) States(dst []bool) []bool {
	for _, c := range r.cells {
		dst = append(dst, c.state)
	}
	return dst
}

// Intensities appends the per-cell activation intensity to dst.
func (r *Row) Intensities(dst []float64) []float64 {
	for _, c := range r.cells {
		dst = append(dst, c.Intensity())
	}
	return dst
}

// Equal compares two rows cell by cell using Cell.Equal.
func (r *Row) Equal(o *Row) bool {
	if len(r.cells) != len(o.cells) {
		return false
	}
	for i := range r.cells {
		if !r.cells[i].Equal(o.cells[i]) {
			return false
		}
	}
	return true
}

func (r *Row) String() string {
	var sb strings.Builder
	sb.Grow(len(r.cells))
	for _, c := range r.cells {
		if c.state {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
