package meca

// tieBreak is compared against the raw accumulator, not the normalized one.
const tieBreak = 0.5

// Cell is one lattice site at a given generation. Besides its boolean state
// it carries omega, an exponentially decaying memory of past raw outputs
// bounded by bigOmega = 1/(1-alpha).
type Cell struct {
	t        int
	state    bool
	alpha    float64
	bigOmega float64
	omega    float64
}

// NewCell returns a generation-0 cell with the given state.
func NewCell(alpha float64, state bool) Cell {
	c := Cell{alpha: alpha, bigOmega: 1 / (1 - alpha)}
	c.SetState(state)
	return c
}

// SeedCell returns a generation-0 cell with a fair random state.
func SeedCell(alpha float64, rng Source) Cell {
	return NewCell(alpha, rng.Bool())
}

// Next derives the successor of c given the neighbor it reads this
// generation. The memory update runs on the raw rule output; the final state
// is omega/bigOmega > 0.5 except when omega is exactly 0.5, where the raw
// output is kept.
func (c Cell) Next(neighbor Cell, rule Rule) Cell {
	raw := rule.Compute(c.state, neighbor.state)
	next := Cell{
		t:        c.t + 1,
		state:    raw,
		alpha:    c.alpha,
		bigOmega: c.bigOmega,
		omega:    c.omega * c.alpha,
	}
	if raw {
		next.omega++
	}
	if next.omega != tieBreak {
		next.state = next.omega/next.bigOmega > 0.5
	}
	return next
}

// SetState overrides the state and resets the memory to the matching extreme.
func (c *Cell) SetState(state bool) {
	c.state = state
	if state {
		c.omega = c.bigOmega
		return
	}
	c.omega = 0
}

// State reports the boolean state.
func (c Cell) State() bool { return c.state }

// T returns the generation index.
func (c Cell) T() int { return c.t }

// Alpha returns the memory decay factor.
func (c Cell) Alpha() float64 { return c.alpha }

// Omega returns the memory accumulator.
func (c Cell) Omega() float64 { return c.omega }

// BigOmega returns the accumulator's upper bound.
func (c Cell) BigOmega() float64 { return c.bigOmega }

// Intensity is omega/bigOmega clamped into [0,1].
func (c Cell) Intensity() float64 {
	v := c.omega / c.bigOmega
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Equal compares states only; two cells with different memories but the
// same state are equal.
func (c Cell) Equal(o Cell) bool { return c.state == o.state }

func (c Cell) String() string {
	if c.state {
		return "1"
	}
	return "0"
}
