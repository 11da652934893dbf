package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
// One-dimensional automata use it as a spacetime diagram: row 0 holds the
// newest generation and older generations scroll towards the bottom.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Row returns the slice backing row y.
func (g *ByteGrid) Row(y int) []uint8 {
	start := y * g.W
	return g.data[start : start+g.W]
}

// Push scrolls every row down by one, dropping the oldest, and copies line
// into the top row. Short lines leave the remainder of the row zeroed.
func (g *ByteGrid) Push(line []uint8) {
	if g.H > 1 {
		copy(g.data[g.W:], g.data[:g.W*(g.H-1)])
	}
	top := g.data[:g.W]
	n := copy(top, line)
	for i := n; i < len(top); i++ {
		top[i] = 0
	}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
