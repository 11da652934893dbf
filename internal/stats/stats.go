// Package stats reduces a run's per-generation aggregates to the long-run
// density mean and variance.
package stats

import "math"

// DefaultStartStep skips the transient before density samples are kept.
const DefaultStartStep = 50

// Snapshot is the read-only view of a generation the reducers consume.
// *meca.Row satisfies it.
type Snapshot interface {
	T() int
	Ones() int
	Density() float64
	Value() float64
}

// Summary is the density mean and population variance over the sampled
// generations.
type Summary struct {
	Mean     float64
	Variance float64
	Samples  int
}

// StdDev returns the square root of the variance.
func (s Summary) StdDev() float64 { return math.Sqrt(s.Variance) }

// Collector keeps a running mean and variance (Welford) of the density of
// every generation with t >= StartStep.
type Collector struct {
	StartStep int

	n    int
	mean float64
	m2   float64
}

// NewCollector returns a Collector that ignores generations before start.
func NewCollector(start int) *Collector {
	if start < 0 {
		start = 0
	}
	return &Collector{StartStep: start}
}

// Observe records the snapshot's density when it falls in the sampled range.
func (c *Collector) Observe(s Snapshot) {
	c.Add(s.T(), s.Density())
}

// Add records a density sample for generation t.
func (c *Collector) Add(t int, density float64) {
	if t < c.StartStep {
		return
	}
	c.n++
	delta := density - c.mean
	c.mean += delta / float64(c.n)
	c.m2 += delta * (density - c.mean)
}

// Summary returns the statistics gathered so far. With no samples every
// field is zero.
func (c *Collector) Summary() Summary {
	if c.n == 0 {
		return Summary{}
	}
	return Summary{Mean: c.mean, Variance: c.m2 / float64(c.n), Samples: c.n}
}

// Point is one generation of a recorded series.
type Point struct {
	T       int
	Ones    int
	Density float64
	Value   float64
}

// Series records every observed generation, for charts.
type Series struct {
	Points []Point
}

// Observe appends the snapshot's aggregates.
func (s *Series) Observe(snap Snapshot) {
	s.Points = append(s.Points, Point{T: snap.T(), Ones: snap.Ones(), Density: snap.Density(), Value: snap.Value()})
}

// Columns splits the series into parallel slices of t and density.
func (s *Series) Columns() (ts, densities []float64) {
	ts = make([]float64, len(s.Points))
	densities = make([]float64, len(s.Points))
	for i, p := range s.Points {
		ts[i] = float64(p.T)
		densities[i] = p.Density
	}
	return ts, densities
}
