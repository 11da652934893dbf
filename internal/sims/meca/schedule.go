package meca

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// schedule is the policy plus any state drawn once at construction. It is
// shared, read-only, by every row of a lattice.
type schedule struct {
	policy Policy
	order  []int
	phases []int
	sets   [][]int
}

func newSchedule(p Policy, n int, rng Source) *schedule {
	s := &schedule{policy: p}
	switch p.Kind {
	case CyclicFixedOrder:
		s.order = rng.Perm(n)
	case ClockedRandom:
		s.phases = make([]int, n)
		s.sets = make([][]int, p.N)
		for i := range s.phases {
			s.phases[i] = rng.IntN(p.N)
		}
		for i, ph := range s.phases {
			s.sets[ph] = append(s.sets[ph], i)
		}
	}
	return s
}

func (s *schedule) check(n int) error {
	switch s.policy.Kind {
	case Synchronous, RandomIndependent, RandomOrder:
		return nil
	case CyclicFixedOrder:
		if len(s.order) != n {
			return &InvariantError{Op: "step", Detail: fmt.Sprintf("cyclic order has %d entries for %d cells", len(s.order), n)}
		}
	case ClockedRandom:
		if len(s.phases) != n || len(s.sets) != s.policy.N {
			return &InvariantError{Op: "step", Detail: fmt.Sprintf("clock phases %d/%d for %d cells and %d phases", len(s.phases), len(s.sets), n, s.policy.N)}
		}
	default:
		return &InvariantError{Op: "step", Detail: fmt.Sprintf("unrecognized policy %s", s.policy)}
	}
	return nil
}

// Order returns a copy of the cyclic update order, or nil for other policies.
func (r *Row) Order() []int {
	return append([]int(nil), r.sched.order...)
}

// PhaseSets returns, for clocked policies, the cell indices updated at each
// micro-step. The sets partition the lattice.
func (r *Row) PhaseSets() [][]int {
	out := make([][]int, len(r.sched.sets))
	for j, set := range r.sched.sets {
		out[j] = append([]int(nil), set...)
	}
	return out
}

// Next performs one macro-step and returns generation t+1. The receiver is
// left untouched.
func (r *Row) Next() (*Row, error) {
	n := len(r.cells)
	if err := r.sched.check(n); err != nil {
		return nil, err
	}
	if !r.boundary.valid() {
		return nil, &InvariantError{Op: "step", Detail: fmt.Sprintf("unrecognized boundary %s", r.boundary)}
	}
	next := &Row{
		cells:    make([]Cell, n),
		t:        r.t + 1,
		rule:     r.rule,
		boundary: r.boundary,
		fixed:    r.fixed,
		sched:    r.sched,
		rng:      r.rng,
		workers:  r.workers,
		inputs:   make([]uint8, n),
	}
	if r.sched.policy.Kind != Synchronous {
		copy(next.inputs, r.inputs)
	}

	switch r.sched.policy.Kind {
	case Synchronous:
		if err := r.stepSynchronous(next.cells, next.inputs); err != nil {
			return nil, err
		}
	case RandomIndependent:
		copy(next.cells, r.cells)
		for j := 0; j < r.sched.policy.N; j++ {
			r.updateInPlace(next.cells, next.inputs, r.rng.IntN(n))
		}
	case RandomOrder:
		copy(next.cells, r.cells)
		for _, i := range r.rng.Perm(n) {
			r.updateInPlace(next.cells, next.inputs, i)
		}
	case CyclicFixedOrder:
		copy(next.cells, r.cells)
		for _, i := range r.sched.order {
			r.updateInPlace(next.cells, next.inputs, i)
		}
	case ClockedRandom:
		copy(next.cells, r.cells)
		r.stepClocked(next.cells, next.inputs)
	}
	return next, nil
}

// updateInPlace advances cell i reading its neighbor from the row under
// construction, so earlier updates of the same step are visible.
func (r *Row) updateInPlace(cells []Cell, inputs []uint8, i int) {
	neighbor := r.resolveIn(cells, r.NeighborIndex(i))
	inputs[i] = readInputs(cells[i].state, neighbor.state)
	cells[i] = cells[i].Next(neighbor, r.rule)
}

func (r *Row) stepSynchronous(dst []Cell, inputs []uint8) error {
	n := len(dst)
	workers := r.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		r.syncRange(dst, inputs, 0, n)
		return nil
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			r.syncRange(dst, inputs, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (r *Row) syncRange(dst []Cell, inputs []uint8, lo, hi int) {
	for i := lo; i < hi; i++ {
		neighbor := r.Resolve(r.NeighborIndex(i))
		inputs[i] = readInputs(r.cells[i].state, neighbor.state)
		dst[i] = r.cells[i].Next(neighbor, r.rule)
	}
}

// stepClocked runs one micro-step per phase. Cells of a phase all read the
// lattice as it stood at the start of that micro-step.
func (r *Row) stepClocked(cells []Cell, inputs []uint8) {
	var buf []Cell
	for _, set := range r.sched.sets {
		buf = buf[:0]
		for _, i := range set {
			neighbor := r.resolveIn(cells, r.NeighborIndex(i))
			inputs[i] = readInputs(cells[i].state, neighbor.state)
			buf = append(buf, cells[i].Next(neighbor, r.rule))
		}
		for k, i := range set {
			cells[i] = buf[k]
		}
	}
}
