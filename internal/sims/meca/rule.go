package meca

import "fmt"

// Rule selects one of the 16 boolean functions of two inputs: the cell's own
// state and the state of the single neighbor it looks at.
type Rule uint8

// NewRule validates a rule code.
func NewRule(code int) (Rule, error) {
	if code < 0 || code > 15 {
		return 0, configErr("rule", code, "must be in [0,15]")
	}
	return Rule(code), nil
}

// Code returns the numeric rule code.
func (r Rule) Code() int { return int(r) }

// Compute applies the rule.
func (r Rule) Compute(self, neighbor bool) bool {
	switch r {
	case 0:
		return false
	case 1:
		return !(self || neighbor)
	case 2:
		return !self && neighbor
	case 3:
		return !self
	case 4:
		return self && !neighbor
	case 5:
		return !neighbor
	case 6:
		return self != neighbor
	case 7:
		return !(self && neighbor)
	case 8:
		return self && neighbor
	case 9:
		return self == neighbor
	case 10:
		return neighbor
	case 11:
		return !(self && !neighbor)
	case 12:
		return self
	case 13:
		return !(!self && neighbor)
	case 14:
		return self || neighbor
	default:
		return true
	}
}

// Table returns the outputs for the inputs (self, neighbor) = 00, 01, 10, 11.
func (r Rule) Table() [4]bool {
	return [4]bool{
		r.Compute(false, false),
		r.Compute(false, true),
		r.Compute(true, false),
		r.Compute(true, true),
	}
}

// Sensitivity is the fraction of single-input flips that flip the output,
// counted over all four input pairs and both inputs (Binder 1993).
func (r Rule) Sensitivity() float64 {
	flips := 0
	for _, self := range []bool{false, true} {
		for _, neighbor := range []bool{false, true} {
			out := r.Compute(self, neighbor)
			if r.Compute(self, !neighbor) != out {
				flips++
			}
			if r.Compute(!self, neighbor) != out {
				flips++
			}
		}
	}
	return float64(flips) / 8
}

func (r Rule) String() string {
	return fmt.Sprintf("Rule #%-2d", int(r))
}
