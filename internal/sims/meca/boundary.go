package meca

import (
	"fmt"
	"strings"
)

// Boundary selects how indices outside the lattice are resolved.
type Boundary uint8

const (
	// Periodic wraps indices around the lattice.
	Periodic Boundary = iota + 1
	// Fixed maps every outside index to a constant false cell.
	Fixed
	// Adiabatic clamps indices to the nearest edge cell.
	Adiabatic
	// Reflective mirrors indices back into the lattice.
	Reflective
)

var boundaryNames = map[Boundary]string{
	Periodic:   "periodic",
	Fixed:      "fixed",
	Adiabatic:  "adiabatic",
	Reflective: "reflective",
}

// Boundaries lists every supported boundary mode.
func Boundaries() []Boundary {
	return []Boundary{Periodic, Fixed, Adiabatic, Reflective}
}

// ParseBoundary accepts a boundary name, case-insensitively.
func ParseBoundary(s string) (Boundary, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for b, n := range boundaryNames {
		if n == name {
			return b, nil
		}
	}
	return 0, configErr("boundary", s, "valid values are periodic, fixed, adiabatic, reflective")
}

func (b Boundary) valid() bool {
	_, ok := boundaryNames[b]
	return ok
}

func (b Boundary) String() string {
	if n, ok := boundaryNames[b]; ok {
		return n
	}
	return fmt.Sprintf("boundary(%d)", uint8(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b Boundary) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Boundary) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundary(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// resolveIndex maps i onto the lattice [0,n). outside is true when the fixed
// cell should be used instead. The reflective formula for i >= n is kept as
// n - i + (n - 2) on purpose.
func resolveIndex(b Boundary, i, n int) (idx int, outside bool) {
	switch b {
	case Periodic:
		idx = ((i % n) + n) % n
	case Adiabatic:
		idx = i
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
	case Reflective:
		idx = i
		if idx < 0 {
			idx = -idx
		}
		if idx >= n {
			idx = n - idx + (n - 2)
		}
		if idx < 0 || idx >= n {
			panic(&InvariantError{Op: "resolve", Detail: fmt.Sprintf("reflective index %d escapes lattice of %d cells", i, n)})
		}
	case Fixed:
		if i < 0 || i >= n {
			return 0, true
		}
		idx = i
	default:
		panic(&InvariantError{Op: "resolve", Detail: fmt.Sprintf("unrecognized boundary %s", b)})
	}
	return idx, false
}
