package meca

import (
	"errors"
	"testing"

	pcore "meca/pkg/core"
)

// scriptedSource replays fixed draws so in-place ordering can be asserted.
type scriptedSource struct {
	ints []int
	perm []int
}

func (s *scriptedSource) Bool() bool { return false }

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Perm(n int) []int { return append([]int(nil), s.perm...) }

func mustPattern(t *testing.T, s string) Pattern {
	t.Helper()
	p, err := ParsePattern(s)
	if err != nil {
		t.Fatalf("ParsePattern(%q): %v", s, err)
	}
	return p
}

func mustRow(t *testing.T, cfg Config, rng Source) *Row {
	t.Helper()
	row, err := NewRow(cfg, rng)
	if err != nil {
		t.Fatalf("NewRow: %v", err)
	}
	return row
}

func mustNext(t *testing.T, row *Row) *Row {
	t.Helper()
	next, err := row.Next()
	if err != nil {
		t.Fatalf("Next at t=%d: %v", row.T(), err)
	}
	return next
}

func patternConfig(rule int, pattern string, t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Rule = rule
	cfg.Width = len(pattern)
	cfg.Pattern = mustPattern(t, pattern)
	return cfg
}

func TestWorkedXORScenario(t *testing.T) {
	cfg := patternConfig(6, "00100", t)
	row := mustRow(t, cfg, pcore.NewRNG(1))
	if row.String() != "00100" {
		t.Fatalf("generation 0 = %s", row.String())
	}
	next := mustNext(t, row)
	if got := next.String(); got != "01100" {
		t.Fatalf("generation 1 = %s, want 01100", got)
	}
	if next.T() != 1 {
		t.Fatalf("t = %d, want 1", next.T())
	}
	if row.String() != "00100" {
		t.Fatal("stepping mutated the predecessor")
	}
}

func TestNeighborDirectionAlternates(t *testing.T) {
	// rule 10 copies the neighbor: the pattern shifts left then right
	cfg := patternConfig(10, "00100", t)
	row := mustRow(t, cfg, pcore.NewRNG(1))
	g1 := mustNext(t, row)
	if g1.String() != "01000" {
		t.Fatalf("even step should read i+1, got %s", g1.String())
	}
	g2 := mustNext(t, g1)
	if g2.String() != "00100" {
		t.Fatalf("odd step should read i-1, got %s", g2.String())
	}
}

func TestResolveIndex(t *testing.T) {
	const n = 5
	cases := []struct {
		boundary Boundary
		in, want int
	}{
		{Periodic, -1, n - 1},
		{Periodic, n, 0},
		{Periodic, -7, 3},
		{Adiabatic, -1, 0},
		{Adiabatic, n, n - 1},
		{Reflective, -1, 1},
		{Reflective, n, n - n + (n - 2)},
		{Reflective, 2, 2},
		{Fixed, 3, 3},
	}
	for _, tc := range cases {
		got, outside := resolveIndex(tc.boundary, tc.in, n)
		if outside || got != tc.want {
			t.Fatalf("%s resolve(%d) = %d (outside=%v), want %d", tc.boundary, tc.in, got, outside, tc.want)
		}
	}
	for _, i := range []int{-1, n, -1000, 1000} {
		if _, outside := resolveIndex(Fixed, i, n); !outside {
			t.Fatalf("fixed resolve(%d) should use the fixed cell", i)
		}
	}
}

func TestResolveFixedCell(t *testing.T) {
	cfg := patternConfig(12, "11111", t)
	cfg.Boundary = Fixed
	row := mustRow(t, cfg, pcore.NewRNG(1))
	for _, i := range []int{-1, 5, -50, 99} {
		if row.Resolve(i).State() {
			t.Fatalf("resolve(%d) should return the false fixed cell", i)
		}
	}
	if !row.Resolve(4).State() {
		t.Fatal("in-range index should return the lattice cell")
	}
}

func TestResolveUnknownBoundaryPanics(t *testing.T) {
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrInvariant) {
			t.Fatalf("recovered %v, want invariant violation", rec)
		}
	}()
	resolveIndex(Boundary(42), 0, 3)
}

func TestPatterns(t *testing.T) {
	cases := []struct {
		pattern string
		width   int
		want    string
	}{
		{"S", 5, "00100"},
		{"SI", 5, "11011"},
		{"s", 4, "0010"},
		{"10", 5, "10101"},
		{"0111", 2, "01"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Width = tc.width
		cfg.Alpha = 0.5
		cfg.Pattern = mustPattern(t, tc.pattern)
		row := mustRow(t, cfg, pcore.NewRNG(5))
		if got := row.String(); got != tc.want {
			t.Fatalf("pattern %q width %d = %s, want %s", tc.pattern, tc.width, got, tc.want)
		}
		for i := 0; i < row.Len(); i++ {
			c := row.Cell(i)
			if c.State() && c.Omega() != c.BigOmega() || !c.State() && c.Omega() != 0 {
				t.Fatalf("pattern did not reset memory of cell %d: %v", i, c.Omega())
			}
		}
	}
}

func TestAggregates(t *testing.T) {
	cfg := patternConfig(6, "1100", t)
	cfg.Alpha = 0.5
	row := mustRow(t, cfg, pcore.NewRNG(1))
	if row.Ones() != 2 {
		t.Fatalf("ones = %d", row.Ones())
	}
	if row.Density() != 0.5 {
		t.Fatalf("density = %v", row.Density())
	}
	if row.Value() != 2 {
		t.Fatalf("value = %v", row.Value())
	}
	if got := row.Intensities(nil); len(got) != 4 || got[0] != 1 || got[3] != 0 {
		t.Fatalf("intensities = %v", got)
	}
	if got := row.States(nil); len(got) != 4 || !got[1] || got[2] {
		t.Fatalf("states = %v", got)
	}
}

func TestRandomSeedingIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 64
	a := mustRow(t, cfg, pcore.NewRNG(99))
	b := mustRow(t, cfg, pcore.NewRNG(99))
	if a.String() != b.String() || !a.Equal(b) {
		t.Fatal("same seed should produce the same lattice")
	}
	c := mustRow(t, cfg, pcore.NewRNG(100))
	if a.String() == c.String() {
		t.Fatal("different seeds produced identical 64-cell lattices")
	}
}

func TestNewRowRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = 1
	if _, err := NewRow(cfg, pcore.NewRNG(1)); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("alpha=1 err = %v, want configuration error", err)
	}
}
