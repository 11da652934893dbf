package meca

import (
	"errors"
	"testing"
)

func TestRuleTruthTable(t *testing.T) {
	// outputs for (self, neighbor) = 00, 01, 10, 11
	want := map[int][4]bool{
		0:  {false, false, false, false},
		1:  {true, false, false, false},
		2:  {false, true, false, false},
		3:  {true, true, false, false},
		4:  {false, false, true, false},
		5:  {true, false, true, false},
		6:  {false, true, true, false},
		7:  {true, true, true, false},
		8:  {false, false, false, true},
		9:  {true, false, false, true},
		10: {false, true, false, true},
		11: {true, true, false, true},
		12: {false, false, true, true},
		13: {true, false, true, true},
		14: {false, true, true, true},
		15: {true, true, true, true},
	}
	for code := 0; code <= 15; code++ {
		r, err := NewRule(code)
		if err != nil {
			t.Fatalf("NewRule(%d): %v", code, err)
		}
		got := r.Table()
		if got != want[code] {
			t.Fatalf("rule %d table = %v, want %v", code, got, want[code])
		}
		idx := 0
		for _, self := range []bool{false, true} {
			for _, neighbor := range []bool{false, true} {
				if r.Compute(self, neighbor) != want[code][idx] {
					t.Fatalf("rule %d Compute(%v,%v) mismatch", code, self, neighbor)
				}
				idx++
			}
		}
	}
}

func TestRuleTableIsBinaryCode(t *testing.T) {
	// bit k of the code is the output for input index k = 2*self + neighbor
	for code := 0; code <= 15; code++ {
		table := Rule(code).Table()
		got := 0
		for i, out := range table {
			if out {
				got |= 1 << i
			}
		}
		if got != code {
			t.Fatalf("rule %d table %v does not encode its code", code, table)
		}
	}
}

func TestRuleSensitivity(t *testing.T) {
	cases := map[int]float64{
		0:  0,
		15: 0,
		6:  1,
		9:  1,
		12: 0.5,
		10: 0.5,
		8:  0.5,
		14: 0.5,
	}
	for code, want := range cases {
		if got := Rule(code).Sensitivity(); got != want {
			t.Fatalf("rule %d sensitivity = %v, want %v", code, got, want)
		}
	}
}

func TestNewRuleRejectsOutOfRange(t *testing.T) {
	for _, code := range []int{-1, 16, 255} {
		_, err := NewRule(code)
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("NewRule(%d) err = %v, want configuration error", code, err)
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "rule" {
			t.Fatalf("NewRule(%d) err = %#v, want ConfigError on rule", code, err)
		}
	}
}

func TestRuleString(t *testing.T) {
	if got := Rule(6).String(); got != "Rule #6 " {
		t.Fatalf("String() = %q", got)
	}
	if got := Rule(14).String(); got != "Rule #14" {
		t.Fatalf("String() = %q", got)
	}
}
