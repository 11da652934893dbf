package meca

import (
	"image/color"
	"testing"

	"meca/internal/core"
)

func TestAutomatonScrollsHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 5
	cfg.Height = 3
	cfg.Pattern = Pattern{Kind: PatternSingleSeed}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if size := a.Size(); size != (core.Size{W: 5, H: 3}) {
		t.Fatalf("size = %+v", size)
	}
	if err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if a.Row().T() != 1 || a.Previous().T() != 0 {
		t.Fatalf("rows at t=%d/%d", a.Row().T(), a.Previous().T())
	}
	cells := a.Cells()
	top := cells[:5]
	below := cells[5:10]
	for i := 0; i < 5; i++ {
		if (top[i]&displayStateBit != 0) != a.Row().Cell(i).State() {
			t.Fatalf("top row cell %d does not match generation 1", i)
		}
		if (below[i]&displayStateBit != 0) != a.Previous().Cell(i).State() {
			t.Fatalf("second row cell %d does not match generation 0", i)
		}
	}
	palette := Palette()
	if palette[displayStateBit|displayIntensityMask] != (color.RGBA{A: 255}) {
		t.Fatalf("fully active cell color = %v, want black", palette[0xff])
	}
	if palette[0] != colorWhite {
		t.Fatalf("idle cell color = %v, want white", palette[0])
	}
	bw := BlackWhitePalette()
	if bw[displayStateBit] != colorBlack || bw[displayIntensityMask] != colorWhite {
		t.Fatalf("black-white palette = %v / %v", bw[displayStateBit], bw[displayIntensityMask])
	}
}

func TestAutomatonRegistryAndControls(t *testing.T) {
	sim, err := core.New("meca", map[string]string{"w": "16", "h": "8", "rule": "6"})
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	a := sim.(*Automaton)
	if p, ok := a.Parameters().Lookup("rule"); !ok || p.Value != "6" {
		t.Fatalf("rule parameter = %+v, %v", p, ok)
	}
	if !a.SetIntParameter("rule", 9) || a.Config().Rule != 9 {
		t.Fatal("rule 9 should be accepted")
	}
	if a.SetIntParameter("rule", 16) || a.Config().Rule != 9 {
		t.Fatal("rule 16 should be rejected without changing the config")
	}
	if a.SetFloatParameter("alpha", 1) {
		t.Fatal("alpha 1 should be rejected")
	}
	if !a.SetFloatParameter("alpha", 0.5) || a.Row().Cell(0).BigOmega() != 2 {
		t.Fatal("alpha 0.5 should rebuild the lattice")
	}
	if _, err := core.New("meca", map[string]string{"boundary": "nowhere"}); err == nil {
		t.Fatal("invalid boundary should fail construction")
	}
}

func TestActivationColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rule = 14 // OR
	cfg.Width = 4
	cfg.Pattern = Pattern{Kind: PatternBits, Bits: []bool{true, false, false, true}}
	prev := mustRow(t, cfg, &scriptedSource{})
	row := mustNext(t, prev)
	// even step reads i+1: (1,0)->red (0,0)->white (0,1)->green (1,1 wrapped)->black
	want := []color.RGBA{colorRed, colorWhite, colorGreen, colorBlack}
	got := row.Colors(SchemeActivation, nil)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d color %v, want %v", i, got[i], want[i])
		}
	}
	bw := row.Colors(SchemeBlackWhite, nil)
	if bw[0] != colorBlack || bw[1] != colorWhite {
		t.Fatalf("black-white colors = %v", bw)
	}
}

func TestActivationColorsUseInputsReadInPlace(t *testing.T) {
	// rule 10 copies the neighbor; order 2,1,0 lets cells 1 and 0 read
	// neighbors already updated this step
	cfg := patternConfig(10, "100", t)
	cfg.Policy = Policy{Kind: CyclicFixedOrder}
	row := mustNext(t, mustRow(t, cfg, &scriptedSource{perm: []int{2, 1, 0}}))
	want := []color.RGBA{colorBlack, colorGreen, colorGreen}
	got := row.Colors(SchemeActivation, nil)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d color %v, want %v", i, got[i], want[i])
		}
	}
}

func TestActivationColorsPersistForSkippedCells(t *testing.T) {
	cfg := patternConfig(10, "100", t)
	cfg.Policy = Policy{Kind: RandomIndependent, N: 1}
	g0 := mustRow(t, cfg, &scriptedSource{ints: []int{2, 1}})
	if _, _, ok := g0.Inputs(0); ok {
		t.Fatal("generation 0 cells have no recorded inputs")
	}
	g1 := mustNext(t, g0)
	if self, neighbor, ok := g1.Inputs(2); !ok || self || !neighbor {
		t.Fatalf("cell 2 inputs = %v,%v,%v, want false,true,true", self, neighbor, ok)
	}
	g2 := mustNext(t, g1)
	// cell 2 is skipped at t=1 and keeps the class of its t=0 update
	want := []color.RGBA{colorBlack, colorGreen, colorGreen}
	got := g2.Colors(SchemeActivation, nil)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d color %v, want %v", i, got[i], want[i])
		}
	}
}
