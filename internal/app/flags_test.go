package app

import (
	"flag"
	"testing"

	"meca/internal/core"
	"meca/internal/sims/meca"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ca", flag.ContinueOnError)
	cfg.Bind(fs)
	args := []string{"-rule", "9", "-alpha", "0.25", "-policy", "clockedRandom(5)", "-pattern", "S", "-width", "31", "-hud", "0"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Rule != 9 || cfg.Alpha != 0.25 || cfg.Width != 31 || cfg.HUDWidth != 0 {
		t.Fatalf("cfg = %+v", cfg)
	}
	params := cfg.Params()
	want := map[string]string{"rule": "9", "alpha": "0.25", "w": "31", "policy": "clockedRandom(5)", "pattern": "S", "seed": "42"}
	for k, v := range want {
		if params[k] != v {
			t.Fatalf("params[%q] = %q, want %q", k, params[k], v)
		}
	}
}

func TestParamsBuildAutomaton(t *testing.T) {
	cfg := NewConfig()
	cfg.Width = 12
	cfg.Height = 5
	cfg.Boundary = "reflective"
	sim, err := core.New(cfg.Sim, cfg.Params())
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	a, ok := sim.(*meca.Automaton)
	if !ok {
		t.Fatalf("sim is %T", sim)
	}
	if got := a.Size(); got.W != 12 || got.H != 5 {
		t.Fatalf("size = %+v", got)
	}
	if a.Config().Boundary != meca.Reflective {
		t.Fatalf("boundary = %v", a.Config().Boundary)
	}
	if _, ok := cfg.Params()["pattern"]; ok {
		t.Fatal("empty pattern should be omitted")
	}
}
