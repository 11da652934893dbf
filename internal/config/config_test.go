package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meca/internal/sims/meca"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Run.Rule != 6 || cfg.Run.Width != 256 || cfg.Run.Steps != 256 {
		t.Errorf("unexpected run defaults: %+v", cfg.Run)
	}
	if cfg.Run.StartStep != 50 {
		t.Errorf("expected StartStep 50, got %d", cfg.Run.StartStep)
	}
	if len(cfg.Sweep.Rules) != 16 || cfg.Sweep.Rules[15] != 15 {
		t.Errorf("expected all 16 rules in the default sweep, got %v", cfg.Sweep.Rules)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meca.yaml")
	content := `
run:
  rule: 9
  width: 120
  steps: 400
  alpha: 0.75
  boundary: reflective
  policy: clockedRandom(10)
  pattern: "S"
sweep:
  rules: [1, 6, 9]
  alphas: [0, 0.5]
  boundaries: [periodic, adiabatic]
  policies: [synchronous, randomOrder]
  workers: 3
output:
  scheme: omega
  format: png
store:
  enabled: true
  path: runs.db
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Run.Rule != 9 || cfg.Run.Width != 120 || cfg.Run.Steps != 400 || cfg.Run.Alpha != 0.75 {
		t.Errorf("run = %+v", cfg.Run)
	}
	if cfg.Run.Boundary != meca.Reflective {
		t.Errorf("boundary = %v", cfg.Run.Boundary)
	}
	if cfg.Run.Policy != (meca.Policy{Kind: meca.ClockedRandom, N: 10}) {
		t.Errorf("policy = %v", cfg.Run.Policy)
	}
	if cfg.Run.Pattern.Kind != meca.PatternSingleSeed {
		t.Errorf("pattern = %v", cfg.Run.Pattern)
	}
	if cfg.Run.Seed != 1337 || cfg.Run.StartStep != 50 {
		t.Errorf("unset fields should keep defaults, got seed=%d start=%d", cfg.Run.Seed, cfg.Run.StartStep)
	}
	if len(cfg.Sweep.Rules) != 3 || len(cfg.Sweep.Boundaries) != 2 || cfg.Sweep.Boundaries[1] != meca.Adiabatic {
		t.Errorf("sweep = %+v", cfg.Sweep)
	}
	if cfg.Sweep.Policies[1].Kind != meca.RandomOrder {
		t.Errorf("sweep policies = %v", cfg.Sweep.Policies)
	}
	if s, err := cfg.Output.ColorScheme(); err != nil || s != meca.SchemeOmega {
		t.Errorf("scheme = %v, %v", s, err)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "runs.db" || cfg.Logging.Level != "debug" {
		t.Errorf("store/logging = %+v %+v", cfg.Store, cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	auto := cfg.Run.Automaton()
	if auto.Rule != 9 || auto.Boundary != meca.Reflective || auto.Policy.N != 10 {
		t.Errorf("automaton config = %+v", auto)
	}
}

func TestLoadFromFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown boundary", "run:\n  boundary: toroidal\n"},
		{"bad policy", "run:\n  policy: clockedRandom(0)\n"},
		{"bad pattern", "run:\n  pattern: \"10x\"\n"},
		{"malformed yaml", "run: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "meca.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFromFile(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Run.Rule = 20
	cfg.Run.Steps = -1
	cfg.Sweep.Alphas = []float64{1.5}
	cfg.Output.Format = "gif"
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if !errors.Is(err, meca.ErrConfiguration) {
		t.Errorf("rule error should match ErrConfiguration: %v", err)
	}
	for _, want := range []string{"steps", "alpha 1.5", "gif", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MECA_RULE", "14")
	t.Setenv("MECA_ALPHA", "0.25")
	t.Setenv("MECA_SEED", "42")
	t.Setenv("MECA_BOUNDARY", "fixed")
	t.Setenv("MECA_POLICY", "randomIndependent(7)")
	t.Setenv("MECA_STORE_PATH", "/tmp/x.db")
	t.Setenv("MECA_LOG_LEVEL", "trace")

	cfg, err := Load(filepath.Join(writeEmpty(t), "meca.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Rule != 14 || cfg.Run.Alpha != 0.25 || cfg.Run.Seed != 42 {
		t.Errorf("run = %+v", cfg.Run)
	}
	if cfg.Run.Boundary != meca.Fixed || cfg.Run.Policy != (meca.Policy{Kind: meca.RandomIndependent, N: 7}) {
		t.Errorf("boundary/policy = %v %v", cfg.Run.Boundary, cfg.Run.Policy)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/x.db" || cfg.Logging.Level != "trace" {
		t.Errorf("store/logging = %+v %+v", cfg.Store, cfg.Logging)
	}
}

func TestEnvOverridesRejectMalformed(t *testing.T) {
	t.Setenv("MECA_WIDTH", "wide")
	if _, err := Load(filepath.Join(writeEmpty(t), "meca.yaml")); err == nil {
		t.Fatal("malformed MECA_WIDTH should fail")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Run.Policy = meca.Policy{Kind: meca.ClockedRandom, N: 5}
	cfg.Run.Pattern = meca.Pattern{Kind: meca.PatternSingleSeedInverse}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	back, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v\n%s", err, data)
	}
	if back.Run.Policy != cfg.Run.Policy || back.Run.Pattern.Kind != meca.PatternSingleSeedInverse {
		t.Fatalf("round trip lost run fields:\n%s", data)
	}
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "meca.yaml"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}
