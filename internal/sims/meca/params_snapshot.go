package meca

import (
	"strconv"

	"meca/internal/core"
)

// Parameters describes the running lattice for the HUD and the CLI.
func (a *Automaton) Parameters() core.ParameterSnapshot {
	cfg := a.cfg
	rule := Rule(cfg.Rule)
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "History", cfg.Height),
				stringParam("boundary", "Boundary", cfg.Boundary.String()),
				stringParam("pattern", "Pattern", cfg.Pattern.String()),
				int64Param("seed", "Seed", cfg.Seed),
			},
		},
		{
			Name: "Rule",
			Params: []core.Parameter{
				intParam("rule", "Rule", cfg.Rule),
				floatParam("sensitivity", "Sensitivity", rule.Sensitivity()),
				floatParam("alpha", "Alpha", cfg.Alpha),
				stringParam("policy", "Update policy", cfg.Policy.String()),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				intParam("t", "Generation", a.row.T()),
				intParam("ones", "Ones", a.row.Ones()),
				floatParam("density", "Density", a.row.Density()),
				floatParam("value", "Value", a.row.Value()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls exposes the rule and alpha to the HUD.
func (a *Automaton) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "rule", Label: "Rule", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 15, HasMin: true, HasMax: true},
		{Key: "alpha", Label: "Alpha", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 0.95, HasMin: true, HasMax: true},
	}
}

// SetIntParameter changes the rule and restarts the lattice.
func (a *Automaton) SetIntParameter(key string, value int) bool {
	if key != "rule" {
		return false
	}
	next := a.cfg
	next.Rule = value
	return a.reconfigure(next)
}

// SetFloatParameter changes alpha and restarts the lattice.
func (a *Automaton) SetFloatParameter(key string, value float64) bool {
	if key != "alpha" {
		return false
	}
	next := a.cfg
	next.Alpha = value
	return a.reconfigure(next)
}

func (a *Automaton) reconfigure(cfg Config) bool {
	if cfg.Validate() != nil {
		return false
	}
	old := a.cfg
	a.cfg = cfg
	if err := a.Reset(cfg.Seed); err != nil {
		a.cfg = old
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
