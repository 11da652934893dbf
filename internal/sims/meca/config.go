package meca

import (
	"math"
	"strconv"
)

// Config holds the parameters of a one-neighbor memory automaton.
type Config struct {
	Rule     int
	Width    int
	Alpha    float64
	Boundary Boundary
	Policy   Policy
	Pattern  Pattern
	Seed     int64

	// Workers > 1 splits synchronous steps across goroutines.
	Workers int
	// Height is the number of generations kept by the Automaton view.
	Height int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Rule:     6,
		Width:    256,
		Alpha:    0,
		Boundary: Periodic,
		Policy:   SynchronousPolicy,
		Seed:     1337,
		Workers:  1,
		Height:   256,
	}
}

// FromMap populates a Config from a string map. Unlike lenient flag maps,
// malformed values are reported rather than ignored.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["rule"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, configErr("rule", v, "not an integer")
		}
		c.Rule = parsed
	}
	for _, key := range []string{"w", "width"} {
		if v, ok := cfg[key]; ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return c, configErr("width", v, "not an integer")
			}
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["alpha"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, configErr("alpha", v, "not a number")
		}
		c.Alpha = parsed
	}
	if v, ok := cfg["boundary"]; ok {
		b, err := ParseBoundary(v)
		if err != nil {
			return c, err
		}
		c.Boundary = b
	}
	for _, key := range []string{"policy", "update-pattern"} {
		if v, ok := cfg[key]; ok {
			p, err := ParsePolicy(v)
			if err != nil {
				return c, err
			}
			c.Policy = p
		}
	}
	if v, ok := cfg["pattern"]; ok {
		p, err := ParsePattern(v)
		if err != nil {
			return c, err
		}
		c.Pattern = p
	}
	if v, ok := cfg["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, configErr("seed", v, "not an integer")
		}
		c.Seed = parsed
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c, c.Validate()
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	if _, err := NewRule(c.Rule); err != nil {
		return err
	}
	if c.Width < 1 {
		return configErr("width", c.Width, "must be >= 1")
	}
	if math.IsNaN(c.Alpha) || c.Alpha < 0 || c.Alpha >= 1 {
		return configErr("alpha", c.Alpha, "must be in [0,1)")
	}
	if !c.Boundary.valid() {
		return configErr("boundary", c.Boundary, "unrecognized mode")
	}
	if c.Boundary == Reflective && c.Width < 2 {
		return configErr("width", c.Width, "reflective boundaries need at least 2 cells")
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return c.Pattern.Validate()
}
