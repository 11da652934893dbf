package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the GUI.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int

	Rule     int
	Width    int
	Height   int
	Alpha    float64
	Boundary string
	Policy   string
	Pattern  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "meca",
		Scale:    4,
		TPS:      30,
		Seed:     42,
		HUDWidth: 220,
		Rule:     6,
		Width:    200,
		Height:   150,
		Boundary: "periodic",
		Policy:   "synchronous",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel, 0 hides it")
	fs.IntVar(&c.Rule, "rule", c.Rule, "rule number 0-15")
	fs.IntVar(&c.Width, "width", c.Width, "lattice length")
	fs.IntVar(&c.Height, "history", c.Height, "generations kept on screen")
	fs.Float64Var(&c.Alpha, "alpha", c.Alpha, "memory factor in [0,1)")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "periodic, adiabatic, reflective or fixed")
	fs.StringVar(&c.Policy, "policy", c.Policy, "update policy, e.g. randomOrder or clockedRandom(10)")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "initial pattern: S, SI or a 0/1 string")
}

// Params renders the lattice settings as the factory configuration map.
func (c *Config) Params() map[string]string {
	params := map[string]string{
		"rule":     strconv.Itoa(c.Rule),
		"w":        strconv.Itoa(c.Width),
		"h":        strconv.Itoa(c.Height),
		"alpha":    strconv.FormatFloat(c.Alpha, 'f', -1, 64),
		"seed":     strconv.FormatInt(c.Seed, 10),
		"boundary": c.Boundary,
		"policy":   c.Policy,
	}
	if c.Pattern != "" {
		params["pattern"] = c.Pattern
	}
	return params
}
