// Package config loads run and sweep settings for the meca commands from
// YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"meca/internal/sims/meca"
	"meca/internal/stats"
)

// DefaultFile is read by Load when no explicit path is given and it exists.
const DefaultFile = "meca.yaml"

// Config is the complete command configuration.
type Config struct {
	Run     RunConfig     `yaml:"run"`
	Sweep   SweepConfig   `yaml:"sweep"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// RunConfig describes a single simulation.
type RunConfig struct {
	Rule     int           `yaml:"rule"`
	Width    int           `yaml:"width"`
	Steps    int           `yaml:"steps"`
	Alpha    float64       `yaml:"alpha"`
	Boundary meca.Boundary `yaml:"boundary"`
	Policy   meca.Policy   `yaml:"policy"`
	Pattern  meca.Pattern  `yaml:"pattern"`
	Seed     int64         `yaml:"seed"`
	Workers  int           `yaml:"workers"`

	// StartStep is the first generation whose density enters the statistics.
	StartStep int `yaml:"start_step"`
}

// SweepConfig lists the values combined by a sweep. Every field not listed
// in the sweep comes from RunConfig.
type SweepConfig struct {
	Rules      []int           `yaml:"rules"`
	Alphas     []float64       `yaml:"alphas"`
	Boundaries []meca.Boundary `yaml:"boundaries"`
	Policies   []meca.Policy   `yaml:"policies"`

	// Workers bounds concurrent simulations; 0 uses one per CPU.
	Workers int `yaml:"workers"`
}

// OutputConfig controls image and chart files.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Scheme   string `yaml:"scheme"`
	CellSize int    `yaml:"cell_size"`
	Panel    bool   `yaml:"panel"`
	Format   string `yaml:"format"`
	Chart    bool   `yaml:"chart"`
	Suppress bool   `yaml:"suppress"`
	// Title adds a caption strip with the run parameters above the diagram.
	Title bool `yaml:"title"`
}

// StoreConfig locates the results database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig sets the log verbosity: "info", "debug" or "trace". At
// trace level per-generation aggregates are written to TraceDir.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	TraceDir string `yaml:"trace_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	base := meca.DefaultConfig()
	return &Config{
		Run: RunConfig{
			Rule:      base.Rule,
			Width:     base.Width,
			Steps:     256,
			Alpha:     base.Alpha,
			Boundary:  base.Boundary,
			Policy:    base.Policy,
			Seed:      base.Seed,
			Workers:   base.Workers,
			StartStep: stats.DefaultStartStep,
		},
		Sweep: SweepConfig{
			Rules:      allRules(),
			Alphas:     []float64{0},
			Boundaries: []meca.Boundary{meca.Periodic},
			Policies:   []meca.Policy{meca.SynchronousPolicy},
		},
		Output: OutputConfig{
			Dir:      ".",
			Scheme:   meca.SchemeBlackWhite.String(),
			CellSize: 4,
			Panel:    true,
			Format:   "jpeg",
		},
		Store: StoreConfig{
			Path: "meca.db",
		},
		Logging: LoggingConfig{
			Level:    "info",
			TraceDir: ".meca",
		},
	}
}

func allRules() []int {
	rules := make([]int, 16)
	for i := range rules {
		rules[i] = i
	}
	return rules
}

// Load applies defaults, then the YAML file at path (or DefaultFile when
// path is empty and the file exists), then MECA_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Automaton converts the run section to an automaton configuration.
func (r RunConfig) Automaton() meca.Config {
	cfg := meca.DefaultConfig()
	cfg.Rule = r.Rule
	cfg.Width = r.Width
	cfg.Alpha = r.Alpha
	cfg.Boundary = r.Boundary
	cfg.Policy = r.Policy
	cfg.Pattern = r.Pattern
	cfg.Seed = r.Seed
	cfg.Workers = r.Workers
	return cfg
}

// ColorScheme parses the configured color scheme.
func (o OutputConfig) ColorScheme() (meca.ColorScheme, error) {
	return meca.ParseColorScheme(o.Scheme)
}

// Validate checks every section and joins all problems found.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Run.Automaton().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("run: %w", err))
	}
	if c.Run.Steps < 0 {
		errs = append(errs, fmt.Errorf("run: steps must be non-negative, got %d", c.Run.Steps))
	}
	if c.Run.StartStep < 0 {
		errs = append(errs, fmt.Errorf("run: start_step must be non-negative, got %d", c.Run.StartStep))
	}
	for _, r := range c.Sweep.Rules {
		if _, err := meca.NewRule(r); err != nil {
			errs = append(errs, fmt.Errorf("sweep: %w", err))
		}
	}
	for _, a := range c.Sweep.Alphas {
		if a < 0 || a >= 1 {
			errs = append(errs, fmt.Errorf("sweep: alpha %v outside [0,1)", a))
		}
	}
	for _, p := range c.Sweep.Policies {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sweep: %w", err))
		}
	}
	if c.Sweep.Workers < 0 {
		errs = append(errs, fmt.Errorf("sweep: workers must be non-negative, got %d", c.Sweep.Workers))
	}
	if _, err := c.Output.ColorScheme(); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if c.Output.CellSize < 1 {
		errs = append(errs, fmt.Errorf("output: cell_size must be positive, got %d", c.Output.CellSize))
	}
	switch strings.ToLower(c.Output.Format) {
	case "jpeg", "jpg", "png":
	default:
		errs = append(errs, fmt.Errorf("output: invalid format %q (valid: jpeg, png)", c.Output.Format))
	}
	switch c.Logging.Level {
	case "", "info", "debug", "trace":
	default:
		errs = append(errs, fmt.Errorf("logging: invalid level %q (valid: info, debug, trace)", c.Logging.Level))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(c *Config) error {
	var errs []error
	intVar := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	intVar("MECA_RULE", &c.Run.Rule)
	intVar("MECA_WIDTH", &c.Run.Width)
	intVar("MECA_STEPS", &c.Run.Steps)
	intVar("MECA_WORKERS", &c.Run.Workers)

	if v := os.Getenv("MECA_ALPHA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MECA_ALPHA: %w", err))
		} else {
			c.Run.Alpha = f
		}
	}
	if v := os.Getenv("MECA_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MECA_SEED: %w", err))
		} else {
			c.Run.Seed = n
		}
	}
	if v := os.Getenv("MECA_BOUNDARY"); v != "" {
		if err := c.Run.Boundary.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("MECA_BOUNDARY: %w", err))
		}
	}
	if v := os.Getenv("MECA_POLICY"); v != "" {
		if err := c.Run.Policy.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("MECA_POLICY: %w", err))
		}
	}
	if v := os.Getenv("MECA_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("MECA_STORE_PATH"); v != "" {
		c.Store.Path = v
		c.Store.Enabled = true
	}
	if v := os.Getenv("MECA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return errors.Join(errs...)
}
