// Package config provides configuration loading and access for the simulation.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Map        MapConfig        `yaml:"map"`
	Params     `yaml:",inline"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Bookmarks  BookmarksConfig `yaml:"bookmarks"`

	// Initial population placed before the first run.
	Deployments []Deployment `yaml:"deployments"`
}

// SimulationConfig holds run control settings.
type SimulationConfig struct {
	Seed             int64   `yaml:"seed"`               // RNG seed (0 = time-based in the CLI)
	Years            float64 `yaml:"years"`              // Years to simulate; must be a whole number
	SnapshotInterval int     `yaml:"snapshot_interval"`  // Years between stats/snapshot hooks
	StopOnExtinction bool    `yaml:"stop_on_extinction"` // Halt once both species reach zero
}

// MapConfig selects the island map. Layout wins over File; if both are empty a
// map of Rows x Cols is generated from Seed.
type MapConfig struct {
	Layout string `yaml:"layout"`
	File   string `yaml:"file"`
	Rows   int    `yaml:"rows"`
	Cols   int    `yaml:"cols"`
	Seed   int64  `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogStats            bool   `yaml:"log_stats"`
	OutputDir           string `yaml:"output_dir"`
	SnapshotDir         string `yaml:"snapshot_dir"`
	BookmarkHistorySize int    `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// Deployment places a population on the cell at Loc (1-based row, column).
type Deployment struct {
	Loc []int        `yaml:"loc"`
	Pop []AnimalSpec `yaml:"pop"`
}

// AnimalSpec describes one deployed animal.
type AnimalSpec struct {
	Species string  `yaml:"species"`
	Age     Age     `yaml:"age"`
	Weight  float64 `yaml:"weight"`
}

// ErrNonIntegerAge is returned when a deployed age is not a whole number.
var ErrNonIntegerAge = errors.New("age must be a whole number")

// Age is a whole number of years. Decoding rejects fractional values instead
// of truncating them.
type Age int

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Age) UnmarshalYAML(value *yaml.Node) error {
	var f float64
	if err := value.Decode(&f); err != nil {
		return err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("line %d: %w, got %s", value.Line, ErrNonIntegerAge, value.Value)
	}
	*a = Age(f)
	return nil
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse merges YAML data over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.merge(data); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge decodes data into c. Only fields present in data are overwritten and
// unknown keys are rejected.
func (c *Config) merge(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that every parameter set holds non-negative values and that
// the run settings are usable.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Simulation.SnapshotInterval < 0 {
		return fmt.Errorf("simulation.snapshot_interval must be non-negative, got %d", c.Simulation.SnapshotInterval)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Deployments = make([]Deployment, len(c.Deployments))
	for i, d := range c.Deployments {
		out.Deployments[i] = Deployment{
			Loc: append([]int(nil), d.Loc...),
			Pop: append([]AnimalSpec(nil), d.Pop...),
		}
	}
	return &out
}

// MapText returns the configured map text, reading Map.File if no inline
// layout is set. Returns "" when the map should be generated.
func (c *Config) MapText() (string, error) {
	if c.Map.Layout != "" {
		return c.Map.Layout, nil
	}
	if c.Map.File != "" {
		data, err := os.ReadFile(c.Map.File)
		if err != nil {
			return "", fmt.Errorf("reading map file: %w", err)
		}
		return string(data), nil
	}
	return "", nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
