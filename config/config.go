// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Energy    EnergyConfig    `yaml:"energy"`
	Nuts      NutsConfig      `yaml:"nuts"`
	Squirrels SquirrelsConfig `yaml:"squirrels"`
	Foxes     FoxesConfig     `yaml:"foxes"`
	Seasons   SeasonsConfig   `yaml:"seasons"`
	Daylight  DaylightConfig  `yaml:"daylight"`
	Autopilot AutopilotConfig `yaml:"autopilot"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorldConfig holds map and tile parameters.
type WorldConfig struct {
	MapPath     string `yaml:"map_path"`     // empty = embedded meadow map
	GroundTiles int    `yaml:"ground_tiles"` // number of decoration variants per ground tile
}

// PlayerConfig holds the player squirrel's starting state.
type PlayerConfig struct {
	StartX        int     `yaml:"start_x"`
	StartY        int     `yaml:"start_y"`
	InitialEnergy int     `yaml:"initial_energy"`
	MoveCost      float64 `yaml:"move_cost"` // energy per tile of distance moved
}

// EnergyConfig holds the periodic energy drain.
type EnergyConfig struct {
	LossPeriod time.Duration `yaml:"loss_period"`
	LossPerSec float64       `yaml:"loss_per_sec"`
}

// NutsConfig holds nut spawning parameters.
// Per-level values follow: count = max(1, BaseCount-level), period = SpawnBase + level*SpawnPerLevel.
type NutsConfig struct {
	Energy        int           `yaml:"energy"`
	BaseCount     int           `yaml:"base_count"`
	SpawnBase     time.Duration `yaml:"spawn_base"`
	SpawnPerLevel time.Duration `yaml:"spawn_per_level"`
	SpawnAttempts int           `yaml:"spawn_attempts"` // random cells tried before a spawn is skipped
}

// SquirrelsConfig holds forager NPC parameters.
type SquirrelsConfig struct {
	Count             int           `yaml:"count"` // summer population; winter has none
	MovePeriod        time.Duration `yaml:"move_period"`
	GetNutProbability float64       `yaml:"get_nut_probability"`
}

// FoxesConfig holds predator NPC parameters.
type FoxesConfig struct {
	MovePeriod      time.Duration `yaml:"move_period"`
	AttackDistance  float64       `yaml:"attack_distance"`
	HuntProbability float64       `yaml:"hunt_probability"`
}

// SeasonsConfig holds round lengths.
type SeasonsConfig struct {
	Summer      time.Duration `yaml:"summer"`
	Winter      time.Duration `yaml:"winter"`
	RoundPeriod time.Duration `yaml:"round_period"` // cadence of the round-elapsed timer
}

// DaylightConfig holds the nightfall ramp.
type DaylightConfig struct {
	TransitionRate   time.Duration `yaml:"transition_rate"`   // one nightfall unit per this much time
	TransitionLength time.Duration `yaml:"transition_length"` // dusk before the next season starts
	InitialNightfall float64       `yaml:"initial_nightfall"`
}

// AutopilotConfig holds the scripted player's parameters.
type AutopilotConfig struct {
	ThinkInterval time.Duration `yaml:"think_interval"`
	ShelterMargin time.Duration `yaml:"shelter_margin"` // head for a tree this long before round end
	EatBelow      int           `yaml:"eat_below"`      // eat nuts when energy is below this, cache otherwise
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow time.Duration `yaml:"stats_window"`
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
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy. Config has no reference fields, so a value copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects configurations the scheduler or behaviors cannot run with.
func (c *Config) Validate() error {
	periods := []struct {
		name string
		d    time.Duration
	}{
		{"energy.loss_period", c.Energy.LossPeriod},
		{"nuts.spawn_base", c.Nuts.SpawnBase},
		{"squirrels.move_period", c.Squirrels.MovePeriod},
		{"foxes.move_period", c.Foxes.MovePeriod},
		{"seasons.summer", c.Seasons.Summer},
		{"seasons.winter", c.Seasons.Winter},
		{"seasons.round_period", c.Seasons.RoundPeriod},
		{"daylight.transition_rate", c.Daylight.TransitionRate},
		{"daylight.transition_length", c.Daylight.TransitionLength},
		{"telemetry.stats_window", c.Telemetry.StatsWindow},
	}
	for _, p := range periods {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalid, p.name, p.d)
		}
	}

	probs := []struct {
		name string
		p    float64
	}{
		{"squirrels.get_nut_probability", c.Squirrels.GetNutProbability},
		{"foxes.hunt_probability", c.Foxes.HuntProbability},
	}
	for _, p := range probs {
		if p.p < 0 || p.p > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalid, p.name, p.p)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"energy.loss_per_sec", c.Energy.LossPerSec},
		{"nuts.energy", float64(c.Nuts.Energy)},
		{"player.move_cost", c.Player.MoveCost},
		{"player.start_x", float64(c.Player.StartX)},
		{"player.start_y", float64(c.Player.StartY)},
	}
	for _, n := range nonNegative {
		if n.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, n.name, n.v)
		}
	}

	if c.World.GroundTiles < 1 {
		return fmt.Errorf("%w: world.ground_tiles must be at least 1", ErrInvalid)
	}
	if c.Squirrels.Count < 0 {
		return fmt.Errorf("%w: squirrels.count must not be negative", ErrInvalid)
	}
	return nil
}

// RoundDuration returns the length of the given season.
func (c *Config) RoundDuration(winter bool) time.Duration {
	if winter {
		return c.Seasons.Winter
	}
	return c.Seasons.Summer
}

// MaxNightfall is the nightfall value at which the world is fully dark.
func (c *Config) MaxNightfall() float64 {
	return float64(c.Daylight.TransitionLength) / float64(c.Daylight.TransitionRate)
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
