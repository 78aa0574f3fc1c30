// Package config provides the immutable tunable surface of the simulation.
// Defaults are embedded; a YAML file can override them. The loaded Config is
// injected at engine construction and never mutated afterwards.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Penguin   SpeciesConfig   `yaml:"penguin"`
	Seal      SpeciesConfig   `yaml:"seal"`
	Fish      SpeciesConfig   `yaml:"fish"`
	Energy    EnergyConfig    `yaml:"energy"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	Predation PredationConfig `yaml:"predation"`
	Breeding  BreedingConfig  `yaml:"breeding"`
	Spawning  SpawningConfig  `yaml:"spawning"`
	Floes     FloeConfig      `yaml:"floes"`
	Climate   ClimateConfig   `yaml:"climate"`
	Driver    DriverConfig    `yaml:"driver"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	API       APIConfig       `yaml:"api"`
}

// WorldConfig holds map dimensions and initial populations.
type WorldConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	CellSize        float64 `yaml:"cell_size"` // spatial index cell size
	InitialPenguins int     `yaml:"initial_penguins"`
	InitialSeals    int     `yaml:"initial_seals"`
	InitialFish     int     `yaml:"initial_fish"`
}

// SpeciesConfig holds the fixed constants of one species.
type SpeciesConfig struct {
	MaxEnergy        float64 `yaml:"max_energy"`
	MaxAge           int     `yaml:"max_age"`
	LandSpeed        float64 `yaml:"land_speed"`
	WaterSpeed       float64 `yaml:"water_speed"`
	BreedingCooldown int     `yaml:"breeding_cooldown"`
	BreedEnergy      float64 `yaml:"breed_energy"`   // minimum energy to breed
	BreedCost        float64 `yaml:"breed_cost"`     // energy paid by each parent
	BreedDistance    float64 `yaml:"breed_distance"` // pair must be this close
	OffspringEnergy  float64 `yaml:"offspring_energy"`
	MinStartEnergy   float64 `yaml:"min_start_energy"`
	MaxStartEnergy   float64 `yaml:"max_start_energy"`
}

// EnergyConfig holds energy drain rates shared by all species.
type EnergyConfig struct {
	Metabolism float64 `yaml:"metabolism"` // basal drain per tick
	MoveCost   float64 `yaml:"move_cost"`  // flat drain per move
}

// BehaviorConfig holds the state machine's perception and steering constants.
type BehaviorConfig struct {
	PerceptionLand      float64 `yaml:"perception_land"` // predator awareness on land
	PerceptionSea       float64 `yaml:"perception_sea"`  // predator awareness in the sea
	SearchRadius        float64 `yaml:"search_radius"`
	RetargetRadius      float64 `yaml:"retarget_radius"`
	MaxTrackingDistance float64 `yaml:"max_tracking_distance"`
	SearchHoldMin       int     `yaml:"search_hold_min"` // ticks a search heading is held
	SearchHoldMax       int     `yaml:"search_hold_max"`
	SearchStepMin       float64 `yaml:"search_step_min"` // desired step while searching
	SearchStepMax       float64 `yaml:"search_step_max"`
	FleeHoldTicks       int     `yaml:"flee_hold_ticks"`
	FleeJitter          float64 `yaml:"flee_jitter"` // radians either side of away-heading
	HuntingThreshold    float64 `yaml:"hunting_threshold"`
	SocialThreshold     float64 `yaml:"social_threshold"`
	HuntingCooldown     int     `yaml:"hunting_cooldown"` // ticks after a kill
	CrowdRadiusLand     float64 `yaml:"crowd_radius_land"`
	CrowdRadiusSea      float64 `yaml:"crowd_radius_sea"`
	CrowdLimit          int     `yaml:"crowd_limit"`
	EdgeMargin          float64 `yaml:"edge_margin"`
	ExplorationSpeedCap float64 `yaml:"exploration_speed_cap"`
}

// PredationConfig holds per-pair strike distances and energy yields.
type PredationConfig struct {
	SealPenguinDistance float64 `yaml:"seal_penguin_distance"`
	SealFishDistance    float64 `yaml:"seal_fish_distance"`
	PenguinFishDistance float64 `yaml:"penguin_fish_distance"`
	SealPenguinEnergy   float64 `yaml:"seal_penguin_energy"`
	SealFishEnergy      float64 `yaml:"seal_fish_energy"`
	PenguinFishEnergy   float64 `yaml:"penguin_fish_energy"`
}

// BreedingConfig holds the fish's opportunistic breeding parameters.
// Penguin and seal breeding constants live in their SpeciesConfig.
type BreedingConfig struct {
	FishChance   float64 `yaml:"fish_chance"` // per-tick breeding probability
	FishMaxPairs int     `yaml:"fish_max_pairs"`
}

// SpawningConfig holds the population-floor spawning parameters.
type SpawningConfig struct {
	FishFloor      int     `yaml:"fish_floor"`
	FishChance     float64 `yaml:"fish_chance"`
	SampleAttempts int     `yaml:"sample_attempts"` // rejection sampling budget
}

// FloeConfig holds ice floe generation and drift parameters.
type FloeConfig struct {
	MinCount   int     `yaml:"min_count"`
	MaxCount   int     `yaml:"max_count"`
	MinRadius  float64 `yaml:"min_radius"`
	MaxRadius  float64 `yaml:"max_radius"`
	DriftSpeed float64 `yaml:"drift_speed"` // eastward units per tick
}

// ClimateConfig holds the seasonal climate parameters.
type ClimateConfig struct {
	SeasonLength int     `yaml:"season_length"` // ticks per season; cycle is 4× this
	IceCoverage  float64 `yaml:"ice_coverage"`
	SeaLevel     float64 `yaml:"sea_level"`
}

// DriverConfig holds the external tick loop's settings.
type DriverConfig struct {
	TicksPerSecond float64 `yaml:"ticks_per_second"`
}

// TelemetryConfig holds observation output settings.
type TelemetryConfig struct {
	Interval int    `yaml:"interval"` // ticks between stats records; 0 disables
	Dir      string `yaml:"dir"`      // CSV output directory; empty disables
}

// APIConfig holds HTTP surface settings.
type APIConfig struct {
	Port          int `yaml:"port"`
	StepRateLimit int `yaml:"step_rate_limit"` // POST /step calls per hour; 0 disables
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// The embedded defaults are part of the build; failing to parse them
		// is a packaging defect, not a runtime condition.
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return &cfg
}

// Load returns the defaults overridden by the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
