// Package config provides Viper-based configuration loading for the arena
// client simulation and the relay.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RelayConfig holds the websocket relay connection settings.
type RelayConfig struct {
	// Host is the relay's address (client side) or bind address (relay side).
	Host string `mapstructure:"host"`
	// Port is the relay's TCP port.
	Port int `mapstructure:"port"`
	// Room is the match room the client joins.
	Room string `mapstructure:"room"`
}

// Addr returns the "host:port" relay address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (r RelayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SimulationConfig holds tick-loop and gameplay pacing settings.
type SimulationConfig struct {
	// TickInterval is the fixed simulation step interval.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// SwitchInterval is the minimum time between weapon switches.
	SwitchInterval time.Duration `mapstructure:"switch_interval"`
	// ComboResetWindow resets an idle melee combo back to step one.
	ComboResetWindow time.Duration `mapstructure:"combo_reset_window"`
	// LuaInstructionLimit caps each debuff hook's instruction budget.
	// 0 uses the scripting package default.
	LuaInstructionLimit int `mapstructure:"lua_instruction_limit"`
}

// ContentConfig points at optional YAML content-pack directories layered on
// top of the built-in baseline definitions.
type ContentConfig struct {
	// AbilitiesDir holds ability/weapon override documents. Empty = baseline only.
	AbilitiesDir string `mapstructure:"abilities_dir"`
	// DebuffsDir holds debuff override documents. Empty = baseline only.
	DebuffsDir string `mapstructure:"debuffs_dir"`
}

// ArenaConfig holds the playable-area geometry.
type ArenaConfig struct {
	HalfWidth float64 `mapstructure:"half_width"`
	HalfDepth float64 `mapstructure:"half_depth"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Relay      RelayConfig      `mapstructure:"relay"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Arena      ArenaConfig      `mapstructure:"arena"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateRelay(c.Relay); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateArena(c.Arena); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRelay(r RelayConfig) error {
	var errs []string
	if r.Host == "" {
		errs = append(errs, "relay.host must not be empty")
	}
	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Sprintf("relay.port must be 1-65535, got %d", r.Port))
	}
	if r.Room == "" {
		errs = append(errs, "relay.room must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, "simulation.tick_interval must be > 0")
	}
	if s.SwitchInterval < 0 {
		errs = append(errs, "simulation.switch_interval must not be negative")
	}
	if s.ComboResetWindow <= 0 {
		errs = append(errs, "simulation.combo_reset_window must be > 0")
	}
	if s.LuaInstructionLimit < 0 {
		errs = append(errs, "simulation.lua_instruction_limit must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateArena(a ArenaConfig) error {
	if a.HalfWidth <= 0 || a.HalfDepth <= 0 {
		return fmt.Errorf("arena.half_width and arena.half_depth must be > 0, got %g x %g",
			a.HalfWidth, a.HalfDepth)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("relay.host", "127.0.0.1")
	v.SetDefault("relay.port", 7420)
	v.SetDefault("relay.room", "arena-1")

	v.SetDefault("simulation.tick_interval", "50ms")
	v.SetDefault("simulation.switch_interval", "800ms")
	v.SetDefault("simulation.combo_reset_window", "2s")
	v.SetDefault("simulation.lua_instruction_limit", 0)

	v.SetDefault("arena.half_width", 50.0)
	v.SetDefault("arena.half_depth", 50.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
