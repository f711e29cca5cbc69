// Package config loads voyago settings from defaults, an optional YAML file
// and VOYAGO_* environment variables, in increasing priority.
//
// Environment keys map to config paths by dropping the prefix, lowercasing
// and turning a double underscore into a section separator:
//
//	VOYAGO_SERVER__ADDR=:9000            -> server.addr
//	VOYAGO_ENGINE__MAX_HOURS_PER_DAY=10  -> engine.max_hours_per_day
//	VOYAGO_SERVER__CORS_ORIGINS=a,b      -> server.cors_origins (comma list)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pbaille/voyago/internal/engine"
	"github.com/pbaille/voyago/internal/validation"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "VOYAGO_"

	// PathEnvVar names a config file to load
	PathEnvVar = "VOYAGO_CONFIG"

	// DefaultPath is read when present and no other file is named
	DefaultPath = "voyago.yaml"
)

// Config is the full application configuration
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Engine   EngineConfig   `koanf:"engine"`

	// Currency tags amounts in responses; it is never converted
	Currency string `koanf:"currency" validate:"required"`
}

// DatabaseConfig locates the sqlite file
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig mirrors logging.Config
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// EngineConfig holds the heuristic parameters and travel-mode tables
type EngineConfig struct {
	MaxHoursPerDay    float64            `koanf:"max_hours_per_day" validate:"gt=0,lte=24"`
	DayStartHour      float64            `koanf:"day_start_hour" validate:"gte=0,lt=24"`
	TransitPerDay     float64            `koanf:"transit_per_day" validate:"gte=0"`
	TopN              int                `koanf:"top_n" validate:"min=1"`
	FallbackTopN      int                `koanf:"fallback_top_n" validate:"min=1"`
	ModeFactors       map[string]float64 `koanf:"mode_factors"`
	DefaultModeFactor float64            `koanf:"default_mode_factor" validate:"gt=0"`
	TravelCosts       map[string]float64 `koanf:"travel_costs"`
	DefaultTravelCost float64            `koanf:"default_travel_cost" validate:"gte=0"`
}

// Build converts the settings into an engine configuration
func (c EngineConfig) Build() engine.Config {
	return engine.Config{
		Modes:          engine.NewModeTable(c.ModeFactors, c.DefaultModeFactor),
		TravelCosts:    engine.NewModeTable(c.TravelCosts, c.DefaultTravelCost),
		MaxHoursPerDay: c.MaxHoursPerDay,
		DayStartHour:   c.DayStartHour,
		TransitPerDay:  c.TransitPerDay,
		TopN:           c.TopN,
		FallbackTopN:   c.FallbackTopN,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "voyago.db"},
		Server: ServerConfig{
			Addr:              ":8080",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Engine: EngineConfig{
			MaxHoursPerDay: engine.DefaultMaxHoursPerDay,
			DayStartHour:   engine.DefaultDayStartHour,
			TransitPerDay:  engine.DefaultTransitPerDay,
			TopN:           engine.DefaultTopN,
			FallbackTopN:   engine.DefaultFallbackTopN,
			ModeFactors: map[string]float64{
				engine.ModeFlight: 1.4,
				engine.ModeTrain:  1.0,
				engine.ModeRoad:   0.9,
				engine.ModeBus:    0.8,
				engine.ModeCar:    1.2,
			},
			DefaultModeFactor: 1.0,
			TravelCosts: map[string]float64{
				engine.ModeFlight: 5000,
				engine.ModeTrain:  2000,
				engine.ModeRoad:   1500,
				engine.ModeBus:    1000,
				engine.ModeCar:    3000,
			},
			DefaultTravelCost: 2000,
		},
		Currency: "INR",
	}
}

// sliceKeys are parsed as comma-separated lists when set from the environment
var sliceKeys = []string{"server.cors_origins"}

// Load builds the configuration. path may be empty, in which case
// $VOYAGO_CONFIG and then DefaultPath are tried.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path = findFile(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitLists(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validation.Struct(c)
}

func findFile(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// envKey maps VOYAGO_SERVER__ADDR to server.addr. The config file variable
// itself is not a setting and is dropped.
func envKey(key string) string {
	if key == PathEnvVar {
		return ""
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

func splitLists(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
