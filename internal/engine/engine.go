// Package engine ranks places for a trip and packs them into days.
//
// Every function here is a pure computation over its arguments: nothing is
// cached, logged or persisted, so an Engine may be shared freely between
// goroutines.
package engine

import (
	"errors"

	"github.com/pbaille/voyago/internal/domain"
)

// ErrEmptySelection is returned when an itinerary is requested without places
var ErrEmptySelection = errors.New("no places found for this trip")

// Defaults for Config
const (
	DefaultMaxHoursPerDay = 8.0
	DefaultDayStartHour   = 9.0
	DefaultTransitPerDay  = 500.0
	DefaultTopN           = 15
	DefaultFallbackTopN   = 5
)

// Config holds the tunables of the scoring and scheduling heuristics
type Config struct {
	// Modes is the canonical travel-mode multiplier table. Ranking uses its
	// fallback factor, scheduling resolves the trip's actual mode.
	Modes ModeTable

	// TravelCosts is the per-mode baseline used for spend reports
	TravelCosts ModeTable

	MaxHoursPerDay float64
	DayStartHour   float64
	TransitPerDay  float64
	TopN           int
	FallbackTopN   int
}

// DefaultConfig returns the stock heuristic parameters
func DefaultConfig() Config {
	return Config{
		Modes:          DefaultModes(),
		TravelCosts:    DefaultTravelCosts(),
		MaxHoursPerDay: DefaultMaxHoursPerDay,
		DayStartHour:   DefaultDayStartHour,
		TransitPerDay:  DefaultTransitPerDay,
		TopN:           DefaultTopN,
		FallbackTopN:   DefaultFallbackTopN,
	}
}

// Engine applies one Config to recommendation and scheduling requests
type Engine struct {
	cfg Config
}

// New creates an Engine; zero fields in cfg take their defaults
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Modes.IsZero() {
		cfg.Modes = def.Modes
	}
	if cfg.TravelCosts.IsZero() {
		cfg.TravelCosts = def.TravelCosts
	}
	if cfg.MaxHoursPerDay <= 0 {
		cfg.MaxHoursPerDay = def.MaxHoursPerDay
	}
	if cfg.DayStartHour <= 0 {
		cfg.DayStartHour = def.DayStartHour
	}
	if cfg.TransitPerDay <= 0 {
		cfg.TransitPerDay = def.TransitPerDay
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.FallbackTopN <= 0 {
		cfg.FallbackTopN = def.FallbackTopN
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Recommend ranks candidates with the default configuration
func Recommend(candidates []domain.Place, params domain.TripParameters) []domain.ScoredPlace {
	return New(DefaultConfig()).Recommend(candidates, params)
}

// BuildItinerary schedules selected places with the default configuration
func BuildItinerary(selected []domain.Place, params domain.TripParameters) (domain.Itinerary, error) {
	return New(DefaultConfig()).BuildItinerary(selected, params)
}
