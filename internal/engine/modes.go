package engine

import (
	"sort"
	"strings"
)

// Travel modes known to the default tables
const (
	ModeFlight = "flight"
	ModeTrain  = "train"
	ModeRoad   = "road"
	ModeBus    = "bus"
	ModeCar    = "car"
)

// ModeTable is an immutable, case-insensitive travel-mode lookup
type ModeTable struct {
	values   map[string]float64
	fallback float64
}

// NewModeTable copies values into a table; unknown modes resolve to fallback
func NewModeTable(values map[string]float64, fallback float64) ModeTable {
	m := make(map[string]float64, len(values))
	for k, v := range values {
		m[normalizeMode(k)] = v
	}
	return ModeTable{values: m, fallback: fallback}
}

// DefaultModes is the cost multiplier per travel mode
func DefaultModes() ModeTable {
	return NewModeTable(map[string]float64{
		ModeFlight: 1.4,
		ModeTrain:  1.0,
		ModeRoad:   0.9,
		ModeBus:    0.8,
		ModeCar:    1.2,
	}, 1.0)
}

// DefaultTravelCosts is the baseline fare per travel mode
func DefaultTravelCosts() ModeTable {
	return NewModeTable(map[string]float64{
		ModeFlight: 5000,
		ModeTrain:  2000,
		ModeRoad:   1500,
		ModeBus:    1000,
		ModeCar:    3000,
	}, 2000)
}

// Lookup returns the value for mode and whether the mode is known
func (t ModeTable) Lookup(mode string) (float64, bool) {
	v, ok := t.values[normalizeMode(mode)]
	if !ok {
		return t.fallback, false
	}
	return v, true
}

// Factor returns the value for mode, or the fallback
func (t ModeTable) Factor(mode string) float64 {
	v, _ := t.Lookup(mode)
	return v
}

// Fallback is the value for unknown modes
func (t ModeTable) Fallback() float64 {
	return t.fallback
}

// Modes lists the known modes in sorted order
func (t ModeTable) Modes() []string {
	modes := make([]string, 0, len(t.values))
	for k := range t.values {
		modes = append(modes, k)
	}
	sort.Strings(modes)
	return modes
}

// IsZero reports whether the table was never initialized
func (t ModeTable) IsZero() bool {
	return t.values == nil && t.fallback == 0
}

func normalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
