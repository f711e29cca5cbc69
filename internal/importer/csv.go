// Package importer loads the points-of-interest dataset from CSV
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/engine"
)

// column aliases, keyed by normalized header
var columns = map[string]string{
	"name":                        "name",
	"zone":                        "zone",
	"city":                        "city",
	"state":                       "state",
	"type":                        "type",
	"significance":                "significance",
	"google_review_rating":        "rating",
	"rating":                      "rating",
	"entrance_fee_in_inr":         "fee",
	"entrance_fee_inr":            "fee",
	"entrance_fee":                "fee",
	"time_needed_to_visit_in_hrs": "hours",
	"time_needed_to_visit_hrs":    "hours",
	"visit_hours":                 "hours",
	"best_time_to_visit":          "best_time",
	"latitude":                    "lat",
	"longitude":                   "lon",
	"description":                 "description",
	"activity_type":               "activity",
	"kid_friendly":                "kids",
}

// Stats describes one import run
type Stats struct {
	Rows       int
	Imported   int
	NoName     int
	Duplicates int
}

// LoadFile reads a dataset CSV from path
func LoadFile(path string) ([]domain.Place, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses dataset rows. Columns are located by header name, numeric
// cells that are blank or malformed fall back to the catalog defaults, rows
// without a name are skipped and a repeated name keeps its first row.
func Load(r io.Reader) ([]domain.Place, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, Stats{}, fmt.Errorf("csv: empty input (no header row)")
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int)
	for i, h := range header {
		if field, ok := columns[normalizeHeader(h)]; ok {
			if _, seen := index[field]; !seen {
				index[field] = i
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, Stats{}, fmt.Errorf("csv: no Name column in header")
	}

	var (
		stats  Stats
		places []domain.Place
		seen   = make(map[string]struct{})
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("csv: line %d: %w", line, err)
		}
		stats.Rows++

		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := get("name")
		if name == "" {
			stats.NoName++
			continue
		}
		if _, dup := seen[name]; dup {
			stats.Duplicates++
			continue
		}
		seen[name] = struct{}{}

		p := domain.Place{
			Name:            name,
			Zone:            get("zone"),
			City:            get("city"),
			State:           get("state"),
			Category:        get("type"),
			Significance:    get("significance"),
			Rating:          number(get("rating"), 0),
			EntranceFee:     number(get("fee"), 0),
			VisitHours:      number(get("hours"), 1),
			BestTimeToVisit: get("best_time"),
			Latitude:        number(get("lat"), 0),
			Longitude:       number(get("lon"), 0),
			Description:     get("description"),
			ActivityType:    get("activity"),
			KidFriendly:     truthy(get("kids")),
		}
		places = append(places, engine.Sanitize(p))
	}

	stats.Imported = len(places)
	return places, stats, nil
}

// normalizeHeader maps "Google review rating" and "Google_review_rating"
// to the same key
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '_'
	}), "_")
}

func number(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
