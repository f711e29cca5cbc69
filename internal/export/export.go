// Package export writes a saved trip as json, yaml or csv
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/render"
)

// Formats lists the supported export formats
var Formats = []string{"json", "yaml", "csv"}

// ErrUnknownFormat is returned by Write for formats outside Formats
var ErrUnknownFormat = errors.New("unsupported export format")

// Bundle is the exported document
type Bundle struct {
	Trip       domain.Trip            `json:"trip" yaml:"trip"`
	Items      []domain.ItineraryItem `json:"items" yaml:"items"`
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
}

// NewBundle splits a trip's items out of the trip body
func NewBundle(trip domain.Trip, now time.Time) Bundle {
	items := trip.Items
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	trip.Items = nil
	return Bundle{Trip: trip, Items: items, ExportedAt: now.UTC()}
}

// ContentType returns the MIME type for format
func ContentType(format string) string {
	switch normalize(format) {
	case "json":
		return "application/json"
	case "yaml":
		return "application/yaml"
	case "csv":
		return "text/csv"
	}
	return "application/octet-stream"
}

// Write encodes b to w. The csv format carries only the items.
func Write(w io.Writer, format string, b Bundle) error {
	switch normalize(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlBundle(b)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "csv":
		return writeCSV(w, b.Items)
	}
	return fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

func writeCSV(w io.Writer, items []domain.ItineraryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(render.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		record := []string{
			strconv.Itoa(it.Day),
			it.PlaceName,
			it.StartTime,
			it.EndTime,
			it.Notes,
			strconv.FormatFloat(it.EstimatedCost, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for format
func Extension(format string) string {
	return normalize(format)
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "yml" {
		return "yaml"
	}
	return f
}

// yaml.v3 has no json tag fallback, so the wire shape is spelled out
type yamlTrip struct {
	ID          string    `yaml:"id"`
	UserID      string    `yaml:"user_id"`
	Origin      string    `yaml:"origin"`
	Destination string    `yaml:"destination"`
	Categories  []string  `yaml:"categories,omitempty"`
	NumDays     int       `yaml:"num_days"`
	Budget      float64   `yaml:"budget"`
	TravelMode  string    `yaml:"travel_mode"`
	Currency    string    `yaml:"currency"`
	StartDate   string    `yaml:"start_date,omitempty"`
	EndDate     string    `yaml:"end_date,omitempty"`
	TotalCost   float64   `yaml:"total_cost"`
	CreatedAt   time.Time `yaml:"created_at"`
}

type yamlItem struct {
	Day           int     `yaml:"day"`
	PlaceName     string  `yaml:"place_name"`
	StartTime     string  `yaml:"start_time"`
	EndTime       string  `yaml:"end_time"`
	Notes         string  `yaml:"notes"`
	EstimatedCost float64 `yaml:"estimated_cost"`
}

type yamlDoc struct {
	Trip       yamlTrip   `yaml:"trip"`
	Items      []yamlItem `yaml:"items"`
	ExportedAt time.Time  `yaml:"exported_at"`
}

func yamlBundle(b Bundle) yamlDoc {
	t := b.Trip
	doc := yamlDoc{
		Trip: yamlTrip{
			ID: t.ID, UserID: t.UserID, Origin: t.Origin, Destination: t.Destination,
			Categories: t.Categories, NumDays: t.NumDays, Budget: t.Budget,
			TravelMode: t.TravelMode, Currency: t.Currency, StartDate: t.StartDate,
			EndDate: t.EndDate, TotalCost: t.TotalCost, CreatedAt: t.CreatedAt,
		},
		Items:      make([]yamlItem, 0, len(b.Items)),
		ExportedAt: b.ExportedAt,
	}
	for _, it := range b.Items {
		doc.Items = append(doc.Items, yamlItem{
			Day: it.Day, PlaceName: it.PlaceName, StartTime: it.StartTime,
			EndTime: it.EndTime, Notes: it.Notes, EstimatedCost: it.EstimatedCost,
		})
	}
	return doc
}
