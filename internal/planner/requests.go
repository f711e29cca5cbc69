package planner

import (
	"errors"
	"fmt"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/validation"
)

// ErrInvalidRequest wraps every request validation failure
var ErrInvalidRequest = errors.New("invalid request")

// RecommendRequest asks for ranked places at a destination
type RecommendRequest struct {
	Destination  string   `json:"destination" validate:"required"`
	Categories   []string `json:"categories"`
	Significance []string `json:"significance"`
	Budget       float64  `json:"budget" validate:"gte=0"`
	NumDays      int      `json:"num_days" validate:"gte=1,lte=60"`
	TravelMode   string   `json:"travel_mode"`
}

// Params converts r to engine parameters
func (r RecommendRequest) Params() domain.TripParameters {
	return domain.TripParameters{
		Destination:  r.Destination,
		Categories:   r.Categories,
		Significance: r.Significance,
		Budget:       r.Budget,
		NumDays:      r.NumDays,
		TravelMode:   r.TravelMode,
	}
}

// CreateTripRequest plans and saves a trip
type CreateTripRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination" validate:"required"`
	Categories     []string `json:"categories"`
	Budget         float64  `json:"budget" validate:"gte=0"`
	NumDays        int      `json:"num_days" validate:"gte=1,lte=60"`
	TravelMode     string   `json:"travel_mode"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
	StartDate      string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	SelectedPlaces []string `json:"selected_places"`
}

// Params converts r to engine parameters
func (r CreateTripRequest) Params() domain.TripParameters {
	return domain.TripParameters{
		Destination:    r.Destination,
		Categories:     r.Categories,
		Budget:         r.Budget,
		NumDays:        r.NumDays,
		TravelMode:     r.TravelMode,
		SelectedPlaces: r.SelectedPlaces,
	}
}

// ItemRequest is a hand-edited itinerary item
type ItemRequest struct {
	Day           int     `json:"day" validate:"gte=1"`
	PlaceName     string  `json:"place_name" validate:"required"`
	StartTime     string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime       string  `json:"end_time" validate:"required,datetime=15:04"`
	Notes         string  `json:"notes"`
	EstimatedCost float64 `json:"estimated_cost" validate:"gte=0"`
}

func (r ItemRequest) item(id, tripID string) domain.ItineraryItem {
	return domain.ItineraryItem{
		ID:            id,
		TripID:        tripID,
		Day:           r.Day,
		PlaceName:     r.PlaceName,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Notes:         r.Notes,
		EstimatedCost: r.EstimatedCost,
	}
}

// ExpenseRequest records money spent on a trip
type ExpenseRequest struct {
	UserID   string  `json:"user_id"`
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note     string  `json:"note"`
	Payer    string  `json:"payer"`
}

func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}
