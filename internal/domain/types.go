package domain

import "time"

// Place is a point of interest from the catalog
type Place struct {
	Name            string  `json:"name"`
	Zone            string  `json:"zone,omitempty"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Category        string  `json:"type"`
	Significance    string  `json:"significance"`
	Rating          float64 `json:"rating"`
	EntranceFee     float64 `json:"entrance_fee"`
	VisitHours      float64 `json:"visit_hours"`
	BestTimeToVisit string  `json:"best_time_to_visit,omitempty"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
	Description     string  `json:"description,omitempty"`
	ActivityType    string  `json:"activity_type,omitempty"`
	KidFriendly     bool    `json:"kid_friendly"`
}

// TripParameters are the traveler's constraints for one request
type TripParameters struct {
	Destination    string   `json:"destination"`
	Categories     []string `json:"categories,omitempty"`
	Significance   []string `json:"significance,omitempty"`
	Budget         float64  `json:"budget"`
	NumDays        int      `json:"num_days"`
	TravelMode     string   `json:"travel_mode,omitempty"`
	SelectedPlaces []string `json:"selected_places,omitempty"`
}

// ScoredPlace is a Place ranked against one candidate set
type ScoredPlace struct {
	Place
	NormalizedRating float64 `json:"normalized_rating"`
	EstimatedCost    float64 `json:"estimated_cost"`
	UtilityScore     float64 `json:"utility_score"`
}

// ItineraryItem is one scheduled visit
type ItineraryItem struct {
	ID            string  `json:"id,omitempty"`
	TripID        string  `json:"trip_id,omitempty"`
	Day           int     `json:"day"`
	PlaceName     string  `json:"place_name"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Notes         string  `json:"notes"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Itinerary is the scheduler output
type Itinerary struct {
	Items       []ItineraryItem `json:"itinerary"`
	TransitCost float64         `json:"transit_cost"`
	TotalCost   float64         `json:"total_cost"`
}

// Trip is a persisted itinerary with the request that produced it
type Trip struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Categories    []string        `json:"categories,omitempty"`
	NumDays       int             `json:"num_days"`
	Budget        float64         `json:"budget"`
	TravelMode    string          `json:"travel_mode"`
	Currency      string          `json:"currency"`
	StartDate     string          `json:"start_date,omitempty"`
	EndDate       string          `json:"end_date,omitempty"`
	TotalCost     float64         `json:"total_cost"`
	ItineraryHTML string          `json:"itinerary_html,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []ItineraryItem `json:"items,omitempty"`
}

// Expense is money actually spent during a trip
type Expense struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Date      string    `json:"date"`
	Note      string    `json:"note,omitempty"`
	Payer     string    `json:"payer"`
	Cleared   bool      `json:"cleared"`
	CreatedAt time.Time `json:"created_at"`
}

// SpendReport compares planned travel fees with recorded expenses
type SpendReport struct {
	ActuallySpent  float64 `json:"actually_spent"`
	TravelFees     float64 `json:"flight_fees"`
	ExpensesTotal  float64 `json:"expenses_total"`
	TravelMode     string  `json:"travel_mode"`
	NumDays        int     `json:"num_days"`
	BaseTravelCost float64 `json:"base_travel_cost"`
}

// CityCenter is the average coordinate of a city's places
type CityCenter struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Filters lists the distinct catalog values usable as request filters
type Filters struct {
	Cities       []string     `json:"cities"`
	CityData     []CityCenter `json:"city_data"`
	States       []string     `json:"states"`
	Types        []string     `json:"types"`
	Significance []string     `json:"significance"`
	BestTimes    []string     `json:"best_times"`
}
