// Package planner ties the catalog store to the recommendation engine and
// owns the trip lifecycle: planning, hand edits, expenses and export.
package planner

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/engine"
	"github.com/pbaille/voyago/internal/export"
	"github.com/pbaille/voyago/internal/logging"
	"github.com/pbaille/voyago/internal/render"
	"github.com/pbaille/voyago/internal/store"
)

// FallbackDestination is suggested when the catalog has no cities
const FallbackDestination = "Paris"

// Store is the persistence the planner needs
type Store interface {
	ReplacePlaces(ctx context.Context, places []domain.Place) error
	AllPlaces(ctx context.Context) ([]domain.Place, error)
	PlacesByName(ctx context.Context, names []string) ([]domain.Place, error)
	ListPlaces(ctx context.Context, f store.PlaceFilter) ([]domain.Place, error)
	Cities(ctx context.Context) ([]string, error)
	Filters(ctx context.Context) (*domain.Filters, error)

	SaveTrip(ctx context.Context, trip *domain.Trip) error
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	ListTrips(ctx context.Context, userID string) ([]domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error

	ListItems(ctx context.Context, tripID string) ([]domain.ItineraryItem, error)
	AddItem(ctx context.Context, item *domain.ItineraryItem) error
	UpdateItem(ctx context.Context, item domain.ItineraryItem) error
	DeleteItem(ctx context.Context, id string) error

	AddExpense(ctx context.Context, x *domain.Expense) error
	ListExpenses(ctx context.Context, tripID string) ([]domain.Expense, error)
	SetExpenseCleared(ctx context.Context, id string, cleared bool) error
	DeleteExpense(ctx context.Context, id string) error
	ClearExpenses(ctx context.Context, tripID string) (int64, error)
}

// Options configures a Planner; zero values take defaults
type Options struct {
	Engine   *engine.Engine
	Currency string
	Rand     *rand.Rand
	Now      func() time.Time
}

// Planner serves trip planning over a Store
type Planner struct {
	store    Store
	engine   *engine.Engine
	currency string
	rand     *rand.Rand
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a Planner
func New(s Store, opts Options) *Planner {
	if opts.Engine == nil {
		opts.Engine = engine.New(engine.DefaultConfig())
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Planner{
		store:    s,
		engine:   opts.Engine,
		currency: opts.Currency,
		rand:     opts.Rand,
		now:      opts.Now,
		log:      logging.Component("planner"),
	}
}

// TripResult is what CreateTrip hands back
type TripResult struct {
	TripID      string                 `json:"trip_id"`
	TotalCost   float64                `json:"total_cost"`
	TransitCost float64                `json:"transit_cost"`
	Itinerary   []domain.ItineraryItem `json:"itinerary"`
	HTML        string                 `json:"html"`
}

// ImportPlaces replaces the catalog
func (p *Planner) ImportPlaces(ctx context.Context, places []domain.Place) error {
	if err := p.store.ReplacePlaces(ctx, places); err != nil {
		return err
	}
	p.log.Info().Int("places", len(places)).Msg("catalog replaced")
	return nil
}

// Recommend ranks catalog places for req
func (p *Planner) Recommend(ctx context.Context, req RecommendRequest) ([]domain.ScoredPlace, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	catalog, err := p.store.AllPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	recs := p.engine.Recommend(catalog, req.Params())
	p.log.Debug().
		Str("destination", req.Destination).
		Int("candidates", len(catalog)).
		Int("results", len(recs)).
		Msg("recommendations ranked")
	return recs, nil
}

// CreateTrip schedules the selected or best rated places and saves the trip
func (p *Planner) CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	params := req.Params()

	var (
		pool []domain.Place
		err  error
	)
	if len(params.SelectedPlaces) > 0 {
		pool, err = p.store.PlacesByName(ctx, params.SelectedPlaces)
	} else {
		pool, err = p.store.AllPlaces(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}

	selected := p.engine.SelectPlaces(pool, params)
	itin, err := p.engine.BuildItinerary(selected, params)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", req.Destination, err)
	}

	table, err := render.ItineraryHTML(itin.Items)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = p.currency
	}
	trip := &domain.Trip{
		UserID:        req.UserID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		Categories:    req.Categories,
		NumDays:       req.NumDays,
		Budget:        req.Budget,
		TravelMode:    strings.ToLower(strings.TrimSpace(req.TravelMode)),
		Currency:      strings.ToUpper(currency),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalCost:     itin.TotalCost,
		ItineraryHTML: table,
		Items:         itin.Items,
	}
	if err := p.store.SaveTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("save trip: %w", err)
	}

	p.log.Info().
		Str("trip_id", trip.ID).
		Str("user_id", trip.UserID).
		Str("destination", trip.Destination).
		Int("items", len(trip.Items)).
		Float64("total_cost", trip.TotalCost).
		Msg("trip created")

	return &TripResult{
		TripID:      trip.ID,
		TotalCost:   itin.TotalCost,
		TransitCost: itin.TransitCost,
		Itinerary:   trip.Items,
		HTML:        table,
	}, nil
}

// SurpriseDestination picks a random catalog city
func (p *Planner) SurpriseDestination(ctx context.Context) (string, error) {
	cities, err := p.store.Cities(ctx)
	if err != nil {
		return "", fmt.Errorf("list cities: %w", err)
	}
	if len(cities) == 0 {
		return FallbackDestination, nil
	}
	return cities[p.rand.IntN(len(cities))], nil
}

// ActuallySpent adds recorded expenses to the travel fees of a trip
func (p *Planner) ActuallySpent(ctx context.Context, tripID string) (domain.SpendReport, error) {
	trip, err := p.store.GetTrip(ctx, tripID)
	if err != nil {
		return domain.SpendReport{}, err
	}
	expenses, err := p.store.ListExpenses(ctx, tripID)
	if err != nil {
		return domain.SpendReport{}, err
	}
	return p.engine.SpendReport(trip.TravelMode, trip.NumDays, expenses), nil
}

// Export writes a saved trip to w
func (p *Planner) Export(ctx context.Context, tripID, format string, w io.Writer) error {
	trip, err := p.store.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	return export.Write(w, format, export.NewBundle(*trip, p.now()))
}

// Filters lists the catalog's distinct filter values
func (p *Planner) Filters(ctx context.Context) (*domain.Filters, error) {
	return p.store.Filters(ctx)
}

// Places lists one city's places
func (p *Planner) Places(ctx context.Context, f store.PlaceFilter) ([]domain.Place, error) {
	if strings.TrimSpace(f.City) == "" {
		return nil, fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	places, err := p.store.ListPlaces(ctx, f)
	if err != nil {
		return nil, err
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places, nil
}

// Trip returns one trip with its items
func (p *Planner) Trip(ctx context.Context, id string) (*domain.Trip, error) {
	return p.store.GetTrip(ctx, id)
}

// Trips lists a user's trips
func (p *Planner) Trips(ctx context.Context, userID string) ([]domain.Trip, error) {
	return p.store.ListTrips(ctx, userID)
}

// DeleteTrip removes a trip and everything attached to it
func (p *Planner) DeleteTrip(ctx context.Context, id string) error {
	if err := p.store.DeleteTrip(ctx, id); err != nil {
		return err
	}
	p.log.Info().Str("trip_id", id).Msg("trip deleted")
	return nil
}

// Items lists a trip's items
func (p *Planner) Items(ctx context.Context, tripID string) ([]domain.ItineraryItem, error) {
	if _, err := p.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return p.store.ListItems(ctx, tripID)
}

// AddItem appends a hand-made item to a trip
func (p *Planner) AddItem(ctx context.Context, tripID string, req ItemRequest) (*domain.ItineraryItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	item := req.item("", tripID)
	if err := p.store.AddItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites an item
func (p *Planner) UpdateItem(ctx context.Context, id string, req ItemRequest) (*domain.ItineraryItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	item := req.item(id, "")
	if err := p.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item
func (p *Planner) DeleteItem(ctx context.Context, id string) error {
	return p.store.DeleteItem(ctx, id)
}

// AddExpense records an expense against an existing trip
func (p *Planner) AddExpense(ctx context.Context, tripID string, req ExpenseRequest) (*domain.Expense, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	trip, err := p.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	x := &domain.Expense{
		TripID:   tripID,
		UserID:   req.UserID,
		Category: req.Category,
		Amount:   req.Amount,
		Currency: strings.ToUpper(req.Currency),
		Date:     req.Date,
		Note:     req.Note,
		Payer:    req.Payer,
	}
	if x.UserID == "" {
		x.UserID = trip.UserID
	}
	if x.Currency == "" {
		x.Currency = trip.Currency
	}
	if x.Date == "" {
		x.Date = p.now().UTC().Format(time.DateOnly)
	}
	if err := p.store.AddExpense(ctx, x); err != nil {
		return nil, err
	}
	return x, nil
}

// Expenses lists a trip's expenses
func (p *Planner) Expenses(ctx context.Context, tripID string) ([]domain.Expense, error) {
	if _, err := p.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return p.store.ListExpenses(ctx, tripID)
}

// SetExpenseCleared marks an expense settled
func (p *Planner) SetExpenseCleared(ctx context.Context, id string, cleared bool) error {
	return p.store.SetExpenseCleared(ctx, id, cleared)
}

// DeleteExpense removes an expense
func (p *Planner) DeleteExpense(ctx context.Context, id string) error {
	return p.store.DeleteExpense(ctx, id)
}

// ClearExpenses removes every expense of a trip
func (p *Planner) ClearExpenses(ctx context.Context, tripID string) (int64, error) {
	n, err := p.store.ClearExpenses(ctx, tripID)
	if err != nil {
		return 0, err
	}
	p.log.Info().Str("trip_id", tripID).Int64("removed", n).Msg("expenses cleared")
	return n, nil
}
