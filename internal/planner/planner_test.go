package planner

import (
	"bytes"
	"context"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/engine"
	"github.com/pbaille/voyago/internal/store"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func catalog() []domain.Place {
	mk := func(name, city, state, category string, rating, fee, hours float64) domain.Place {
		return domain.Place{Name: name, City: city, State: state, Category: category,
			Significance: "Cultural", Rating: rating, EntranceFee: fee, VisitHours: hours}
	}
	return []domain.Place{
		mk("Red Fort", "Delhi", "Delhi", "Historical", 4.5, 35, 2),
		mk("Qutub Minar", "Delhi", "Delhi", "Historical", 4.6, 30, 1.5),
		mk("Lotus Temple", "Delhi", "Delhi", "Religious", 4.4, 0, 1),
		mk("India Gate", "Delhi", "Delhi", "Monument", 4.6, 0, 1),
		mk("Amber Fort", "Jaipur", "Rajasthan", "Historical", 4.6, 100, 3),
	}
}

func newPlanner(t *testing.T, places []domain.Place) (*Planner, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	p := New(s, Options{
		Engine: engine.New(engine.DefaultConfig()),
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Now:    func() time.Time { return fixedNow },
	})
	if places != nil {
		require.NoError(t, p.ImportPlaces(context.Background(), places))
	}
	return p, s
}

func tripRequest() CreateTripRequest {
	return CreateTripRequest{
		UserID:      "user-1",
		Origin:      "Mumbai",
		Destination: "Delhi",
		Budget:      5000,
		NumDays:     2,
		TravelMode:  "Train",
	}
}

func TestRecommend(t *testing.T) {
	p, _ := newPlanner(t, catalog())

	recs, err := p.Recommend(context.Background(), RecommendRequest{
		Destination: "delhi",
		Categories:  []string{"Historical"},
		Budget:      5000,
		NumDays:     3,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "Qutub Minar", recs[0].Name)
}

func TestRecommendInvalid(t *testing.T) {
	p, _ := newPlanner(t, catalog())

	_, err := p.Recommend(context.Background(), RecommendRequest{NumDays: 0})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "destination is required")
	require.ErrorContains(t, err, "num_days must be at least 1")
}

func TestCreateTrip(t *testing.T) {
	p, s := newPlanner(t, catalog())
	ctx := context.Background()

	res, err := p.CreateTrip(ctx, tripRequest())
	require.NoError(t, err)
	require.NotEmpty(t, res.TripID)

	items := res.Itinerary
	require.Len(t, items, 4)
	require.Equal(t, "Qutub Minar", items[0].PlaceName)
	require.Equal(t, "09:00", items[0].StartTime)
	require.Equal(t, "India Gate", items[1].PlaceName)
	require.Equal(t, "Lotus Temple", items[3].PlaceName)
	require.Equal(t, "14:30", items[3].EndTime)
	require.InDelta(t, 1000, res.TransitCost, 1e-9)
	require.InDelta(t, 1066.18, res.TotalCost, 1e-9)
	require.Contains(t, res.HTML, `class="table table-sm"`)

	saved, err := s.GetTrip(ctx, res.TripID)
	require.NoError(t, err)
	require.Equal(t, "train", saved.TravelMode)
	require.Equal(t, "INR", saved.Currency)
	require.Equal(t, res.TotalCost, saved.TotalCost)
	require.Equal(t, res.HTML, saved.ItineraryHTML)
	require.Len(t, saved.Items, 4)
	require.Equal(t, items[0].ID, saved.Items[0].ID)
}

func TestCreateTripSelectedPlaces(t *testing.T) {
	p, _ := newPlanner(t, catalog())

	req := tripRequest()
	req.SelectedPlaces = []string{"Lotus Temple", "Red Fort", "Nowhere"}
	res, err := p.CreateTrip(context.Background(), req)
	require.NoError(t, err)

	items := res.Itinerary
	require.Len(t, items, 2)
	require.Equal(t, "Red Fort", items[0].PlaceName)
	require.Equal(t, "Lotus Temple", items[1].PlaceName)
}

func TestCreateTripEmptySelection(t *testing.T) {
	p, _ := newPlanner(t, catalog())

	req := tripRequest()
	req.Destination = "Atlantis"
	_, err := p.CreateTrip(context.Background(), req)
	require.ErrorIs(t, err, engine.ErrEmptySelection)

	req = tripRequest()
	req.SelectedPlaces = []string{"Nowhere"}
	_, err = p.CreateTrip(context.Background(), req)
	require.ErrorIs(t, err, engine.ErrEmptySelection)
}

func TestCreateTripInvalid(t *testing.T) {
	p, _ := newPlanner(t, catalog())

	req := tripRequest()
	req.UserID = ""
	req.StartDate = "03/01/2026"
	_, err := p.CreateTrip(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "user_id is required")
	require.ErrorContains(t, err, "start_date must match")
}

func TestSurpriseDestination(t *testing.T) {
	empty, _ := newPlanner(t, nil)
	city, err := empty.SurpriseDestination(context.Background())
	require.NoError(t, err)
	require.Equal(t, FallbackDestination, city)

	p, _ := newPlanner(t, catalog())
	for i := 0; i < 10; i++ {
		city, err := p.SurpriseDestination(context.Background())
		require.NoError(t, err)
		require.Contains(t, []string{"Delhi", "Jaipur"}, city)
	}
}

func TestExpensesAndActuallySpent(t *testing.T) {
	p, _ := newPlanner(t, catalog())
	ctx := context.Background()

	res, err := p.CreateTrip(ctx, tripRequest())
	require.NoError(t, err)

	x, err := p.AddExpense(ctx, res.TripID, ExpenseRequest{Category: "food", Amount: 150.25})
	require.NoError(t, err)
	require.Equal(t, "user-1", x.UserID)
	require.Equal(t, "INR", x.Currency)
	require.Equal(t, "2026-03-01", x.Date)

	_, err = p.AddExpense(ctx, res.TripID, ExpenseRequest{Category: "taxi", Amount: 100, Date: "2026-03-02"})
	require.NoError(t, err)

	report, err := p.ActuallySpent(ctx, res.TripID)
	require.NoError(t, err)
	require.InDelta(t, 2200, report.TravelFees, 1e-9)
	require.InDelta(t, 250.25, report.ExpensesTotal, 1e-9)
	require.InDelta(t, 2450.25, report.ActuallySpent, 1e-9)
	require.Equal(t, 2000.0, report.BaseTravelCost)

	list, err := p.Expenses(ctx, res.TripID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "taxi", list[0].Category)

	n, err := p.ClearExpenses(ctx, res.TripID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestAddExpenseErrors(t *testing.T) {
	p, _ := newPlanner(t, catalog())
	ctx := context.Background()

	_, err := p.AddExpense(ctx, "missing", ExpenseRequest{Category: "food", Amount: 1})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = p.AddExpense(ctx, "missing", ExpenseRequest{Category: "food", Amount: 0})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = p.ActuallySpent(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestItemEdits(t *testing.T) {
	p, _ := newPlanner(t, catalog())
	ctx := context.Background()

	res, err := p.CreateTrip(ctx, tripRequest())
	require.NoError(t, err)

	item, err := p.AddItem(ctx, res.TripID, ItemRequest{Day: 2, PlaceName: "Chandni Chowk", StartTime: "09:00", EndTime: "11:00"})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	_, err = p.UpdateItem(ctx, item.ID, ItemRequest{Day: 2, PlaceName: "Chandni Chowk", StartTime: "10:00", EndTime: "12:00", Notes: "street food"})
	require.NoError(t, err)

	items, err := p.Items(ctx, res.TripID)
	require.NoError(t, err)
	require.Len(t, items, 5)
	require.Equal(t, "street food", items[4].Notes)

	_, err = p.AddItem(ctx, res.TripID, ItemRequest{Day: 1, PlaceName: "X", StartTime: "9am", EndTime: "10:00"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	require.NoError(t, p.DeleteItem(ctx, item.ID))
	require.ErrorIs(t, p.DeleteItem(ctx, item.ID), store.ErrNotFound)

	_, err = p.Items(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestExport(t *testing.T) {
	p, _ := newPlanner(t, catalog())
	ctx := context.Background()

	res, err := p.CreateTrip(ctx, tripRequest())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Export(ctx, res.TripID, "csv", &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "1,Qutub Minar,09:00,10:30,Type: Historical,30.48", lines[1])

	require.Error(t, p.Export(ctx, res.TripID, "pdf", &buf))
	require.ErrorIs(t, p.Export(ctx, "missing", "json", &buf), store.ErrNotFound)
}

func TestPlacesAndTrips(t *testing.T) {
	p, _ := newPlanner(t, catalog())
	ctx := context.Background()

	_, err := p.Places(ctx, store.PlaceFilter{})
	require.ErrorIs(t, err, ErrInvalidRequest)

	places, err := p.Places(ctx, store.PlaceFilter{City: "Jaipur"})
	require.NoError(t, err)
	require.Len(t, places, 1)

	none, err := p.Places(ctx, store.PlaceFilter{City: "Paris"})
	require.NoError(t, err)
	require.NotNil(t, none)

	res, err := p.CreateTrip(ctx, tripRequest())
	require.NoError(t, err)
	trips, err := p.Trips(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, trips, 1)

	require.NoError(t, p.DeleteTrip(ctx, res.TripID))
	_, err = p.Trip(ctx, res.TripID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
