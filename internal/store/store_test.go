package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPlaces() []domain.Place {
	return []domain.Place{
		{Name: "Red Fort", City: "Delhi", State: "Delhi", Category: "Historical", Significance: "Historical",
			Rating: 4.5, EntranceFee: 35, VisitHours: 2, Latitude: 28.65, Longitude: 77.24,
			ActivityType: "sightseeing", KidFriendly: true, BestTimeToVisit: "Morning"},
		{Name: "Lotus Temple", City: "Delhi", State: "Delhi", Category: "Religious", Significance: "Spiritual",
			Rating: 4.4, VisitHours: 1, Latitude: 28.55, Longitude: 77.26, ActivityType: "worship"},
		{Name: "Amber Fort", City: "Jaipur", State: "Rajasthan", Category: "Historical", Significance: "Historical",
			Rating: 4.6, EntranceFee: 100, VisitHours: 3, Latitude: 26.98, Longitude: 75.85,
			ActivityType: "sightseeing", KidFriendly: true, BestTimeToVisit: "Morning"},
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	require.NoError(t, s.ReplacePlaces(context.Background(), testPlaces()))
	return s
}

func TestPlacesRoundTrip(t *testing.T) {
	s := seededStore(t)

	got, err := s.AllPlaces(context.Background())
	require.NoError(t, err)
	require.Equal(t, testPlaces(), got)
}

func TestReplacePlacesOverwrites(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplacePlaces(ctx, testPlaces()[2:]))

	got, err := s.AllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Amber Fort", got[0].Name)
}

func TestReplacePlacesDuplicateRollsBack(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	dup := []domain.Place{{Name: "A", City: "X"}, {Name: "A", City: "Y"}}
	require.Error(t, s.ReplacePlaces(ctx, dup))

	got, err := s.AllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestPlacesByName(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	got, err := s.PlacesByName(ctx, []string{"Amber Fort", "Red Fort", "Nowhere"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Red Fort", got[0].Name)
	require.Equal(t, "Amber Fort", got[1].Name)

	none, err := s.PlacesByName(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListPlaces(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	yes := true

	tests := []struct {
		name   string
		filter PlaceFilter
		want   []string
	}{
		{"city case insensitive", PlaceFilter{City: "delhi"}, []string{"Red Fort", "Lotus Temple"}},
		{"activity", PlaceFilter{City: "Delhi", ActivityType: "worship"}, []string{"Lotus Temple"}},
		{"kid friendly", PlaceFilter{City: "Delhi", KidFriendly: &yes}, []string{"Red Fort"}},
		{"max hours", PlaceFilter{City: "Delhi", MaxHours: 1.5}, []string{"Lotus Temple"}},
		{"unknown city", PlaceFilter{City: "Paris"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListPlaces(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, p := range got {
				names = append(names, p.Name)
			}
			require.Equal(t, tt.want, names)
		})
	}
}

func TestFilters(t *testing.T) {
	s := seededStore(t)

	f, err := s.Filters(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Delhi", "Jaipur"}, f.Cities)
	require.Equal(t, []string{"Delhi", "Rajasthan"}, f.States)
	require.Equal(t, []string{"Historical", "Religious"}, f.Types)
	require.Equal(t, []string{"Historical", "Spiritual"}, f.Significance)
	require.Equal(t, []string{"Morning"}, f.BestTimes)

	require.Len(t, f.CityData, 2)
	require.Equal(t, "Delhi", f.CityData[0].City)
	require.InDelta(t, 28.60, f.CityData[0].Latitude, 1e-9)
	require.InDelta(t, 77.25, f.CityData[0].Longitude, 1e-9)
}

func TestFiltersEmptyCatalog(t *testing.T) {
	s := newTestStore(t)

	f, err := s.Filters(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f.Cities)
	require.Empty(t, f.Cities)
	require.NotNil(t, f.CityData)
}

func sampleTrip() *domain.Trip {
	return &domain.Trip{
		UserID:      "user-1",
		Origin:      "Mumbai",
		Destination: "Delhi",
		Categories:  []string{"Historical", "Religious"},
		NumDays:     2,
		Budget:      5000,
		TravelMode:  "train",
		Currency:    "INR",
		TotalCost:   1200,
		Items: []domain.ItineraryItem{
			{Day: 1, PlaceName: "Red Fort", StartTime: "09:00", EndTime: "11:00", Notes: "Type: Historical", EstimatedCost: 36.4},
			{Day: 1, PlaceName: "Lotus Temple", StartTime: "11:00", EndTime: "12:00", Notes: "Type: Religious"},
		},
	}
}

func TestSaveAndGetTrip(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, s.SaveTrip(ctx, trip))
	require.NotEmpty(t, trip.ID)
	require.False(t, trip.CreatedAt.IsZero())
	for _, it := range trip.Items {
		require.NotEmpty(t, it.ID)
		require.Equal(t, trip.ID, it.TripID)
	}

	got, err := s.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Equal(t, trip.Destination, got.Destination)
	require.Equal(t, trip.Categories, got.Categories)
	require.Equal(t, trip.TotalCost, got.TotalCost)
	require.True(t, trip.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Items, 2)
	require.Equal(t, "Red Fort", got.Items[0].PlaceName)
	require.Equal(t, 36.4, got.Items[0].EstimatedCost)
}

func TestGetTripNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTrip(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, b := sampleTrip(), sampleTrip()
	b.Destination = "Jaipur"
	other := sampleTrip()
	other.UserID = "user-2"
	require.NoError(t, s.SaveTrip(ctx, a))
	require.NoError(t, s.SaveTrip(ctx, b))
	require.NoError(t, s.SaveTrip(ctx, other))

	trips, err := s.ListTrips(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	ids := []string{trips[0].ID, trips[1].ID}
	require.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	none, err := s.ListTrips(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestDeleteTripCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, s.SaveTrip(ctx, trip))
	require.NoError(t, s.AddExpense(ctx, &domain.Expense{TripID: trip.ID, Amount: 10, Category: "food"}))

	require.NoError(t, s.DeleteTrip(ctx, trip.ID))

	_, err := s.GetTrip(ctx, trip.ID)
	require.ErrorIs(t, err, ErrNotFound)
	items, err := s.ListItems(ctx, trip.ID)
	require.NoError(t, err)
	require.Empty(t, items)
	expenses, err := s.ListExpenses(ctx, trip.ID)
	require.NoError(t, err)
	require.Empty(t, expenses)

	require.ErrorIs(t, s.DeleteTrip(ctx, trip.ID), ErrNotFound)
}

func TestItemCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, s.SaveTrip(ctx, trip))

	extra := &domain.ItineraryItem{TripID: trip.ID, Day: 2, PlaceName: "Amber Fort", StartTime: "09:00", EndTime: "12:00"}
	require.NoError(t, s.AddItem(ctx, extra))
	require.NotEmpty(t, extra.ID)

	extra.Notes = "bring water"
	extra.StartTime, extra.EndTime = "10:00", "13:00"
	require.NoError(t, s.UpdateItem(ctx, *extra))

	items, err := s.ListItems(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "bring water", items[2].Notes)
	require.Equal(t, "10:00", items[2].StartTime)

	require.NoError(t, s.DeleteItem(ctx, extra.ID))
	require.ErrorIs(t, s.DeleteItem(ctx, extra.ID), ErrNotFound)
	require.ErrorIs(t, s.UpdateItem(ctx, *extra), ErrNotFound)

	orphan := &domain.ItineraryItem{TripID: "missing", Day: 1, PlaceName: "X", StartTime: "09:00", EndTime: "10:00"}
	require.ErrorIs(t, s.AddItem(ctx, orphan), ErrNotFound)
}

func TestExpenses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := sampleTrip()
	require.NoError(t, s.SaveTrip(ctx, trip))

	first := &domain.Expense{TripID: trip.ID, UserID: "user-1", Category: "food", Amount: 120.5, Date: "2026-03-01", Payer: "me"}
	second := &domain.Expense{TripID: trip.ID, UserID: "user-1", Category: "taxi", Amount: 180, Date: "2026-03-02"}
	require.NoError(t, s.AddExpense(ctx, first))
	require.NoError(t, s.AddExpense(ctx, second))

	got, err := s.ListExpenses(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, second.ID, got[0].ID)
	require.Equal(t, 120.5, got[1].Amount)
	require.False(t, got[1].Cleared)

	require.NoError(t, s.SetExpenseCleared(ctx, first.ID, true))
	got, err = s.ListExpenses(ctx, trip.ID)
	require.NoError(t, err)
	require.True(t, got[1].Cleared)

	require.NoError(t, s.DeleteExpense(ctx, second.ID))
	require.ErrorIs(t, s.DeleteExpense(ctx, second.ID), ErrNotFound)
	require.ErrorIs(t, s.SetExpenseCleared(ctx, "missing", true), ErrNotFound)

	n, err := s.ClearExpenses(ctx, trip.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestAddExpenseUnknownTrip(t *testing.T) {
	s := newTestStore(t)

	err := s.AddExpense(context.Background(), &domain.Expense{TripID: "missing", Amount: 1})
	require.Error(t, err)
}
