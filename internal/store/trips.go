package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/voyago/internal/domain"
)

const tripColumns = `id, user_id, origin, destination, categories, num_days, budget, travel_mode,
	currency, start_date, end_date, total_cost, itinerary_html, created_at`

// SaveTrip inserts a trip and its items in one transaction, assigning ids
// and the creation time
func (s *Store) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	trip.ID = uuid.New().String()
	trip.CreatedAt = time.Now().UTC()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO trips (`+tripColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trip.ID, trip.UserID, trip.Origin, trip.Destination, strings.Join(trip.Categories, ","),
			trip.NumDays, trip.Budget, trip.TravelMode, trip.Currency, trip.StartDate, trip.EndDate,
			trip.TotalCost, trip.ItineraryHTML, trip.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		for i := range trip.Items {
			trip.Items[i].TripID = trip.ID
			if err := insertItem(ctx, tx, &trip.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		trip.ID = ""
		for i := range trip.Items {
			trip.Items[i].ID, trip.Items[i].TripID = "", ""
		}
	}
	return err
}

// GetTrip retrieves a trip by ID with its items
func (s *Store) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tripColumns+" FROM trips WHERE id = ?", id)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}

	items, err := s.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	trip.Items = items

	return trip, nil
}

// ListTrips returns a user's trips, newest first, without items
func (s *Store) ListTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

// DeleteTrip removes a trip with its expenses and items
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE trip_id = ?", id); err != nil {
			return fmt.Errorf("delete expenses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM itinerary_items WHERE trip_id = ?", id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete trip: %w", err)
		}
		return expectOne(res, "delete trip "+id)
	})
}

// ListItems returns a trip's items by day and start time
func (s *Store) ListItems(ctx context.Context, tripID string) ([]domain.ItineraryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trip_id, day, place_name, start_time, end_time, notes, estimated_cost
		FROM itinerary_items
		WHERE trip_id = ?
		ORDER BY day, start_time
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []domain.ItineraryItem{}
	for rows.Next() {
		var it domain.ItineraryItem
		if err := rows.Scan(&it.ID, &it.TripID, &it.Day, &it.PlaceName, &it.StartTime,
			&it.EndTime, &it.Notes, &it.EstimatedCost); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem appends a hand-made item to an existing trip
func (s *Store) AddItem(ctx context.Context, item *domain.ItineraryItem) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", item.TripID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("add item to trip %s: %w", item.TripID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("find trip: %w", err)
		}
		return insertItem(ctx, tx, item)
	})
}

// UpdateItem overwrites an item's schedule fields
func (s *Store) UpdateItem(ctx context.Context, item domain.ItineraryItem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE itinerary_items
		SET day = ?, place_name = ?, start_time = ?, end_time = ?, notes = ?, estimated_cost = ?
		WHERE id = ?
	`, item.Day, item.PlaceName, item.StartTime, item.EndTime, item.Notes, item.EstimatedCost, item.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return expectOne(res, "update item "+item.ID)
}

// DeleteItem removes one item
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM itinerary_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return expectOne(res, "delete item "+id)
}

func insertItem(ctx context.Context, tx *sql.Tx, item *domain.ItineraryItem) error {
	item.ID = uuid.New().String()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO itinerary_items (id, trip_id, day, place_name, start_time, end_time, notes, estimated_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.TripID, item.Day, item.PlaceName, item.StartTime, item.EndTime, item.Notes, item.EstimatedCost)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(row scanner) (*domain.Trip, error) {
	var (
		t          domain.Trip
		categories string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Origin, &t.Destination, &categories, &t.NumDays,
		&t.Budget, &t.TravelMode, &t.Currency, &t.StartDate, &t.EndDate, &t.TotalCost,
		&t.ItineraryHTML, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if categories != "" {
		t.Categories = strings.Split(categories, ",")
	}
	return &t, nil
}
