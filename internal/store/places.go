package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbaille/voyago/internal/domain"
)

const placeColumns = `name, zone, city, state, category, significance, rating, entrance_fee,
	visit_hours, best_time_to_visit, latitude, longitude, description, activity_type, kid_friendly`

// PlaceFilter narrows ListPlaces; zero fields are ignored except City
type PlaceFilter struct {
	City         string
	ActivityType string
	KidFriendly  *bool
	MaxHours     float64
}

// ReplacePlaces drops the catalog and loads places in their given order
func (s *Store) ReplacePlaces(ctx context.Context, places []domain.Place) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM places"); err != nil {
			return fmt.Errorf("clear places: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO places (position, `+placeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert place: %w", err)
		}
		defer stmt.Close()

		for i, p := range places {
			_, err := stmt.ExecContext(ctx, i,
				p.Name, p.Zone, p.City, p.State, p.Category, p.Significance,
				p.Rating, p.EntranceFee, p.VisitHours, p.BestTimeToVisit,
				p.Latitude, p.Longitude, p.Description, p.ActivityType, boolInt(p.KidFriendly),
			)
			if err != nil {
				return fmt.Errorf("insert place %q: %w", p.Name, err)
			}
		}
		return nil
	})
}

// AllPlaces returns the whole catalog in import order
func (s *Store) AllPlaces(ctx context.Context) ([]domain.Place, error) {
	return s.queryPlaces(ctx, "SELECT "+placeColumns+" FROM places ORDER BY position")
}

// PlacesByName returns the named places in catalog order
func (s *Store) PlacesByName(ctx context.Context, names []string) ([]domain.Place, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	q := "SELECT " + placeColumns + " FROM places WHERE name IN (?" +
		strings.Repeat(", ?", len(names)-1) + ") ORDER BY position"
	return s.queryPlaces(ctx, q, args...)
}

// ListPlaces returns the places of one city matching f
func (s *Store) ListPlaces(ctx context.Context, f PlaceFilter) ([]domain.Place, error) {
	q := "SELECT " + placeColumns + " FROM places WHERE city = ? COLLATE NOCASE"
	args := []any{f.City}

	if f.ActivityType != "" {
		q += " AND activity_type = ?"
		args = append(args, f.ActivityType)
	}
	if f.KidFriendly != nil {
		q += " AND kid_friendly = ?"
		args = append(args, boolInt(*f.KidFriendly))
	}
	if f.MaxHours > 0 {
		q += " AND visit_hours <= ?"
		args = append(args, f.MaxHours)
	}
	q += " ORDER BY position"

	return s.queryPlaces(ctx, q, args...)
}

// Cities returns the distinct non-empty cities in the catalog
func (s *Store) Cities(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "city")
}

// Filters returns the distinct values of every filterable column
func (s *Store) Filters(ctx context.Context) (*domain.Filters, error) {
	var (
		f   domain.Filters
		err error
	)
	if f.Cities, err = s.distinct(ctx, "city"); err != nil {
		return nil, err
	}
	if f.States, err = s.distinct(ctx, "state"); err != nil {
		return nil, err
	}
	if f.Types, err = s.distinct(ctx, "category"); err != nil {
		return nil, err
	}
	if f.Significance, err = s.distinct(ctx, "significance"); err != nil {
		return nil, err
	}
	if f.BestTimes, err = s.distinct(ctx, "best_time_to_visit"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT city, AVG(latitude), AVG(longitude) FROM places WHERE city != '' GROUP BY city ORDER BY city")
	if err != nil {
		return nil, fmt.Errorf("city centers: %w", err)
	}
	defer rows.Close()

	f.CityData = []domain.CityCenter{}
	for rows.Next() {
		var c domain.CityCenter
		if err := rows.Scan(&c.City, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("scan city center: %w", err)
		}
		f.CityData = append(f.CityData, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("city centers: %w", err)
	}

	return &f, nil
}

// distinct is only called with fixed column names
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT "+column+" FROM places WHERE "+column+" != '' ORDER BY "+column)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *Store) queryPlaces(ctx context.Context, q string, args ...any) ([]domain.Place, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var (
			p    domain.Place
			kids int
		)
		err := rows.Scan(&p.Name, &p.Zone, &p.City, &p.State, &p.Category, &p.Significance,
			&p.Rating, &p.EntranceFee, &p.VisitHours, &p.BestTimeToVisit,
			&p.Latitude, &p.Longitude, &p.Description, &p.ActivityType, &kids)
		if err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		p.KidFriendly = kids != 0
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}

	return places, nil
}
