package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/voyago/internal/domain"
)

// AddExpense records an expense against a trip
func (s *Store) AddExpense(ctx context.Context, x *domain.Expense) error {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, trip_id, user_id, category, amount, currency, date, note, payer, cleared, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, x.TripID, x.UserID, x.Category, x.Amount, x.Currency, x.Date, x.Note, x.Payer, boolInt(x.Cleared), now)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	x.ID = id
	x.CreatedAt = now
	return nil
}

// ListExpenses returns a trip's expenses, most recent date first
func (s *Store) ListExpenses(ctx context.Context, tripID string) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trip_id, user_id, category, amount, currency, date, note, payer, cleared, created_at
		FROM expenses
		WHERE trip_id = ?
		ORDER BY date DESC, created_at DESC
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			x       domain.Expense
			cleared int
		)
		if err := rows.Scan(&x.ID, &x.TripID, &x.UserID, &x.Category, &x.Amount, &x.Currency,
			&x.Date, &x.Note, &x.Payer, &cleared, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		x.Cleared = cleared != 0
		expenses = append(expenses, x)
	}
	return expenses, rows.Err()
}

// SetExpenseCleared marks an expense settled or not
func (s *Store) SetExpenseCleared(ctx context.Context, id string, cleared bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE expenses SET cleared = ? WHERE id = ?", boolInt(cleared), id)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return expectOne(res, "update expense "+id)
}

// DeleteExpense removes one expense
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return expectOne(res, "delete expense "+id)
}

// ClearExpenses removes all of a trip's expenses and reports how many
func (s *Store) ClearExpenses(ctx context.Context, tripID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE trip_id = ?", tripID)
	if err != nil {
		return 0, fmt.Errorf("clear expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear expenses: %w", err)
	}
	return n, nil
}
