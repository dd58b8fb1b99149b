package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// CreateExpense persists an expense and its split rows.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, folder_id, description, amount, date, category, payer_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.TripID, nullable(expense.FolderID), expense.Description,
		expense.Amount, expense.Date, expense.Category, expense.PayerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense.ID, expense.SplitBetween); err != nil {
		return err
	}
	if err := touchTrip(ctx, tx, expense.TripID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its split set.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var folderID sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, folder_id, description, amount, date, category, payer_id
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.TripID, &folderID, &expense.Description,
		&expense.Amount, &expense.Date, &expense.Category, &expense.PayerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.FolderID = folderID.String

	if expense.SplitBetween, err = s.loadSplits(ctx, expenseID); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense rewrites an expense and replaces its split rows.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET folder_id = ?, description = ?, amount = ?, date = ?, category = ?, payer_id = ?
		 WHERE id = ?`,
		nullable(expense.FolderID), expense.Description, expense.Amount,
		expense.Date, expense.Category, expense.PayerID, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense.ID, expense.SplitBetween); err != nil {
		return err
	}
	if err := touchTrip(ctx, tx, expense.TripID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; split rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpenses retrieves all expenses on a trip, newest date first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT id, trip_id, folder_id, description, amount, date, category, payer_id FROM expenses WHERE trip_id = ? ORDER BY date DESC, rowid DESC",
		tripID,
	)
}

// ListExpensesByFolder retrieves the expenses in one folder. An empty
// folderID selects the implicit general folder.
func (s *SQLiteStore) ListExpensesByFolder(ctx context.Context, tripID, folderID string) ([]*models.Expense, error) {
	if folderID == "" {
		return s.listExpenses(ctx,
			"SELECT id, trip_id, folder_id, description, amount, date, category, payer_id FROM expenses WHERE trip_id = ? AND folder_id IS NULL ORDER BY date DESC, rowid DESC",
			tripID,
		)
	}
	return s.listExpenses(ctx,
		"SELECT id, trip_id, folder_id, description, amount, date, category, payer_id FROM expenses WHERE trip_id = ? AND folder_id = ? ORDER BY date DESC, rowid DESC",
		tripID, folderID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var folderID sql.NullString
		if err := rows.Scan(&expense.ID, &expense.TripID, &folderID, &expense.Description,
			&expense.Amount, &expense.Date, &expense.Category, &expense.PayerID); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.FolderID = folderID.String
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.SplitBetween, err = s.loadSplits(ctx, expense.ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT traveler_id FROM expense_splits WHERE expense_id = ? ORDER BY traveler_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, travelerIDs []string) error {
	for _, travelerID := range travelerIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, traveler_id) VALUES (?, ?)",
			expenseID, travelerID,
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}
