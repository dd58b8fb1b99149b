package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// AddTraveler inserts a traveler into a trip.
func (s *SQLiteStore) AddTraveler(ctx context.Context, traveler *models.Traveler) error {
	if traveler.ID == "" {
		traveler.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO travelers (id, trip_id, name) VALUES (?, ?, ?)",
		traveler.ID, traveler.TripID, traveler.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert traveler: %w", err)
	}

	return nil
}

// ListTravelers retrieves all travelers on a trip, in insertion order.
func (s *SQLiteStore) ListTravelers(ctx context.Context, tripID string) ([]*models.Traveler, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name FROM travelers WHERE trip_id = ? ORDER BY rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list travelers: %w", err)
	}
	defer rows.Close()

	var travelers []*models.Traveler
	for rows.Next() {
		t := &models.Traveler{}
		if err := rows.Scan(&t.ID, &t.TripID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan traveler: %w", err)
		}
		travelers = append(travelers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate travelers: %w", err)
	}

	return travelers, nil
}

// RemoveTraveler deletes a traveler from a trip. The service layer
// checks TravelerReferenced first; the foreign keys on expenses and
// expense_splits are the backstop.
func (s *SQLiteStore) RemoveTraveler(ctx context.Context, tripID, travelerID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM travelers WHERE trip_id = ? AND id = ?",
		tripID, travelerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete traveler: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("traveler %s: %w", travelerID, storage.ErrNotFound)
	}
	return nil
}

// TravelerReferenced reports whether any expense on the trip still
// names the traveler as payer or split member.
func (s *SQLiteStore) TravelerReferenced(ctx context.Context, tripID, travelerID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM expenses e
		 LEFT JOIN expense_splits sp ON sp.expense_id = e.id
		 WHERE e.trip_id = ? AND (e.payer_id = ? OR sp.traveler_id = ?)
		 LIMIT 1`,
		tripID, travelerID, travelerID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check traveler references: %w", err)
	}
	return true, nil
}

// CreateFolder inserts an expense folder into a trip.
func (s *SQLiteStore) CreateFolder(ctx context.Context, folder *models.ExpenseFolder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_folders (id, trip_id, name) VALUES (?, ?, ?)",
		folder.ID, folder.TripID, folder.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}

	return nil
}

// ListFolders retrieves all expense folders on a trip, in creation order.
func (s *SQLiteStore) ListFolders(ctx context.Context, tripID string) ([]*models.ExpenseFolder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name FROM expense_folders WHERE trip_id = ? ORDER BY rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.ExpenseFolder
	for rows.Next() {
		f := &models.ExpenseFolder{}
		if err := rows.Scan(&f.ID, &f.TripID, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}

	return folders, nil
}

// AddCategory adds an expense category to a trip. Adding an existing
// category is a no-op.
func (s *SQLiteStore) AddCategory(ctx context.Context, tripID, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO trip_categories (trip_id, name) VALUES (?, ?)",
		tripID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// ListCategories retrieves the trip's expense categories, in creation order.
func (s *SQLiteStore) ListCategories(ctx context.Context, tripID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM trip_categories WHERE trip_id = ? ORDER BY rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
