package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// defaultCategories seed every new trip so the expense form has
// something to offer before the user adds their own.
var defaultCategories = []string{"Food", "Transport", "Accommodation", "Activity", "Other"}

// CreateTrip persists a new trip, its itinerary and its seed categories.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now
	}
	if trip.UpdatedAt == 0 {
		trip.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, user_id, name, destination, duration, start_date, budget,
			target_budget, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.UserID, trip.Name, trip.Destination, trip.Duration,
		nullable(trip.StartDate), nullable(trip.Budget), trip.TargetBudget,
		trip.Currency, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertItinerary(ctx, tx, trip.ID, trip.Itinerary); err != nil {
		return err
	}

	for _, name := range defaultCategories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO trip_categories (trip_id, name) VALUES (?, ?)",
			trip.ID, name,
		); err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, including itinerary, flights and insights.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	var startDate, budget, insightsContent, insightsFetched sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, destination, duration, start_date, budget,
			target_budget, currency, insights_content, insights_fetched, created_at, updated_at
		 FROM trips WHERE id = ?`,
		tripID,
	).Scan(&trip.ID, &trip.UserID, &trip.Name, &trip.Destination, &trip.Duration,
		&startDate, &budget, &trip.TargetBudget, &trip.Currency,
		&insightsContent, &insightsFetched, &trip.CreatedAt, &trip.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	trip.StartDate = startDate.String
	trip.Budget = budget.String

	if trip.Itinerary, err = s.loadItinerary(ctx, tripID); err != nil {
		return nil, err
	}

	flights, err := s.ListFlights(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, f := range flights {
		trip.Flights = append(trip.Flights, *f)
	}

	if insightsContent.Valid {
		insights := &models.TripInsights{
			Content:     insightsContent.String,
			LastFetched: insightsFetched.String,
		}
		if insights.Sources, err = s.loadInsightSources(ctx, tripID); err != nil {
			return nil, err
		}
		trip.Insights = insights
	}

	return trip, nil
}

// ListTripsByUser retrieves all trips owned by a user, most recently
// updated first. Itineraries and flights are loaded; this is a
// single-user planning app, trip counts stay small.
func (s *SQLiteStore) ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM trips WHERE user_id = ? ORDER BY updated_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan trip id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	var trips []*models.Trip
	for _, id := range ids {
		trip, err := s.GetTrip(ctx, id)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// UpdateTrip updates the trip's own fields (not itinerary or flights,
// which have dedicated methods) and bumps updated_at.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET name = ?, destination = ?, duration = ?, start_date = ?,
			budget = ?, target_budget = ?, currency = ?, updated_at = ?
		 WHERE id = ?`,
		trip.Name, trip.Destination, trip.Duration, nullable(trip.StartDate),
		nullable(trip.Budget), trip.TargetBudget, trip.Currency, trip.UpdatedAt, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trip %s: %w", trip.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteTrip removes a trip; travelers, folders, expenses, flights and
// itinerary rows cascade.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	return nil
}

// SetItinerary replaces the trip's whole day-by-day plan.
func (s *SQLiteStore) SetItinerary(ctx context.Context, tripID string, days []models.DayPlan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM itinerary_days WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear itinerary: %w", err)
	}
	if err := insertItinerary(ctx, tx, tripID, days); err != nil {
		return err
	}
	if err := touchTrip(ctx, tx, tripID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetInsights replaces the trip's travel advisory and grounding sources.
func (s *SQLiteStore) SetInsights(ctx context.Context, tripID string, insights *models.TripInsights) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE trips SET insights_content = ?, insights_fetched = ? WHERE id = ?",
		insights.Content, insights.LastFetched, tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to update insights: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM insight_sources WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear insight sources: %w", err)
	}
	for i, src := range insights.Sources {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO insight_sources (trip_id, position, title, uri) VALUES (?, ?, ?, ?)",
			tripID, i, src.Title, src.URI,
		); err != nil {
			return fmt.Errorf("failed to insert insight source: %w", err)
		}
	}
	if err := touchTrip(ctx, tx, tripID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadItinerary(ctx context.Context, tripID string) ([]models.DayPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day, theme FROM itinerary_days WHERE trip_id = ? ORDER BY day",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary days: %w", err)
	}
	defer rows.Close()

	var days []models.DayPlan
	for rows.Next() {
		var day models.DayPlan
		if err := rows.Scan(&day.Day, &day.Theme); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate itinerary days: %w", err)
	}

	for i := range days {
		actRows, err := s.db.QueryContext(ctx,
			`SELECT time, activity, location, description, estimated_cost
			 FROM itinerary_activities WHERE trip_id = ? AND day = ? ORDER BY position`,
			tripID, days[i].Day,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get activities: %w", err)
		}

		for actRows.Next() {
			var act models.Activity
			var cost sql.NullString
			if err := actRows.Scan(&act.Time, &act.Activity, &act.Location, &act.Description, &cost); err != nil {
				actRows.Close()
				return nil, fmt.Errorf("failed to scan activity: %w", err)
			}
			act.EstimatedCost = cost.String
			days[i].Activities = append(days[i].Activities, act)
		}
		actRows.Close()
		if err := actRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate activities: %w", err)
		}
	}

	return days, nil
}

func (s *SQLiteStore) loadInsightSources(ctx context.Context, tripID string) ([]models.InsightSource, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT title, uri FROM insight_sources WHERE trip_id = ? ORDER BY position",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get insight sources: %w", err)
	}
	defer rows.Close()

	var sources []models.InsightSource
	for rows.Next() {
		var src models.InsightSource
		if err := rows.Scan(&src.Title, &src.URI); err != nil {
			return nil, fmt.Errorf("failed to scan insight source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insight sources: %w", err)
	}

	return sources, nil
}

func insertItinerary(ctx context.Context, tx *sql.Tx, tripID string, days []models.DayPlan) error {
	for _, day := range days {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO itinerary_days (trip_id, day, theme) VALUES (?, ?, ?)",
			tripID, day.Day, day.Theme,
		); err != nil {
			return fmt.Errorf("failed to insert itinerary day: %w", err)
		}
		for i, act := range day.Activities {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO itinerary_activities (trip_id, day, position, time, activity, location, description, estimated_cost)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				tripID, day.Day, i, act.Time, act.Activity, act.Location, act.Description, nullable(act.EstimatedCost),
			); err != nil {
				return fmt.Errorf("failed to insert activity: %w", err)
			}
		}
	}
	return nil
}

// touchTrip bumps updated_at so trip lists sort by recent activity.
func touchTrip(ctx context.Context, tx *sql.Tx, tripID string) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE trips SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), tripID,
	); err != nil {
		return fmt.Errorf("failed to touch trip: %w", err)
	}
	return nil
}

// nullable maps an empty string to NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
