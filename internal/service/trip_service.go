package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/ai"
	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// TripService handles trip lifecycle, itineraries, flights, insights
// and snapshot export/import.
type TripService struct {
	store     storage.Store
	generator ai.Generator
	logger    *slog.Logger
}

// NewTripService creates a new trip service.
func NewTripService(store storage.Store, generator ai.Generator, logger *slog.Logger) *TripService {
	return &TripService{store: store, generator: generator, logger: logger}
}

// CreateTrip creates a trip for the given user. ID and timestamps are
// assigned by the store; the default currency is USD.
func (s *TripService) CreateTrip(ctx context.Context, userID string, trip *models.Trip) (*models.Trip, error) {
	if trip.Name == "" {
		return nil, validationf("trip name is required")
	}
	if trip.Destination == "" {
		return nil, validationf("destination is required")
	}
	if trip.Duration < 1 {
		return nil, validationf("duration must be at least 1 day")
	}
	if trip.Currency == "" {
		trip.Currency = "USD"
	}

	trip.UserID = userID
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Info("Trip created", "trip_id", trip.ID, "user_id", userID, "destination", trip.Destination)
	return trip, nil
}

// GetTrip returns a trip owned by the user.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	return ownedTrip(ctx, s.store, userID, tripID)
}

// ListTrips returns all trips owned by the user.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	return s.store.ListTripsByUser(ctx, userID)
}

// UpdateTrip applies caller-editable fields to an existing trip.
// Ownership, timestamps and AI-managed attachments are preserved.
func (s *TripService) UpdateTrip(ctx context.Context, userID string, update *models.Trip) (*models.Trip, error) {
	trip, err := ownedTrip(ctx, s.store, userID, update.ID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		trip.Name = update.Name
	}
	if update.Destination != "" {
		trip.Destination = update.Destination
	}
	if update.Duration > 0 {
		trip.Duration = update.Duration
	}
	if update.StartDate != "" {
		trip.StartDate = update.StartDate
	}
	if update.Budget != "" {
		trip.Budget = update.Budget
	}
	if update.TargetBudget > 0 {
		trip.TargetBudget = update.TargetBudget
	}
	if update.Currency != "" {
		trip.Currency = update.Currency
	}

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return trip, nil
}

// DeleteTrip removes a trip and everything it owns.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return err
	}
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	s.logger.Info("Trip deleted", "trip_id", tripID, "user_id", userID)
	return nil
}

// GenerateItinerary asks the AI collaborator for a fresh day-by-day
// plan and replaces the trip's itinerary with it. The previous
// itinerary is kept untouched when generation fails.
func (s *TripService) GenerateItinerary(ctx context.Context, userID, tripID, interests string) (*models.Trip, error) {
	trip, err := ownedTrip(ctx, s.store, userID, tripID)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.GenerateItinerary(ctx, trip.Destination, trip.Duration, interests, trip.Budget)
	if err != nil {
		s.logger.Error("Itinerary generation failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	if err := s.store.SetItinerary(ctx, tripID, generated.Itinerary); err != nil {
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}

	s.logger.Info("Itinerary generated", "trip_id", tripID, "days", len(generated.Itinerary))
	return s.store.GetTrip(ctx, tripID)
}

// RefreshInsights fetches a new travel advisory for the trip.
func (s *TripService) RefreshInsights(ctx context.Context, userID, tripID string) (*models.TripInsights, error) {
	trip, err := ownedTrip(ctx, s.store, userID, tripID)
	if err != nil {
		return nil, err
	}

	insights, err := s.generator.TripInsights(ctx, trip.Destination, trip.StartDate)
	if err != nil {
		s.logger.Error("Insights fetch failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	if err := s.store.SetInsights(ctx, tripID, insights); err != nil {
		return nil, fmt.Errorf("failed to save insights: %w", err)
	}
	return insights, nil
}

// AddFlight records a flight on the trip.
func (s *TripService) AddFlight(ctx context.Context, userID, tripID string, flight *models.Flight) (*models.Flight, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	if flight.Airline == "" || flight.FlightNumber == "" {
		return nil, validationf("airline and flightNumber are required")
	}

	flight.ID = uuid.New().String()
	flight.TripID = tripID
	if err := s.store.AddFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to add flight: %w", err)
	}
	return flight, nil
}

// ImportFlight extracts flight details from confirmation-email text and
// records the resulting flight on the trip.
func (s *TripService) ImportFlight(ctx context.Context, userID, tripID, emailText string) (*models.Flight, error) {
	if emailText == "" {
		return nil, validationf("email text is required")
	}
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}

	flight, err := s.generator.ParseFlight(ctx, emailText)
	if err != nil {
		s.logger.Error("Flight parsing failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	flight.ID = uuid.New().String()
	flight.TripID = tripID
	if err := s.store.AddFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to add flight: %w", err)
	}

	s.logger.Info("Flight imported", "trip_id", tripID, "flight", flight.FlightNumber)
	return flight, nil
}

// ListFlights returns the trip's flights ordered by departure time.
func (s *TripService) ListFlights(ctx context.Context, userID, tripID string) ([]*models.Flight, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	return s.store.ListFlights(ctx, tripID)
}

// DeleteFlight removes a flight from the trip.
func (s *TripService) DeleteFlight(ctx context.Context, userID, tripID, flightID string) error {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return err
	}
	return s.store.DeleteFlight(ctx, tripID, flightID)
}

// ExportTrip assembles the portable snapshot document for one trip.
func (s *TripService) ExportTrip(ctx context.Context, userID, tripID string) (*models.TripSnapshot, error) {
	trip, err := ownedTrip(ctx, s.store, userID, tripID)
	if err != nil {
		return nil, err
	}

	travelers, err := s.store.ListTravelers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travelers: %w", err)
	}
	folders, err := s.store.ListFolders(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	snapshot := &models.TripSnapshot{
		Trip:       *trip,
		Categories: categories,
	}
	for _, t := range travelers {
		snapshot.Travelers = append(snapshot.Travelers, *t)
	}
	for _, f := range folders {
		snapshot.Folders = append(snapshot.Folders, *f)
	}
	for _, e := range expenses {
		snapshot.Expenses = append(snapshot.Expenses, *e)
	}
	return snapshot, nil
}

// ImportTrip recreates a snapshot as a brand-new trip owned by the
// user. All IDs are reissued so an exported document can be imported
// repeatedly, or into another account, without collisions.
func (s *TripService) ImportTrip(ctx context.Context, userID string, snapshot *models.TripSnapshot) (*models.Trip, error) {
	trip := snapshot.Trip
	trip.ID = ""
	trip.CreatedAt = 0
	trip.UpdatedAt = 0
	trip.Flights = nil

	created, err := s.CreateTrip(ctx, userID, &trip)
	if err != nil {
		return nil, err
	}

	travelerIDs := make(map[string]string, len(snapshot.Travelers))
	for _, traveler := range snapshot.Travelers {
		fresh := &models.Traveler{
			ID:     uuid.New().String(),
			TripID: created.ID,
			Name:   traveler.Name,
		}
		if err := s.store.AddTraveler(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to import traveler %q: %w", traveler.Name, err)
		}
		travelerIDs[traveler.ID] = fresh.ID
	}

	folderIDs := make(map[string]string, len(snapshot.Folders))
	for _, folder := range snapshot.Folders {
		fresh := &models.ExpenseFolder{
			ID:     uuid.New().String(),
			TripID: created.ID,
			Name:   folder.Name,
		}
		if err := s.store.CreateFolder(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to import folder %q: %w", folder.Name, err)
		}
		folderIDs[folder.ID] = fresh.ID
	}

	for _, category := range snapshot.Categories {
		if err := s.store.AddCategory(ctx, created.ID, category); err != nil {
			return nil, fmt.Errorf("failed to import category %q: %w", category, err)
		}
	}

	for _, expense := range snapshot.Expenses {
		payerID, ok := travelerIDs[expense.PayerID]
		if !ok {
			return nil, validationf("expense %q names unknown payer %q", expense.Description, expense.PayerID)
		}
		split := make([]string, 0, len(expense.SplitBetween))
		for _, old := range expense.SplitBetween {
			id, ok := travelerIDs[old]
			if !ok {
				return nil, validationf("expense %q splits with unknown traveler %q", expense.Description, old)
			}
			split = append(split, id)
		}
		folderID := ""
		if expense.FolderID != "" {
			folderID, ok = folderIDs[expense.FolderID]
			if !ok {
				return nil, validationf("expense %q names unknown folder %q", expense.Description, expense.FolderID)
			}
		}

		fresh := &models.Expense{
			ID:           uuid.New().String(),
			TripID:       created.ID,
			FolderID:     folderID,
			Description:  expense.Description,
			Amount:       expense.Amount,
			Date:         expense.Date,
			Category:     expense.Category,
			PayerID:      payerID,
			SplitBetween: split,
		}
		if err := s.store.CreateExpense(ctx, fresh); err != nil {
			return nil, fmt.Errorf("failed to import expense %q: %w", expense.Description, err)
		}
	}

	s.logger.Info("Trip imported", "trip_id", created.ID, "user_id", userID,
		"travelers", len(snapshot.Travelers), "expenses", len(snapshot.Expenses))
	return s.store.GetTrip(ctx, created.ID)
}
