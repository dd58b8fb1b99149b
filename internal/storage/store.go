// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/okialbert/wanderlust/internal/models"
)

// ErrNotFound is wrapped by store implementations when a requested
// record does not exist. Check with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Trips. CreateTrip populates ID and timestamps when unset;
	// DeleteTrip cascades to everything the trip owns.
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, tripID string) error

	// SetItinerary replaces the whole day-by-day plan; itineraries are
	// regenerated wholesale, never patched.
	SetItinerary(ctx context.Context, tripID string, days []models.DayPlan) error
	SetInsights(ctx context.Context, tripID string, insights *models.TripInsights) error

	// Travelers. TravelerReferenced reports whether any expense on the
	// trip still names the traveler as payer or split member.
	AddTraveler(ctx context.Context, traveler *models.Traveler) error
	ListTravelers(ctx context.Context, tripID string) ([]*models.Traveler, error)
	RemoveTraveler(ctx context.Context, tripID, travelerID string) error
	TravelerReferenced(ctx context.Context, tripID, travelerID string) (bool, error)

	// Folders and per-trip expense categories.
	CreateFolder(ctx context.Context, folder *models.ExpenseFolder) error
	ListFolders(ctx context.Context, tripID string) ([]*models.ExpenseFolder, error)
	AddCategory(ctx context.Context, tripID, name string) error
	ListCategories(ctx context.Context, tripID string) ([]string, error)

	// Expenses, including their split rows.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error)
	// ListExpensesByFolder filters to one folder; an empty folderID
	// selects the implicit general folder (expenses with no folder).
	ListExpensesByFolder(ctx context.Context, tripID, folderID string) ([]*models.Expense, error)

	// Flights.
	AddFlight(ctx context.Context, flight *models.Flight) error
	ListFlights(ctx context.Context, tripID string) ([]*models.Flight, error)
	DeleteFlight(ctx context.Context, tripID, flightID string) error

	// Close releases any resources held by the store.
	Close() error
}
