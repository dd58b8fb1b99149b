package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/ai"
	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/settlement"
	"github.com/okialbert/wanderlust/internal/storage"
)

// ExpenseService handles travelers, folders, expenses and settlement.
type ExpenseService struct {
	store     storage.Store
	generator ai.Generator
	logger    *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.Store, generator ai.Generator, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, generator: generator, logger: logger}
}

// SettlementResult is the derived payoff view for a set of expenses.
// It is computed on demand and never persisted.
type SettlementResult struct {
	Balances  map[string]float64    `json:"balances"`
	Transfers []settlement.Transfer `json:"transfers"`
}

// AddTraveler adds a named traveler to the trip.
func (s *ExpenseService) AddTraveler(ctx context.Context, userID, tripID, name string) (*models.Traveler, error) {
	if name == "" {
		return nil, validationf("traveler name is required")
	}
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}

	traveler := &models.Traveler{
		ID:     uuid.New().String(),
		TripID: tripID,
		Name:   name,
	}
	if err := s.store.AddTraveler(ctx, traveler); err != nil {
		return nil, fmt.Errorf("failed to add traveler: %w", err)
	}
	return traveler, nil
}

// ListTravelers returns the trip's travelers in insertion order.
func (s *ExpenseService) ListTravelers(ctx context.Context, userID, tripID string) ([]*models.Traveler, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	return s.store.ListTravelers(ctx, tripID)
}

// RemoveTraveler deletes a traveler. Removal is refused while any
// expense still names the traveler as payer or split member, so the
// expense ledger can never dangle. The last traveler on a trip cannot
// be removed.
func (s *ExpenseService) RemoveTraveler(ctx context.Context, userID, tripID, travelerID string) error {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return err
	}

	travelers, err := s.store.ListTravelers(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to list travelers: %w", err)
	}
	if len(travelers) <= 1 {
		return validationf("cannot remove the last traveler on a trip")
	}

	referenced, err := s.store.TravelerReferenced(ctx, tripID, travelerID)
	if err != nil {
		return fmt.Errorf("failed to check traveler references: %w", err)
	}
	if referenced {
		return ErrTravelerReferenced
	}

	if err := s.store.RemoveTraveler(ctx, tripID, travelerID); err != nil {
		return err
	}
	s.logger.Info("Traveler removed", "trip_id", tripID, "traveler_id", travelerID)
	return nil
}

// CreateFolder adds an expense folder to the trip.
func (s *ExpenseService) CreateFolder(ctx context.Context, userID, tripID, name string) (*models.ExpenseFolder, error) {
	if name == "" {
		return nil, validationf("folder name is required")
	}
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}

	folder := &models.ExpenseFolder{
		ID:     uuid.New().String(),
		TripID: tripID,
		Name:   name,
	}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// ListFolders returns the trip's expense folders.
func (s *ExpenseService) ListFolders(ctx context.Context, userID, tripID string) ([]*models.ExpenseFolder, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	return s.store.ListFolders(ctx, tripID)
}

// AddCategory adds a custom expense category to the trip. Adding an
// existing category is a no-op.
func (s *ExpenseService) AddCategory(ctx context.Context, userID, tripID, name string) error {
	if name == "" {
		return validationf("category name is required")
	}
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return err
	}
	return s.store.AddCategory(ctx, tripID, name)
}

// ListCategories returns the trip's expense categories.
func (s *ExpenseService) ListCategories(ctx context.Context, userID, tripID string) ([]string, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, tripID)
}

// CreateExpense validates and records a shared expense. An empty
// splitBetween means everyone currently on the trip shares it.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, expense *models.Expense) (*models.Expense, error) {
	if _, err := ownedTrip(ctx, s.store, userID, expense.TripID); err != nil {
		return nil, err
	}
	if err := s.normalizeExpense(ctx, expense); err != nil {
		return nil, err
	}

	expense.ID = uuid.New().String()
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created", "trip_id", expense.TripID, "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// UpdateExpense validates and replaces an existing expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID string, expense *models.Expense) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.TripID = existing.TripID

	if _, err := ownedTrip(ctx, s.store, userID, expense.TripID); err != nil {
		return nil, err
	}
	if err := s.normalizeExpense(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense from its trip.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if _, err := ownedTrip(ctx, s.store, userID, expense.TripID); err != nil {
		return err
	}
	return s.store.DeleteExpense(ctx, expenseID)
}

// ListExpenses returns the trip's expenses, optionally filtered to one
// folder. An empty folderID with filter set selects the implicit
// general folder.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, tripID string, folderID string, filterByFolder bool) ([]*models.Expense, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}
	if filterByFolder {
		return s.store.ListExpensesByFolder(ctx, tripID, folderID)
	}
	return s.store.ListExpenses(ctx, tripID)
}

// Settle computes who owes whom for the trip, optionally scoped to one
// folder. The result is derived from the expense ledger on every call.
func (s *ExpenseService) Settle(ctx context.Context, userID, tripID string, folderID string, filterByFolder bool) (*SettlementResult, error) {
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}

	travelers, err := s.store.ListTravelers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travelers: %w", err)
	}
	var expenses []*models.Expense
	if filterByFolder {
		expenses, err = s.store.ListExpensesByFolder(ctx, tripID, folderID)
	} else {
		expenses, err = s.store.ListExpenses(ctx, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	travelerIDs := make([]string, len(travelers))
	for i, t := range travelers {
		travelerIDs[i] = t.ID
	}
	engineExpenses := make([]settlement.Expense, len(expenses))
	for i, e := range expenses {
		engineExpenses[i] = settlement.Expense{
			ID:           e.ID,
			PayerID:      e.PayerID,
			Amount:       e.Amount,
			SplitBetween: e.SplitBetween,
		}
	}

	balances, err := settlement.ComputeBalances(travelerIDs, engineExpenses)
	if err != nil {
		return nil, err
	}
	return &SettlementResult{
		Balances:  balances,
		Transfers: settlement.Settle(balances),
	}, nil
}

// ScanReceipt extracts expense fields from a receipt image so the
// caller can prefill the expense form. Nothing is persisted.
func (s *ExpenseService) ScanReceipt(ctx context.Context, userID, tripID, imageBase64, mimeType string) (*ai.ReceiptFields, error) {
	if imageBase64 == "" {
		return nil, validationf("image data is required")
	}
	if _, err := ownedTrip(ctx, s.store, userID, tripID); err != nil {
		return nil, err
	}

	fields, err := s.generator.ParseReceipt(ctx, imageBase64, mimeType)
	if err != nil {
		s.logger.Error("Receipt parsing failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return fields, nil
}

// normalizeExpense applies defaults and validates referential
// integrity against the trip's current travelers.
func (s *ExpenseService) normalizeExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Description == "" {
		return validationf("description is required")
	}
	if expense.Amount < 0 {
		return validationf("amount must not be negative")
	}
	if expense.PayerID == "" {
		return validationf("payerId is required")
	}

	travelers, err := s.store.ListTravelers(ctx, expense.TripID)
	if err != nil {
		return fmt.Errorf("failed to list travelers: %w", err)
	}
	known := make(map[string]bool, len(travelers))
	for _, t := range travelers {
		known[t.ID] = true
	}

	if !known[expense.PayerID] {
		return validationf("payer %s is not a traveler on this trip", expense.PayerID)
	}
	if len(expense.SplitBetween) == 0 {
		for _, t := range travelers {
			expense.SplitBetween = append(expense.SplitBetween, t.ID)
		}
		if len(expense.SplitBetween) == 0 {
			return validationf("trip has no travelers to split between")
		}
	} else {
		for _, id := range expense.SplitBetween {
			if !known[id] {
				return validationf("split member %s is not a traveler on this trip", id)
			}
		}
	}

	if expense.FolderID != "" {
		folders, err := s.store.ListFolders(ctx, expense.TripID)
		if err != nil {
			return fmt.Errorf("failed to list folders: %w", err)
		}
		found := false
		for _, f := range folders {
			if f.ID == expense.FolderID {
				found = true
				break
			}
		}
		if !found {
			return validationf("folder %s does not exist on this trip", expense.FolderID)
		}
	}
	return nil
}
