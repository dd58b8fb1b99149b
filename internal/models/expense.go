package models

// Expense represents one shared outlay on a trip.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format),
	// assigned at creation and immutable.
	ID string `json:"id"`

	// TripID is the trip this expense belongs to.
	TripID string `json:"tripId"`

	// FolderID optionally scopes the expense to a folder. Empty means
	// the implicit "general" folder.
	FolderID string `json:"folderId,omitempty"`

	// Description is free-form text (merchant, what was bought).
	Description string `json:"description"`

	// Amount is the non-negative outlay in trip currency units.
	Amount float64 `json:"amount"`

	// Date is an ISO date string (YYYY-MM-DD).
	Date string `json:"date"`

	// Category is descriptive metadata (Food, Transport, ...). Not used
	// by settlement math.
	Category string `json:"category"`

	// PayerID is the traveler who fronted the money. Must reference an
	// existing traveler on the trip.
	PayerID string `json:"payerId"`

	// SplitBetween is the non-empty set of traveler IDs among whom the
	// amount is divided equally. The payer may appear here; their share
	// is effectively kept. Defaults to all travelers when left empty at
	// creation.
	SplitBetween []string `json:"splitBetween"`
}

// ExpenseFolder is a user-defined grouping of expenses within a trip.
// Folders only affect filtering and display; settlement math is
// indifferent to them.
type ExpenseFolder struct {
	// ID is the unique identifier for the folder (UUID format).
	ID string `json:"id"`

	// TripID is the trip this folder belongs to.
	TripID string `json:"tripId"`

	// Name is the display name (e.g., "Day 1", "Restaurants").
	Name string `json:"name"`
}
