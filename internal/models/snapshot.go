package models

// TripSnapshot is the portable JSON document for one trip: the trip
// itself plus everything it owns. Produced by the export endpoint and
// accepted by import; it round-trips the same entities the browser app
// kept in local storage.
type TripSnapshot struct {
	Trip       Trip            `json:"trip"`
	Travelers  []Traveler      `json:"travelers"`
	Folders    []ExpenseFolder `json:"expenseFolders"`
	Expenses   []Expense       `json:"expenses"`
	Categories []string        `json:"categories,omitempty"`
}
