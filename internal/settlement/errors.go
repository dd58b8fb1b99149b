package settlement

import "fmt"

// ReferentialIntegrityError reports an expense referencing a traveler
// that is missing from the supplied traveler set. Balances computed from
// such a ledger would be skewed, so the engine refuses to compute them.
// Callers are expected to keep the ledger consistent (e.g., block
// deleting a traveler who still appears on an expense); hitting this
// error is a contract violation, not a recoverable condition.
type ReferentialIntegrityError struct {
	ExpenseID  string
	Field      string // "payerId" or "splitBetween"
	TravelerID string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("expense %s: %s references unknown traveler %s",
		e.ExpenseID, e.Field, e.TravelerID)
}

// InvariantViolationError reports an expense that should have been
// rejected at construction time: an empty split set or a negative
// amount. This is a programming error in the caller, not user input.
type InvariantViolationError struct {
	ExpenseID string
	Reason    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("expense %s: %s", e.ExpenseID, e.Reason)
}
