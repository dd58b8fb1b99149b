// Package settlement computes per-traveler balances for a shared-expense
// ledger and a minimal list of transfers that clears all debts.
//
// The package is pure: no I/O, no state between calls, identical inputs
// always produce identical outputs. Callers pass a snapshot of the
// ledger (optionally pre-filtered to one folder) and render the result.
package settlement

import (
	"math"
	"sort"
)

// Epsilon is the settlement granularity in currency units. Balances
// within Epsilon of zero are considered settled.
const Epsilon = 0.01

// Expense carries the minimal information the engine needs about one
// shared outlay. Descriptive metadata (category, date, folder) is
// irrelevant to the math and lives on models.Expense.
type Expense struct {
	ID           string
	PayerID      string
	Amount       float64
	SplitBetween []string
}

// Transfer is one directed payment instruction: FromID pays Amount to
// ToID. Applying every transfer of a settlement brings every balance to
// within Epsilon of zero.
type Transfer struct {
	FromID string  `json:"fromId"`
	ToID   string  `json:"toId"`
	Amount float64 `json:"amount"`
}

// ComputeBalances returns each traveler's net position: paid minus owed.
// Positive means the traveler is owed money, negative means they owe.
//
// Every traveler in travelers appears in the result, so travelers with
// no transactions show a zero balance. For each expense the payer is
// credited the full amount and every split member is debited an equal
// share at full float precision; rounding happens only when transfers
// are emitted by Settle. The payer may appear in their own split, in
// which case they effectively keep that share.
//
// The resulting balances always sum to zero (within float epsilon),
// since everything credited to a payer is fully debited as shares.
func ComputeBalances(travelers []string, expenses []Expense) (map[string]float64, error) {
	balances := make(map[string]float64, len(travelers))
	for _, id := range travelers {
		balances[id] = 0
	}

	for _, exp := range expenses {
		if len(exp.SplitBetween) == 0 {
			return nil, &InvariantViolationError{ExpenseID: exp.ID, Reason: "splitBetween is empty"}
		}
		if exp.Amount < 0 {
			return nil, &InvariantViolationError{ExpenseID: exp.ID, Reason: "amount is negative"}
		}
		if _, ok := balances[exp.PayerID]; !ok {
			return nil, &ReferentialIntegrityError{ExpenseID: exp.ID, Field: "payerId", TravelerID: exp.PayerID}
		}
		for _, id := range exp.SplitBetween {
			if _, ok := balances[id]; !ok {
				return nil, &ReferentialIntegrityError{ExpenseID: exp.ID, Field: "splitBetween", TravelerID: id}
			}
		}

		share := exp.Amount / float64(len(exp.SplitBetween))
		balances[exp.PayerID] += exp.Amount
		for _, id := range exp.SplitBetween {
			balances[id] -= share
		}
	}

	return balances, nil
}

// Settle converts a balance map into an ordered list of transfers using
// greedy largest-first matching: the most indebted traveler pays the
// most owed traveler, repeated until both sides are exhausted.
//
// The result is minimal for a single net-balance matching: at most
// debtors+creditors-1 transfers. Travelers already within Epsilon of
// zero produce no transfers. Equal balances are tie-broken by traveler
// ID so the same ledger always settles the same way.
func Settle(balances map[string]float64) []Transfer {
	type party struct {
		id     string
		amount float64
	}

	var debtors, creditors []party
	for id, amount := range balances {
		switch {
		case amount < -Epsilon:
			debtors = append(debtors, party{id, amount})
		case amount > Epsilon:
			creditors = append(creditors, party{id, amount})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].amount != debtors[j].amount {
			return debtors[i].amount < debtors[j].amount // most negative first
		}
		return debtors[i].id < debtors[j].id
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].amount != creditors[j].amount {
			return creditors[i].amount > creditors[j].amount // most positive first
		}
		return creditors[i].id < creditors[j].id
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := math.Min(-debtor.amount, creditor.amount)
		transfers = append(transfers, Transfer{
			FromID: debtor.id,
			ToID:   creditor.id,
			Amount: round2(amount),
		})

		debtor.amount += amount
		creditor.amount -= amount

		// Total debt equals total credit, so both cursors reach the end
		// together; a single step may advance both.
		if -debtor.amount < Epsilon {
			i++
		}
		if creditor.amount < Epsilon {
			j++
		}
	}

	return transfers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
