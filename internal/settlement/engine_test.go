package settlement

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name      string
		travelers []string
		expenses  []Expense
		want      map[string]float64
		wantErr   error
	}{
		{
			name:      "empty ledger",
			travelers: nil,
			expenses:  nil,
			want:      map[string]float64{},
		},
		{
			name:      "travelers with no expenses all appear at zero",
			travelers: []string{"a", "b"},
			expenses:  nil,
			want:      map[string]float64{"a": 0, "b": 0},
		},
		{
			name:      "single expense equal three-way split",
			travelers: []string{"a", "b", "c"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: 90, SplitBetween: []string{"a", "b", "c"}},
			},
			want: map[string]float64{"a": 60, "b": -30, "c": -30},
		},
		{
			name:      "payer included in own split keeps their share",
			travelers: []string{"a", "b"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: 100, SplitBetween: []string{"a", "b"}},
			},
			want: map[string]float64{"a": 50, "b": -50},
		},
		{
			name:      "payer excluded from split owes nothing",
			travelers: []string{"a", "b", "c"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: 30, SplitBetween: []string{"b", "c"}},
			},
			want: map[string]float64{"a": 30, "b": -15, "c": -15},
		},
		{
			name:      "unknown payer",
			travelers: []string{"a", "b"},
			expenses: []Expense{
				{ID: "e1", PayerID: "ghost", Amount: 10, SplitBetween: []string{"a", "b"}},
			},
			wantErr: &ReferentialIntegrityError{ExpenseID: "e1", Field: "payerId", TravelerID: "ghost"},
		},
		{
			name:      "unknown split member",
			travelers: []string{"a", "b"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: 10, SplitBetween: []string{"a", "ghost"}},
			},
			wantErr: &ReferentialIntegrityError{ExpenseID: "e1", Field: "splitBetween", TravelerID: "ghost"},
		},
		{
			name:      "empty split set",
			travelers: []string{"a"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: 10, SplitBetween: nil},
			},
			wantErr: &InvariantViolationError{ExpenseID: "e1", Reason: "splitBetween is empty"},
		},
		{
			name:      "negative amount",
			travelers: []string{"a"},
			expenses: []Expense{
				{ID: "e1", PayerID: "a", Amount: -5, SplitBetween: []string{"a"}},
			},
			wantErr: &InvariantViolationError{ExpenseID: "e1", Reason: "amount is negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.travelers, tt.expenses)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ComputeBalances() error = nil, want %v", tt.wantErr)
				}
				if err.Error() != tt.wantErr.Error() {
					t.Errorf("ComputeBalances() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeBalances() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ComputeBalances() = %v, want %v", got, tt.want)
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > 1e-9 {
					t.Errorf("balance[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestComputeBalancesErrorTypes(t *testing.T) {
	_, err := ComputeBalances([]string{"a"}, []Expense{
		{ID: "e1", PayerID: "ghost", Amount: 10, SplitBetween: []string{"a"}},
	})
	var refErr *ReferentialIntegrityError
	if !errors.As(err, &refErr) {
		t.Fatalf("error = %T, want *ReferentialIntegrityError", err)
	}
	if refErr.TravelerID != "ghost" {
		t.Errorf("TravelerID = %q, want %q", refErr.TravelerID, "ghost")
	}

	_, err = ComputeBalances([]string{"a"}, []Expense{
		{ID: "e2", PayerID: "a", Amount: 10, SplitBetween: nil},
	})
	var invErr *InvariantViolationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %T, want *InvariantViolationError", err)
	}
}

func TestComputeBalancesZeroSum(t *testing.T) {
	travelers := []string{"a", "b", "c", "d"}
	expenses := []Expense{
		{ID: "e1", PayerID: "a", Amount: 100, SplitBetween: []string{"a", "b", "c"}},
		{ID: "e2", PayerID: "b", Amount: 33.33, SplitBetween: []string{"b", "c", "d"}},
		{ID: "e3", PayerID: "c", Amount: 0.07, SplitBetween: []string{"a", "b", "c", "d"}},
		{ID: "e4", PayerID: "d", Amount: 19.99, SplitBetween: []string{"a"}},
		{ID: "e5", PayerID: "a", Amount: 0, SplitBetween: []string{"a", "b"}},
	}

	balances, err := ComputeBalances(travelers, expenses)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	var sum float64
	for _, b := range balances {
		sum += b
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("balances sum to %v, want 0", sum)
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]float64
		want     []Transfer
	}{
		{
			name:     "empty balances",
			balances: map[string]float64{},
			want:     nil,
		},
		{
			name:     "already settled within epsilon",
			balances: map[string]float64{"a": 0.004, "b": -0.004, "c": 0},
			want:     nil,
		},
		{
			name:     "one debtor one creditor",
			balances: map[string]float64{"a": 50, "b": -50},
			want:     []Transfer{{FromID: "b", ToID: "a", Amount: 50}},
		},
		{
			name:     "two equal debtors tie-break by id",
			balances: map[string]float64{"a": 60, "b": -30, "c": -30},
			want: []Transfer{
				{FromID: "b", ToID: "a", Amount: 30},
				{FromID: "c", ToID: "a", Amount: 30},
			},
		},
		{
			name:     "largest debtor matched with largest creditor first",
			balances: map[string]float64{"a": 70, "b": 10, "c": -55, "d": -25},
			want: []Transfer{
				{FromID: "c", ToID: "a", Amount: 55},
				{FromID: "d", ToID: "a", Amount: 15},
				{FromID: "d", ToID: "b", Amount: 10},
			},
		},
		{
			name:     "single step advances both cursors on exact match",
			balances: map[string]float64{"a": 20, "b": -20, "c": 5, "d": -5},
			want: []Transfer{
				{FromID: "b", ToID: "a", Amount: 20},
				{FromID: "d", ToID: "c", Amount: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(tt.balances)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Settle() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Settling n travelers with nonzero balances must need at most n-1
// transfers, and applying the transfers must bring everyone to within
// Epsilon of zero.
func TestSettleMinimalityAndDrift(t *testing.T) {
	travelers := []string{"a", "b", "c", "d", "e"}
	expenses := []Expense{
		{ID: "e1", PayerID: "a", Amount: 120, SplitBetween: []string{"a", "b", "c", "d", "e"}},
		{ID: "e2", PayerID: "b", Amount: 75.50, SplitBetween: []string{"b", "c"}},
		{ID: "e3", PayerID: "c", Amount: 9.99, SplitBetween: []string{"d", "e"}},
		{ID: "e4", PayerID: "d", Amount: 42, SplitBetween: []string{"a", "b", "c", "d"}},
	}

	balances, err := ComputeBalances(travelers, expenses)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	nonzero := 0
	for _, b := range balances {
		if math.Abs(b) > Epsilon {
			nonzero++
		}
	}

	transfers := Settle(balances)
	if len(transfers) > nonzero-1 {
		t.Errorf("Settle() produced %d transfers for %d nonzero balances, want at most %d",
			len(transfers), nonzero, nonzero-1)
	}

	remaining := make(map[string]float64, len(balances))
	for id, b := range balances {
		remaining[id] = b
	}
	for _, tr := range transfers {
		remaining[tr.FromID] += tr.Amount
		remaining[tr.ToID] -= tr.Amount
	}
	for id, b := range remaining {
		if math.Abs(b) > Epsilon {
			t.Errorf("traveler %s left with residual %v after settlement", id, b)
		}
	}
}

// Rounding is applied to emitted transfer amounts only; accumulating at
// full precision keeps a three-way split of 100 from drifting.
func TestSettleRounding(t *testing.T) {
	balances, err := ComputeBalances([]string{"a", "b", "c"}, []Expense{
		{ID: "e1", PayerID: "a", Amount: 100, SplitBetween: []string{"a", "b", "c"}},
	})
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	transfers := Settle(balances)
	want := []Transfer{
		{FromID: "b", ToID: "a", Amount: 33.33},
		{FromID: "c", ToID: "a", Amount: 33.33},
	}
	if !reflect.DeepEqual(transfers, want) {
		t.Fatalf("Settle() = %v, want %v", transfers, want)
	}

	// The payer keeps their own 33.33… share; together with the two
	// rounded transfers the full 100 is accounted for within Epsilon.
	kept := 100 - balances["a"]
	received := transfers[0].Amount + transfers[1].Amount
	if math.Abs(kept+received-100) > Epsilon {
		t.Errorf("kept %v + received %v = %v, want 100 within epsilon", kept, received, kept+received)
	}
}

func TestEngineIdempotence(t *testing.T) {
	travelers := []string{"a", "b", "c"}
	expenses := []Expense{
		{ID: "e1", PayerID: "a", Amount: 100, SplitBetween: []string{"a", "b", "c"}},
		{ID: "e2", PayerID: "b", Amount: 20.01, SplitBetween: []string{"a", "c"}},
	}

	first, err := ComputeBalances(travelers, expenses)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	second, err := ComputeBalances(travelers, expenses)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("balances differ between identical calls: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(Settle(first), Settle(second)) {
		t.Errorf("settlements differ between identical calls")
	}
}
