package models

// Trip represents one planned trip and everything attached to it.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `json:"id"`

	// UserID is the owning user.
	UserID string `json:"userId"`

	// Name is the user-facing project name (e.g., "Japan 2026").
	Name string `json:"name"`

	// Destination is the free-form destination the itinerary targets.
	Destination string `json:"destination"`

	// Duration is the trip length in days.
	Duration int `json:"duration"`

	// StartDate is an optional ISO date (YYYY-MM-DD). Empty if unset.
	StartDate string `json:"startDate,omitempty"`

	// Budget is the free-form budget description fed to the itinerary
	// generator (e.g., "mid-range", "luxury").
	Budget string `json:"budget,omitempty"`

	// TargetBudget is an optional spending cap in currency units.
	TargetBudget float64 `json:"targetBudget,omitempty"`

	// Currency is the ISO currency code for all amounts on this trip.
	Currency string `json:"currency"`

	// Itinerary is the day-by-day plan, usually AI-generated.
	Itinerary []DayPlan `json:"itinerary"`

	// Flights are the tracked flights for this trip.
	Flights []Flight `json:"flights,omitempty"`

	// Insights is the latest fetched travel advisory, if any.
	Insights *TripInsights `json:"insights,omitempty"`

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last change to the trip
	// or anything it owns.
	UpdatedAt int64 `json:"updatedAt"`
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled item within a day plan.
type Activity struct {
	Time          string `json:"time"`
	Activity      string `json:"activity"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
}

// TripInsights holds the AI-generated travel advisory for a trip:
// markdown content plus the web sources it was grounded on.
type TripInsights struct {
	Content     string          `json:"content"`
	Sources     []InsightSource `json:"sources"`
	LastFetched string          `json:"lastFetched"`
}

// InsightSource is one grounding reference behind a TripInsights report.
type InsightSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
