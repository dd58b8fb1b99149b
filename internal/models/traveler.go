package models

// Traveler is a person sharing expenses on a trip. Travelers are
// trip-scoped and do not need a user account.
type Traveler struct {
	// ID is the unique identifier for the traveler (UUID format).
	ID string `json:"id"`

	// TripID is the trip this traveler belongs to.
	TripID string `json:"tripId"`

	// Name is the display name.
	Name string `json:"name"`
}
