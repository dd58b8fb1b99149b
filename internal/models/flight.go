package models

// Flight is one tracked flight on a trip. Usually extracted from a
// confirmation email by the AI collaborator, sometimes entered by hand.
type Flight struct {
	// ID is the unique identifier for the flight (UUID format).
	ID string `json:"id"`

	// TripID is the trip this flight belongs to.
	TripID string `json:"tripId"`

	Airline          string `json:"airline"`
	FlightNumber     string `json:"flightNumber"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`

	// DepartureTime and ArrivalTime are ISO timestamps or HH:MM strings,
	// kept as-is from the source document.
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`

	// Price is the ticket price in trip currency units, 0 if unknown.
	Price float64 `json:"price,omitempty"`

	// Status is a free-form tracking status (e.g., "On Time", "Delayed").
	Status string `json:"status,omitempty"`
}
