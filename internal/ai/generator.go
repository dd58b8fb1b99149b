// Package ai integrates the generative-AI collaborator used for
// itinerary synthesis, travel advisories, receipt OCR and flight-email
// parsing. The rest of the application treats it as a black box that
// returns best-effort structured data or fails outright; nothing in the
// settlement core depends on it.
package ai

import (
	"context"

	"github.com/okialbert/wanderlust/internal/models"
)

// GeneratedItinerary is the structured result of itinerary synthesis.
type GeneratedItinerary struct {
	Destination string           `json:"destination"`
	Duration    int              `json:"duration"`
	Itinerary   []models.DayPlan `json:"itinerary"`
}

// ReceiptFields are the expense fields extracted from a receipt image.
// Zero values mean the field could not be read.
type ReceiptFields struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

// Generator is the interface to the generative-AI collaborator.
type Generator interface {
	// GenerateItinerary synthesizes a day-by-day plan for a destination.
	GenerateItinerary(ctx context.Context, destination string, days int, interests, budget string) (*GeneratedItinerary, error)

	// TripInsights produces a markdown travel advisory (weather, safety,
	// emergency numbers, tips) grounded on web search results.
	TripInsights(ctx context.Context, destination, startDate string) (*models.TripInsights, error)

	// ParseReceipt extracts expense fields from a base64-encoded
	// receipt image.
	ParseReceipt(ctx context.Context, imageBase64, mimeType string) (*ReceiptFields, error)

	// ParseFlight extracts flight details from confirmation-email text.
	ParseFlight(ctx context.Context, emailText string) (*models.Flight, error)
}
