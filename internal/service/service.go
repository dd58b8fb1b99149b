// Package service implements the application use cases on top of the
// storage and settlement layers. Services validate input, enforce trip
// ownership and translate between API-shaped requests and the domain
// model; they never format HTTP responses themselves.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// ErrTravelerReferenced is returned when a traveler cannot be removed
// because an expense still names them as payer or split member.
var ErrTravelerReferenced = errors.New("traveler is referenced by existing expenses")

// ValidationError marks a request the caller can fix. The API layer
// maps it to a 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ownedTrip loads a trip and verifies it belongs to userID. Foreign
// trips are reported as not found so trip IDs cannot be probed.
func ownedTrip(ctx context.Context, store storage.Store, userID, tripID string) (*models.Trip, error) {
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	return trip, nil
}
