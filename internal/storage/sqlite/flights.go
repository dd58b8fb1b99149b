package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/storage"
)

// AddFlight persists a tracked flight on a trip.
func (s *SQLiteStore) AddFlight(ctx context.Context, flight *models.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.New().String()
	}

	var status interface{} = nil
	if flight.Status != "" {
		status = flight.Status
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flights (id, trip_id, airline, flight_number, departure_airport,
			arrival_airport, departure_time, arrival_time, price, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		flight.ID, flight.TripID, flight.Airline, flight.FlightNumber,
		flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureTime, flight.ArrivalTime, flight.Price, status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}

	return nil
}

// ListFlights retrieves all flights for a trip, ordered by departure.
func (s *SQLiteStore) ListFlights(ctx context.Context, tripID string) ([]*models.Flight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, airline, flight_number, departure_airport,
			arrival_airport, departure_time, arrival_time, price, status
		 FROM flights WHERE trip_id = ? ORDER BY departure_time`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	var flights []*models.Flight
	for rows.Next() {
		flight := &models.Flight{}
		var status sql.NullString

		if err := rows.Scan(&flight.ID, &flight.TripID, &flight.Airline, &flight.FlightNumber,
			&flight.DepartureAirport, &flight.ArrivalAirport,
			&flight.DepartureTime, &flight.ArrivalTime, &flight.Price, &status); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}

		flight.Status = status.String
		flights = append(flights, flight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flights: %w", err)
	}

	return flights, nil
}

// DeleteFlight removes a flight from a trip.
func (s *SQLiteStore) DeleteFlight(ctx context.Context, tripID, flightID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM flights WHERE trip_id = ? AND id = ?",
		tripID, flightID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("flight %s: %w", flightID, storage.ErrNotFound)
	}

	return nil
}
