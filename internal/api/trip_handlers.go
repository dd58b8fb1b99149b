package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okialbert/wanderlust/internal/middleware"
	"github.com/okialbert/wanderlust/internal/models"
)

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip models.Trip
	if !decodeJSON(w, r, &trip) {
		return
	}

	created, err := s.trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), &trip)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if trips == nil {
		trips = []*models.Trip{}
	}
	respondJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	var trip models.Trip
	if !decodeJSON(w, r, &trip) {
		return
	}
	trip.ID = mux.Vars(r)["tripId"]

	updated, err := s.trips.UpdateTrip(r.Context(), middleware.GetUserID(r.Context()), &trip)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.DeleteTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type generateItineraryRequest struct {
	Interests string `json:"interests"`
}

func (s *Server) handleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req generateItineraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := s.trips.GenerateItinerary(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], req.Interests)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (s *Server) handleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.trips.RefreshInsights(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

func (s *Server) handleAddFlight(w http.ResponseWriter, r *http.Request) {
	var flight models.Flight
	if !decodeJSON(w, r, &flight) {
		return
	}

	added, err := s.trips.AddFlight(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], &flight)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

type importFlightRequest struct {
	EmailText string `json:"emailText"`
}

func (s *Server) handleImportFlight(w http.ResponseWriter, r *http.Request) {
	var req importFlightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flight, err := s.trips.ImportFlight(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], req.EmailText)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := s.trips.ListFlights(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if flights == nil {
		flights = []*models.Flight{}
	}
	respondJSON(w, http.StatusOK, flights)
}

func (s *Server) handleDeleteFlight(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.trips.DeleteFlight(r.Context(), middleware.GetUserID(r.Context()), vars["tripId"], vars["flightId"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExportTrip(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.trips.ExportTrip(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleImportTrip(w http.ResponseWriter, r *http.Request) {
	var snapshot models.TripSnapshot
	if !decodeJSON(w, r, &snapshot) {
		return
	}

	trip, err := s.trips.ImportTrip(r.Context(), middleware.GetUserID(r.Context()), &snapshot)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, trip)
}
