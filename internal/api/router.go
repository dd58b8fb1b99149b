package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okialbert/wanderlust/internal/auth"
	"github.com/okialbert/wanderlust/internal/middleware"
	"github.com/okialbert/wanderlust/internal/service"
)

// Server wires the services to their HTTP routes.
type Server struct {
	auth     *service.AuthService
	trips    *service.TripService
	expenses *service.ExpenseService
}

// NewServer creates the API server.
func NewServer(authSvc *service.AuthService, trips *service.TripService, expenses *service.ExpenseService) *Server {
	return &Server{auth: authSvc, trips: trips, expenses: expenses}
}

// Router builds the full route table. Everything under /api except
// register and login requires a Bearer token.
func (s *Server) Router(jwtManager *auth.JWTManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.Metrics)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/api/register", s.handleRegister).Methods("POST")
	router.HandleFunc("/api/login", s.handleLogin).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth(jwtManager))

	api.HandleFunc("/trips", s.handleCreateTrip).Methods("POST")
	api.HandleFunc("/trips", s.handleListTrips).Methods("GET")
	api.HandleFunc("/trips/import", s.handleImportTrip).Methods("POST")
	api.HandleFunc("/trips/{tripId}", s.handleGetTrip).Methods("GET")
	api.HandleFunc("/trips/{tripId}", s.handleUpdateTrip).Methods("PUT")
	api.HandleFunc("/trips/{tripId}", s.handleDeleteTrip).Methods("DELETE")
	api.HandleFunc("/trips/{tripId}/export", s.handleExportTrip).Methods("GET")

	api.HandleFunc("/trips/{tripId}/itinerary", s.handleGenerateItinerary).Methods("POST")
	api.HandleFunc("/trips/{tripId}/insights", s.handleRefreshInsights).Methods("POST")

	api.HandleFunc("/trips/{tripId}/flights", s.handleAddFlight).Methods("POST")
	api.HandleFunc("/trips/{tripId}/flights", s.handleListFlights).Methods("GET")
	api.HandleFunc("/trips/{tripId}/flights/import", s.handleImportFlight).Methods("POST")
	api.HandleFunc("/trips/{tripId}/flights/{flightId}", s.handleDeleteFlight).Methods("DELETE")

	api.HandleFunc("/trips/{tripId}/travelers", s.handleAddTraveler).Methods("POST")
	api.HandleFunc("/trips/{tripId}/travelers", s.handleListTravelers).Methods("GET")
	api.HandleFunc("/trips/{tripId}/travelers/{travelerId}", s.handleRemoveTraveler).Methods("DELETE")

	api.HandleFunc("/trips/{tripId}/folders", s.handleCreateFolder).Methods("POST")
	api.HandleFunc("/trips/{tripId}/folders", s.handleListFolders).Methods("GET")
	api.HandleFunc("/trips/{tripId}/categories", s.handleAddCategory).Methods("POST")
	api.HandleFunc("/trips/{tripId}/categories", s.handleListCategories).Methods("GET")

	api.HandleFunc("/trips/{tripId}/expenses", s.handleCreateExpense).Methods("POST")
	api.HandleFunc("/trips/{tripId}/expenses", s.handleListExpenses).Methods("GET")
	api.HandleFunc("/trips/{tripId}/expenses/{expenseId}", s.handleUpdateExpense).Methods("PUT")
	api.HandleFunc("/trips/{tripId}/expenses/{expenseId}", s.handleDeleteExpense).Methods("DELETE")
	api.HandleFunc("/trips/{tripId}/settlement", s.handleSettle).Methods("GET")
	api.HandleFunc("/trips/{tripId}/receipts/scan", s.handleScanReceipt).Methods("POST")

	return router
}
