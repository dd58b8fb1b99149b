package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okialbert/wanderlust/internal/middleware"
	"github.com/okialbert/wanderlust/internal/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddTraveler(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	traveler, err := s.expenses.AddTraveler(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, traveler)
}

func (s *Server) handleListTravelers(w http.ResponseWriter, r *http.Request) {
	travelers, err := s.expenses.ListTravelers(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if travelers == nil {
		travelers = []*models.Traveler{}
	}
	respondJSON(w, http.StatusOK, travelers)
}

func (s *Server) handleRemoveTraveler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := s.expenses.RemoveTraveler(r.Context(), middleware.GetUserID(r.Context()), vars["tripId"], vars["travelerId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	folder, err := s.expenses.CreateFolder(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.expenses.ListFolders(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if folders == nil {
		folders = []*models.ExpenseFolder{}
	}
	respondJSON(w, http.StatusOK, folders)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	tripID := mux.Vars(r)["tripId"]
	if err := s.expenses.AddCategory(r.Context(), userID, tripID, req.Name); err != nil {
		respondServiceError(w, err)
		return
	}

	categories, err := s.expenses.ListCategories(r.Context(), userID, tripID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, categories)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.expenses.ListCategories(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if !decodeJSON(w, r, &expense) {
		return
	}
	expense.TripID = mux.Vars(r)["tripId"]

	created, err := s.expenses.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), &expense)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if !decodeJSON(w, r, &expense) {
		return
	}
	expense.ID = mux.Vars(r)["expenseId"]

	updated, err := s.expenses.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()), &expense)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["expenseId"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// folderFilter reads the optional folder scope from the query string.
// ?folderId=<id> selects one folder, ?folderId= (empty) the implicit
// general folder, absence means no filtering.
func folderFilter(r *http.Request) (string, bool) {
	values := r.URL.Query()
	if _, ok := values["folderId"]; !ok {
		return "", false
	}
	return values.Get("folderId"), true
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	folderID, filtered := folderFilter(r)
	expenses, err := s.expenses.ListExpenses(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], folderID, filtered)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	folderID, filtered := folderFilter(r)
	result, err := s.expenses.Settle(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], folderID, filtered)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type scanReceiptRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	var req scanReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fields, err := s.expenses.ScanReceipt(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["tripId"], req.ImageBase64, req.MimeType)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fields)
}
