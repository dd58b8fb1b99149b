package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okialbert/wanderlust/internal/ai"
	"github.com/okialbert/wanderlust/internal/auth"
	"github.com/okialbert/wanderlust/internal/models"
	"github.com/okialbert/wanderlust/internal/service"
	"github.com/okialbert/wanderlust/internal/storage/sqlite"
)

type stubGenerator struct {
	itinerary *ai.GeneratedItinerary
	err       error
}

func (g *stubGenerator) GenerateItinerary(ctx context.Context, destination string, days int, interests, budget string) (*ai.GeneratedItinerary, error) {
	return g.itinerary, g.err
}

func (g *stubGenerator) TripInsights(ctx context.Context, destination, startDate string) (*models.TripInsights, error) {
	return &models.TripInsights{Content: "## Weather"}, g.err
}

func (g *stubGenerator) ParseReceipt(ctx context.Context, imageBase64, mimeType string) (*ai.ReceiptFields, error) {
	return &ai.ReceiptFields{Amount: 10, Description: "Receipt"}, g.err
}

func (g *stubGenerator) ParseFlight(ctx context.Context, emailText string) (*models.Flight, error) {
	return &models.Flight{Airline: "ANA", FlightNumber: "NH110"}, g.err
}

// testClient drives the API the way a browser client would, carrying
// the session token between calls.
type testClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestClient(t *testing.T, gen ai.Generator) *testClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-at-least-16b", time.Hour)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	tripSvc := service.NewTripService(store, gen, logger)
	expenseSvc := service.NewExpenseService(store, gen, logger)

	server := httptest.NewServer(NewServer(authSvc, tripSvc, expenseSvc).Router(jwtManager))
	t.Cleanup(server.Close)

	return &testClient{t: t, server: server}
}

func (c *testClient) do(method, path string, body interface{}) (*http.Response, []byte) {
	c.t.Helper()

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to encode body: %v", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.server.URL+path, payload)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("failed to read response: %v", err)
	}
	return resp, data
}

func (c *testClient) doJSON(method, path string, body, out interface{}, wantStatus int) {
	c.t.Helper()

	resp, data := c.do(method, path, body)
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s status = %d, want %d (body %s)", method, path, resp.StatusCode, wantStatus, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.t.Fatalf("failed to decode %s %s response: %v", method, path, err)
		}
	}
}

func (c *testClient) register(email string) {
	c.t.Helper()

	var reply struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	c.doJSON("POST", "/api/register", map[string]string{
		"email": email, "displayName": "Tester", "password": "correct-horse",
	}, &reply, http.StatusCreated)

	if reply.Token == "" || reply.User == nil {
		c.t.Fatal("register returned no token or user")
	}
	c.token = reply.Token
}

func (c *testClient) createTrip() *models.Trip {
	c.t.Helper()

	trip := &models.Trip{}
	c.doJSON("POST", "/api/trips", map[string]interface{}{
		"name": "Japan 2026", "destination": "Tokyo", "duration": 5,
	}, trip, http.StatusCreated)
	return trip
}

func (c *testClient) addTraveler(tripID, name string) *models.Traveler {
	c.t.Helper()

	traveler := &models.Traveler{}
	c.doJSON("POST", fmt.Sprintf("/api/trips/%s/travelers", tripID),
		map[string]string{"name": name}, traveler, http.StatusCreated)
	return traveler
}

func TestAuthFlow(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})

	// Protected routes reject anonymous requests.
	resp, _ := client.do("GET", "/api/trips", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", resp.StatusCode)
	}

	client.register("alice@example.com")

	// Duplicate registration conflicts.
	resp, _ = client.do("POST", "/api/register", map[string]string{
		"email": "alice@example.com", "displayName": "Alice", "password": "correct-horse",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// Wrong password is a 401, right password returns a working token.
	resp, _ = client.do("POST", "/api/login", map[string]string{
		"email": "alice@example.com", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}

	var reply struct {
		Token string `json:"token"`
	}
	client.doJSON("POST", "/api/login", map[string]string{
		"email": "alice@example.com", "password": "correct-horse"}, &reply, http.StatusOK)
	client.token = reply.Token

	client.doJSON("GET", "/api/trips", nil, &[]models.Trip{}, http.StatusOK)
}

func TestTripLifecycle(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	client.register("alice@example.com")

	trip := client.createTrip()
	if trip.ID == "" || trip.Currency != "USD" {
		t.Fatalf("created trip = %+v", trip)
	}

	var trips []models.Trip
	client.doJSON("GET", "/api/trips", nil, &trips, http.StatusOK)
	if len(trips) != 1 {
		t.Fatalf("trips = %+v", trips)
	}

	updated := &models.Trip{}
	client.doJSON("PUT", "/api/trips/"+trip.ID, map[string]interface{}{
		"name": "Japan, extended", "duration": 8}, updated, http.StatusOK)
	if updated.Name != "Japan, extended" || updated.Duration != 8 {
		t.Errorf("updated trip = %+v", updated)
	}

	client.doJSON("DELETE", "/api/trips/"+trip.ID, nil, nil, http.StatusNoContent)
	resp, _ := client.do("GET", "/api/trips/"+trip.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted trip status = %d, want 404", resp.StatusCode)
	}
}

func TestTripIsolationBetweenUsers(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	client.register("alice@example.com")
	trip := client.createTrip()

	client.register("bob@example.com")
	resp, _ := client.do("GET", "/api/trips/"+trip.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign trip status = %d, want 404", resp.StatusCode)
	}
}

func TestExpensesAndSettlement(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	client.register("alice@example.com")
	trip := client.createTrip()

	alice := client.addTraveler(trip.ID, "Alice")
	bob := client.addTraveler(trip.ID, "Bob")

	expense := &models.Expense{}
	client.doJSON("POST", fmt.Sprintf("/api/trips/%s/expenses", trip.ID), map[string]interface{}{
		"description": "Dinner", "amount": 60, "payerId": alice.ID,
	}, expense, http.StatusCreated)
	if len(expense.SplitBetween) != 2 {
		t.Fatalf("splitBetween = %v, want defaulted to both travelers", expense.SplitBetween)
	}

	var result struct {
		Balances  map[string]float64 `json:"balances"`
		Transfers []struct {
			FromID string  `json:"fromId"`
			ToID   string  `json:"toId"`
			Amount float64 `json:"amount"`
		} `json:"transfers"`
	}
	client.doJSON("GET", fmt.Sprintf("/api/trips/%s/settlement", trip.ID), nil, &result, http.StatusOK)
	if len(result.Transfers) != 1 || result.Transfers[0].Amount != 30 ||
		result.Transfers[0].FromID != bob.ID || result.Transfers[0].ToID != alice.ID {
		t.Fatalf("transfers = %+v, want Bob->Alice 30", result.Transfers)
	}

	// Referenced travelers cannot be removed.
	resp, _ := client.do("DELETE", fmt.Sprintf("/api/trips/%s/travelers/%s", trip.ID, alice.ID), nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("remove referenced traveler status = %d, want 422", resp.StatusCode)
	}

	// After the expense goes away, removal succeeds.
	client.doJSON("DELETE", fmt.Sprintf("/api/trips/%s/expenses/%s", trip.ID, expense.ID), nil, nil, http.StatusNoContent)
	client.doJSON("DELETE", fmt.Sprintf("/api/trips/%s/travelers/%s", trip.ID, alice.ID), nil, nil, http.StatusNoContent)
}

func TestExpenseValidationStatus(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	client.register("alice@example.com")
	trip := client.createTrip()
	alice := client.addTraveler(trip.ID, "Alice")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"negative amount", map[string]interface{}{"description": "x", "amount": -5, "payerId": alice.ID}},
		{"unknown payer", map[string]interface{}{"description": "x", "amount": 5, "payerId": "ghost"}},
		{"unknown split member", map[string]interface{}{
			"description": "x", "amount": 5, "payerId": alice.ID, "splitBetween": []string{"ghost"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := client.do("POST", fmt.Sprintf("/api/trips/%s/expenses", trip.ID), tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestItineraryGeneration(t *testing.T) {
	gen := &stubGenerator{itinerary: &ai.GeneratedItinerary{
		Destination: "Tokyo", Duration: 2,
		Itinerary: []models.DayPlan{{Day: 1, Theme: "Arrival"}, {Day: 2, Theme: "Temples"}},
	}}
	client := newTestClient(t, gen)
	client.register("alice@example.com")
	trip := client.createTrip()

	got := &models.Trip{}
	client.doJSON("POST", fmt.Sprintf("/api/trips/%s/itinerary", trip.ID),
		map[string]string{"interests": "food"}, got, http.StatusOK)
	if len(got.Itinerary) != 2 {
		t.Errorf("itinerary = %+v", got.Itinerary)
	}
}

func TestAIFailureIsBadGateway(t *testing.T) {
	client := newTestClient(t, &stubGenerator{err: errors.New("upstream down")})
	client.register("alice@example.com")
	trip := client.createTrip()

	resp, _ := client.do("POST", fmt.Sprintf("/api/trips/%s/itinerary", trip.ID), map[string]string{})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("failed generation status = %d, want 502", resp.StatusCode)
	}
}

func TestExportImportEndpoints(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})
	client.register("alice@example.com")
	trip := client.createTrip()
	alice := client.addTraveler(trip.ID, "Alice")
	bob := client.addTraveler(trip.ID, "Bob")

	client.doJSON("POST", fmt.Sprintf("/api/trips/%s/expenses", trip.ID), map[string]interface{}{
		"description": "Hotel", "amount": 200, "payerId": alice.ID,
		"splitBetween": []string{alice.ID, bob.ID},
	}, nil, http.StatusCreated)

	snapshot := &models.TripSnapshot{}
	client.doJSON("GET", fmt.Sprintf("/api/trips/%s/export", trip.ID), nil, snapshot, http.StatusOK)
	if len(snapshot.Travelers) != 2 || len(snapshot.Expenses) != 1 {
		t.Fatalf("snapshot = %+v", snapshot)
	}

	imported := &models.Trip{}
	client.doJSON("POST", "/api/trips/import", snapshot, imported, http.StatusCreated)
	if imported.ID == trip.ID {
		t.Error("import reused the original trip ID")
	}

	var trips []models.Trip
	client.doJSON("GET", "/api/trips", nil, &trips, http.StatusOK)
	if len(trips) != 2 {
		t.Errorf("trips after import = %d, want 2", len(trips))
	}
}

func TestHealthz(t *testing.T) {
	client := newTestClient(t, &stubGenerator{})

	resp, body := client.do("GET", "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("ok")) {
		t.Errorf("healthz body = %s", body)
	}
}
