package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/verse-labs/verse-bank/internal/api"
	"github.com/verse-labs/verse-bank/internal/events/noop"
	"github.com/verse-labs/verse-bank/internal/ledger"
	"github.com/verse-labs/verse-bank/internal/platform/logger"
	"github.com/verse-labs/verse-bank/internal/storage/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewAccountStore()
	publisher := noop.NewPublisher()
	log := logger.NewNop()
	handler := api.NewHandler(
		ledger.NewRegistry(store, publisher, log),
		ledger.NewService(store, publisher, log),
		log,
	)
	return api.NewRouter(handler)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, payload
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	status, payload := doJSON(t, router, http.MethodGet, "/health", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %v, want ok", payload["status"])
	}
}

// TestAccountLifecycle walks the full scenario: create, deposit,
// overdraw attempt, drain to zero, query, miss.
func TestAccountLifecycle(t *testing.T) {
	router := newTestRouter(t)

	status, payload := doJSON(t, router, http.MethodPost, "/account",
		`{"account_number": "A1", "initial_balance": 100.00}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (%v)", status, payload)
	}
	if payload["account_number"] != "A1" {
		t.Errorf("account_number = %v, want A1", payload["account_number"])
	}

	status, payload = doJSON(t, router, http.MethodPost, "/deposit",
		`{"account_number": "A1", "amount": 50.00}`)
	if status != http.StatusOK {
		t.Fatalf("deposit status = %d, want 200 (%v)", status, payload)
	}
	if payload["new_balance"] != "150.00" {
		t.Errorf("new_balance = %v, want 150.00", payload["new_balance"])
	}

	status, payload = doJSON(t, router, http.MethodPost, "/withdrawal",
		`{"account_number": "A1", "amount": 200.00}`)
	if status != http.StatusBadRequest {
		t.Fatalf("overdraw status = %d, want 400 (%v)", status, payload)
	}

	// The failed withdrawal must not have touched the balance.
	status, payload = doJSON(t, router, http.MethodGet, "/account/A1", "")
	if status != http.StatusOK {
		t.Fatalf("get status = %d, want 200", status)
	}
	if payload["balance"] != "150.00" {
		t.Errorf("balance after overdraw = %v, want 150.00", payload["balance"])
	}

	status, payload = doJSON(t, router, http.MethodPost, "/withdrawal",
		`{"account_number": "A1", "amount": 150.00}`)
	if status != http.StatusOK {
		t.Fatalf("withdrawal status = %d, want 200 (%v)", status, payload)
	}
	if payload["new_balance"] != "0.00" {
		t.Errorf("new_balance = %v, want 0.00", payload["new_balance"])
	}

	status, payload = doJSON(t, router, http.MethodGet, "/account/A1", "")
	if status != http.StatusOK {
		t.Fatalf("get status = %d, want 200", status)
	}
	if payload["balance"] != "0.00" {
		t.Errorf("final balance = %v, want 0.00", payload["balance"])
	}

	status, _ = doJSON(t, router, http.MethodGet, "/account/UNKNOWN", "")
	if status != http.StatusNotFound {
		t.Errorf("get unknown status = %d, want 404", status)
	}
}

func TestCreateAccountRejections(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing account_number", `{"initial_balance": 10}`, http.StatusBadRequest},
		{"missing initial_balance", `{"account_number": "A1"}`, http.StatusBadRequest},
		{"empty body", `{}`, http.StatusBadRequest},
		{"malformed json", `{"account_number": `, http.StatusBadRequest},
		{"negative balance", `{"account_number": "A1", "initial_balance": -5}`, http.StatusBadRequest},
		{"non-numeric balance", `{"account_number": "A1", "initial_balance": "abc"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := doJSON(t, router, http.MethodPost, "/account", tc.body)
			if status != tc.want {
				t.Errorf("status = %d, want %d", status, tc.want)
			}
		})
	}
}

func TestCreateAccountDuplicateConflict(t *testing.T) {
	router := newTestRouter(t)

	body := `{"account_number": "A1", "initial_balance": 10.00}`
	if status, _ := doJSON(t, router, http.MethodPost, "/account", body); status != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", status)
	}
	if status, _ := doJSON(t, router, http.MethodPost, "/account", body); status != http.StatusConflict {
		t.Errorf("second create status = %d, want 409", status)
	}
}

func TestMutationRejections(t *testing.T) {
	router := newTestRouter(t)
	if status, _ := doJSON(t, router, http.MethodPost, "/account",
		`{"account_number": "A1", "initial_balance": 100.00}`); status != http.StatusCreated {
		t.Fatal("setup create failed")
	}

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"deposit missing amount", "/deposit", `{"account_number": "A1"}`, http.StatusBadRequest},
		{"deposit zero amount", "/deposit", `{"account_number": "A1", "amount": 0}`, http.StatusBadRequest},
		{"deposit negative amount", "/deposit", `{"account_number": "A1", "amount": -1}`, http.StatusBadRequest},
		{"deposit sub-cent amount", "/deposit", `{"account_number": "A1", "amount": 0.001}`, http.StatusBadRequest},
		{"deposit non-numeric amount", "/deposit", `{"account_number": "A1", "amount": "xyz"}`, http.StatusBadRequest},
		{"deposit unknown account", "/deposit", `{"account_number": "NOPE", "amount": 1}`, http.StatusNotFound},
		{"withdrawal missing account", "/withdrawal", `{"amount": 1}`, http.StatusBadRequest},
		{"withdrawal zero amount", "/withdrawal", `{"account_number": "A1", "amount": 0}`, http.StatusBadRequest},
		{"withdrawal unknown account", "/withdrawal", `{"account_number": "NOPE", "amount": 1}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := doJSON(t, router, http.MethodPost, tc.path, tc.body)
			if status != tc.want {
				t.Errorf("status = %d, want %d", status, tc.want)
			}
		})
	}

	// None of the rejected requests may have moved the balance.
	status, payload := doJSON(t, router, http.MethodGet, "/account/A1", "")
	if status != http.StatusOK {
		t.Fatalf("get status = %d, want 200", status)
	}
	if payload["balance"] != "100.00" {
		t.Errorf("balance = %v, want 100.00", payload["balance"])
	}
}

// TestAmountAsStringAccepted: json.Number also accepts quoted numeric
// strings, matching the original API's lenient parsing.
func TestAmountAsStringAccepted(t *testing.T) {
	router := newTestRouter(t)
	if status, _ := doJSON(t, router, http.MethodPost, "/account",
		`{"account_number": "A1", "initial_balance": "100.50"}`); status != http.StatusCreated {
		t.Fatal("setup create failed")
	}

	status, payload := doJSON(t, router, http.MethodPost, "/deposit",
		`{"account_number": "A1", "amount": "0.50"}`)
	if status != http.StatusOK {
		t.Fatalf("deposit status = %d, want 200 (%v)", status, payload)
	}
	if payload["new_balance"] != "101.00" {
		t.Errorf("new_balance = %v, want 101.00", payload["new_balance"])
	}
}
