package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/campuslink/platform/internal/app"
	"github.com/campuslink/platform/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewDefault("httpapi-test")
	log.SetOutput(io.Discard)
	application := app.New(app.Stores{}, app.Options{AuthSecret: "test-secret"}, log)
	return NewHandler(application)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registerUser(t *testing.T, h http.Handler, email string) int64 {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Student",
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var u struct {
		Identifier int64 `json:"identifier"`
	}
	decode(t, rec, &u)
	return u.Identifier
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t)

	if id := registerUser(t, h, "a@campus.edu"); id != 1 {
		t.Fatalf("expected identifier 1, got %d", id)
	}

	rec := do(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Dup",
		"email":    "a@campus.edu",
		"password": "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "a@campus.edu",
		"password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	if login.Token == "" {
		t.Fatalf("expected a token in the login response")
	}

	rec = do(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "a@campus.edu",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}
}

func TestLoanApplicationLifecycle(t *testing.T) {
	h := newTestRouter(t)
	userID := registerUser(t, h, "a@campus.edu")

	rec := do(t, h, http.MethodPost, "/api/loans", map[string]any{
		"title":         "Tuition Loan",
		"interest_rate": 3.5,
		"max_amount":    500000,
		"term_months":   12,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create loan: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/loan-applications", map[string]any{
		"user_identifier": userID,
		"loan_identifier": 1,
		"amount":          100000,
		"purpose":         "tuition",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var appl struct {
		Identifier int64  `json:"identifier"`
		Status     string `json:"status"`
	}
	decode(t, rec, &appl)
	if appl.Status != "pending" {
		t.Fatalf("expected pending, got %q", appl.Status)
	}

	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/api/loan-applications/%d/status", appl.Identifier), map[string]any{
		"status": "shipped",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/api/loan-applications/%d/status", appl.Identifier), map[string]any{
		"status": "approved",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &appl)
	if appl.Status != "approved" {
		t.Fatalf("expected approved, got %q", appl.Status)
	}

	// The approval left a notification record behind.
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/notifications?user=%d&category=loan", userID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list notifications: expected 200, got %d", rec.Code)
	}
	var notifs []struct {
		ID   string `json:"id"`
		Read bool   `json:"read"`
	}
	decode(t, rec, &notifs)
	if len(notifs) == 0 {
		t.Fatalf("expected notification records after approval")
	}

	rec = do(t, h, http.MethodPatch, "/api/notifications/"+notifs[0].ID+"/read", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderLifecycle(t *testing.T) {
	h := newTestRouter(t)
	userID := registerUser(t, h, "buyer@campus.edu")

	rec := do(t, h, http.MethodPost, "/api/products", map[string]any{
		"name":        "Hoodie",
		"price_cents": 3500,
		"stock":       10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/orders", map[string]any{
		"user_identifier": userID,
		"items": []map[string]any{
			{"product_identifier": 1, "quantity": 2},
		},
		"shipping_address": "Dorm 4",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var o struct {
		Identifier int64 `json:"identifier"`
		TotalCents int64 `json:"total_cents"`
	}
	decode(t, rec, &o)
	if o.TotalCents != 7000 {
		t.Fatalf("expected total 7000, got %d", o.TotalCents)
	}

	rec = do(t, h, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", o.Identifier), map[string]any{
		"status": "shipped",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ship: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNotFoundAndBadInput(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/users/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/loans", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/users/abc", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric identifier: expected 404 from the router, got %d", rec.Code)
	}
}

func TestBannersActiveFilter(t *testing.T) {
	h := newTestRouter(t)

	for _, title := range []string{"Welcome Week", "Book Sale"} {
		rec := do(t, h, http.MethodPost, "/api/banners", map[string]any{
			"title":     title,
			"image_url": "https://cdn.campus.edu/banner.png",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create banner: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := do(t, h, http.MethodPut, "/api/banners/2", map[string]any{"active": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/banners?active=true", nil)
	var active []struct {
		Identifier int64 `json:"identifier"`
	}
	decode(t, rec, &active)
	if len(active) != 1 || active[0].Identifier != 1 {
		t.Fatalf("active filter failed: %+v", active)
	}

	rec = do(t, h, http.MethodGet, "/api/banners", nil)
	var all []struct {
		Identifier int64 `json:"identifier"`
	}
	decode(t, rec, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 banners, got %d", len(all))
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
