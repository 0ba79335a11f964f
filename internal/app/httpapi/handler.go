// Package httpapi exposes the application services over REST.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/campuslink/platform/internal/app"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/services/shop"
	"github.com/campuslink/platform/internal/app/services/users"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/workflow"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the core REST API.
func NewHandler(application *app.Application) *mux.Router {
	h := &handler{app: application}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	api.HandleFunc("/users", h.register).Methods(http.MethodPost)
	api.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{identifier:[0-9]+}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{identifier:[0-9]+}", h.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{identifier:[0-9]+}", h.deleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/loans", h.createLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.listLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{identifier:[0-9]+}", h.getLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{identifier:[0-9]+}", h.updateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{identifier:[0-9]+}", h.deleteLoan).Methods(http.MethodDelete)

	api.HandleFunc("/loan-applications", h.submitLoanApplication).Methods(http.MethodPost)
	api.HandleFunc("/loan-applications", h.listLoanApplications).Methods(http.MethodGet)
	api.HandleFunc("/loan-applications/{identifier:[0-9]+}", h.getLoanApplication).Methods(http.MethodGet)
	api.HandleFunc("/loan-applications/{identifier:[0-9]+}/status", h.setLoanApplicationStatus).Methods(http.MethodPatch)
	api.HandleFunc("/loan-applications/{identifier:[0-9]+}", h.deleteLoanApplication).Methods(http.MethodDelete)

	api.HandleFunc("/scholarship-applications", h.submitScholarshipApplication).Methods(http.MethodPost)
	api.HandleFunc("/scholarship-applications", h.listScholarshipApplications).Methods(http.MethodGet)
	api.HandleFunc("/scholarship-applications/{identifier:[0-9]+}", h.getScholarshipApplication).Methods(http.MethodGet)
	api.HandleFunc("/scholarship-applications/{identifier:[0-9]+}/status", h.setScholarshipApplicationStatus).Methods(http.MethodPatch)
	api.HandleFunc("/scholarship-applications/{identifier:[0-9]+}", h.deleteScholarshipApplication).Methods(http.MethodDelete)

	api.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{identifier:[0-9]+}", h.getProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{identifier:[0-9]+}", h.updateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{identifier:[0-9]+}", h.deleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/orders", h.placeOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{identifier:[0-9]+}", h.getOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{identifier:[0-9]+}/status", h.setOrderStatus).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{identifier:[0-9]+}", h.deleteOrder).Methods(http.MethodDelete)

	api.HandleFunc("/banners", h.createBanner).Methods(http.MethodPost)
	api.HandleFunc("/banners", h.listBanners).Methods(http.MethodGet)
	api.HandleFunc("/banners/{identifier:[0-9]+}", h.getBanner).Methods(http.MethodGet)
	api.HandleFunc("/banners/{identifier:[0-9]+}", h.updateBanner).Methods(http.MethodPut)
	api.HandleFunc("/banners/{identifier:[0-9]+}", h.deleteBanner).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", h.createNotification).Methods(http.MethodPost)
	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPatch)

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Auth and users ---------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Users.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.Phone, user.Role(payload.Role))
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, token, err := h.app.Users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Users.List(r.Context())
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.app.Users.Get(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Users.Update(r.Context(), identifier(r), payload.Name, payload.Email, payload.Phone)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Users.Delete(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Loan products ----------------------------------------------------------

func (h *handler) createLoan(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		InterestRate float64 `json:"interest_rate"`
		MaxAmount    int64   `json:"max_amount"`
		TermMonths   int     `json:"term_months"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	l, err := h.app.Loans.Create(r.Context(), payload.Title, payload.Description, payload.InterestRate, payload.MaxAmount, payload.TermMonths)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *handler) listLoans(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Loans.List(r.Context())
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.app.Loans.Get(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handler) updateLoan(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		InterestRate *float64 `json:"interest_rate"`
		MaxAmount    *int64   `json:"max_amount"`
		TermMonths   *int     `json:"term_months"`
		Active       *bool    `json:"active"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	l, err := h.app.Loans.Update(r.Context(), identifier(r), payload.Title, payload.Description, payload.InterestRate, payload.MaxAmount, payload.TermMonths, payload.Active)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handler) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Loans.Delete(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Loan applications ------------------------------------------------------

func (h *handler) submitLoanApplication(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserIdentifier int64  `json:"user_identifier"`
		LoanIdentifier int64  `json:"loan_identifier"`
		Amount         int64  `json:"amount"`
		Purpose        string `json:"purpose"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.app.Applications.SubmitLoan(r.Context(), payload.UserIdentifier, payload.LoanIdentifier, payload.Amount, payload.Purpose)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *handler) listLoanApplications(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Applications.ListLoan(r.Context(), queryInt64(r, "user"))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getLoanApplication(w http.ResponseWriter, r *http.Request) {
	a, err := h.app.Applications.GetLoan(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) setLoanApplicationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.app.Applications.SetLoanStatus(r.Context(), identifier(r), status)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) deleteLoanApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Applications.DeleteLoan(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Scholarship applications -----------------------------------------------

func (h *handler) submitScholarshipApplication(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserIdentifier int64   `json:"user_identifier"`
		Scholarship    string  `json:"scholarship"`
		Essay          string  `json:"essay"`
		GPA            float64 `json:"gpa"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.app.Applications.SubmitScholarship(r.Context(), payload.UserIdentifier, payload.Scholarship, payload.Essay, payload.GPA)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *handler) listScholarshipApplications(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Applications.ListScholarship(r.Context(), queryInt64(r, "user"))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getScholarshipApplication(w http.ResponseWriter, r *http.Request) {
	a, err := h.app.Applications.GetScholarship(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) setScholarshipApplicationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := h.app.Applications.SetScholarshipStatus(r.Context(), identifier(r), status)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) deleteScholarshipApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Applications.DeleteScholarship(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Products ---------------------------------------------------------------

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		PriceCents  int64  `json:"price_cents"`
		Stock       int    `json:"stock"`
		ImageURL    string `json:"image_url"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.app.Shop.CreateProduct(r.Context(), payload.Name, payload.Description, payload.PriceCents, payload.Stock, payload.ImageURL)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Shop.ListProducts(r.Context())
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.app.Shop.GetProduct(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PriceCents  *int64  `json:"price_cents"`
		Stock       *int    `json:"stock"`
		ImageURL    *string `json:"image_url"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.app.Shop.UpdateProduct(r.Context(), identifier(r), payload.Name, payload.Description, payload.PriceCents, payload.Stock, payload.ImageURL)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Shop.DeleteProduct(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders -----------------------------------------------------------------

func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserIdentifier  int64  `json:"user_identifier"`
		ShippingAddress string `json:"shipping_address"`
		Items           []struct {
			ProductIdentifier int64 `json:"product_identifier"`
			Quantity          int   `json:"quantity"`
		} `json:"items"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lines := make([]shop.OrderLine, 0, len(payload.Items))
	for _, it := range payload.Items {
		lines = append(lines, shop.OrderLine{ProductIdentifier: it.ProductIdentifier, Quantity: it.Quantity})
	}

	o, err := h.app.Shop.PlaceOrder(r.Context(), payload.UserIdentifier, lines, payload.ShippingAddress)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Shop.ListOrders(r.Context(), queryInt64(r, "user"))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.app.Shop.GetOrder(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	o, err := h.app.Shop.SetOrderStatus(r.Context(), identifier(r), status)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Shop.DeleteOrder(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Banners ----------------------------------------------------------------

func (h *handler) createBanner(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title    string `json:"title"`
		ImageURL string `json:"image_url"`
		LinkURL  string `json:"link_url"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := h.app.Banners.Create(r.Context(), payload.Title, payload.ImageURL, payload.LinkURL)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *handler) listBanners(w http.ResponseWriter, r *http.Request) {
	activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")
	list, err := h.app.Banners.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getBanner(w http.ResponseWriter, r *http.Request) {
	b, err := h.app.Banners.Get(r.Context(), identifier(r))
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) updateBanner(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title    *string `json:"title"`
		ImageURL *string `json:"image_url"`
		LinkURL  *string `json:"link_url"`
		Active   *bool   `json:"active"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := h.app.Banners.Update(r.Context(), identifier(r), payload.Title, payload.ImageURL, payload.LinkURL, payload.Active)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) deleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Banners.Delete(r.Context(), identifier(r)); err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Notifications ----------------------------------------------------------

func (h *handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Category       string `json:"category"`
		Message        string `json:"message"`
		UserIdentifier int64  `json:"user_identifier"`
		RecipientEmail string `json:"recipient_email"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := h.app.Notifications.Announce(r.Context(), notification.Category(payload.Category), payload.Message, payload.UserIdentifier, payload.RecipientEmail)
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := notification.Filter{
		Category:       notification.Category(q.Get("category")),
		UserIdentifier: queryInt64(r, "user"),
		RecipientEmail: q.Get("recipient"),
		UnreadOnly:     strings.EqualFold(q.Get("unread"), "true"),
	}

	list, err := h.app.Notifications.List(r.Context(), f)
	if err != nil {
		writeError(w, readStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.app.Notifications.MarkRead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, mutationStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// --- Helpers ----------------------------------------------------------------

func identifier(r *http.Request) int64 {
	// The route pattern guarantees digits.
	v, _ := strconv.ParseInt(mux.Vars(r)["identifier"], 10, 64)
	return v
}

func queryInt64(r *http.Request, key string) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decodeStatus(body io.ReadCloser) (string, error) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(body, &payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// mutationStatus maps service errors from writes. Anything not recognised
// is treated as a rejected request rather than a server fault, matching
// how the services surface validation failures.
func mutationStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, workflow.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func readStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
