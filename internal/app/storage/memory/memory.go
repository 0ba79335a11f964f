// Package memory provides a thread-safe in-memory implementation of the
// storage interfaces. It is intended for tests and for running the server
// without a database, and enforces the same uniqueness constraints as the
// Postgres store so allocator retries behave identically.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuslink/platform/internal/app/domain/application"
	"github.com/campuslink/platform/internal/app/domain/banner"
	"github.com/campuslink/platform/internal/app/domain/loan"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/order"
	"github.com/campuslink/platform/internal/app/domain/product"
	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
)

// Store keeps every collection in maps keyed by identifier, guarded by a
// single mutex.
type Store struct {
	mu sync.RWMutex

	users         map[int64]user.User
	loans         map[int64]loan.Loan
	loanApps      map[int64]application.LoanApplication
	scholarships  map[int64]application.ScholarshipApplication
	products      map[int64]product.Product
	orders        map[int64]order.Order
	banners       map[int64]banner.Banner
	notifications map[string]notification.Notification
	notifOrder    []string
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.LoanStore = (*Store)(nil)
var _ storage.LoanApplicationStore = (*Store)(nil)
var _ storage.ScholarshipApplicationStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.BannerStore = (*Store)(nil)
var _ storage.NotificationStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[int64]user.User),
		loans:         make(map[int64]loan.Loan),
		loanApps:      make(map[int64]application.LoanApplication),
		scholarships:  make(map[int64]application.ScholarshipApplication),
		products:      make(map[int64]product.Product),
		orders:        make(map[int64]order.Order),
		banners:       make(map[int64]banner.Banner),
		notifications: make(map[string]notification.Notification),
	}
}

func sortedIdentifiers[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Identifier]; exists {
		return user.User{}, storage.ErrDuplicateIdentifier
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, storage.ErrDuplicateEmail
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.Identifier] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, identifier int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[identifier]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for _, id := range sortedIdentifiers(s.users) {
		result = append(result, s.users[id])
	}
	return result, nil
}

func (s *Store) ListUserIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.users), nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.Identifier]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.Identifier && strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, storage.ErrDuplicateEmail
		}
	}

	u.ID = original.ID
	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	s.users[u.Identifier] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, identifier)
	return nil
}

// --- LoanStore --------------------------------------------------------------

func (s *Store) CreateLoan(_ context.Context, l loan.Loan) (loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loans[l.Identifier]; exists {
		return loan.Loan{}, storage.ErrDuplicateIdentifier
	}

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	s.loans[l.Identifier] = l
	return l, nil
}

func (s *Store) GetLoan(_ context.Context, identifier int64) (loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.loans[identifier]
	if !ok {
		return loan.Loan{}, storage.ErrNotFound
	}
	return l, nil
}

func (s *Store) ListLoans(_ context.Context) ([]loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]loan.Loan, 0, len(s.loans))
	for _, id := range sortedIdentifiers(s.loans) {
		result = append(result, s.loans[id])
	}
	return result, nil
}

func (s *Store) ListLoanIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.loans), nil
}

func (s *Store) UpdateLoan(_ context.Context, l loan.Loan) (loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.loans[l.Identifier]
	if !ok {
		return loan.Loan{}, storage.ErrNotFound
	}

	l.ID = original.ID
	l.CreatedAt = original.CreatedAt
	l.UpdatedAt = time.Now().UTC()

	s.loans[l.Identifier] = l
	return l, nil
}

func (s *Store) DeleteLoan(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.loans, identifier)
	return nil
}

// --- LoanApplicationStore ---------------------------------------------------

func (s *Store) CreateLoanApplication(_ context.Context, a application.LoanApplication) (application.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loanApps[a.Identifier]; exists {
		return application.LoanApplication{}, storage.ErrDuplicateIdentifier
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.loanApps[a.Identifier] = a
	return a, nil
}

func (s *Store) GetLoanApplication(_ context.Context, identifier int64) (application.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.loanApps[identifier]
	if !ok {
		return application.LoanApplication{}, storage.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListLoanApplications(_ context.Context, userIdentifier int64) ([]application.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]application.LoanApplication, 0)
	for _, id := range sortedIdentifiers(s.loanApps) {
		a := s.loanApps[id]
		if userIdentifier == 0 || a.UserIdentifier == userIdentifier {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *Store) ListLoanApplicationIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.loanApps), nil
}

func (s *Store) UpdateLoanApplicationStatus(_ context.Context, identifier int64, status string) (application.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.loanApps[identifier]
	if !ok {
		return application.LoanApplication{}, storage.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	s.loanApps[identifier] = a
	return a, nil
}

func (s *Store) DeleteLoanApplication(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loanApps[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.loanApps, identifier)
	return nil
}

// --- ScholarshipApplicationStore --------------------------------------------

func (s *Store) CreateScholarshipApplication(_ context.Context, a application.ScholarshipApplication) (application.ScholarshipApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scholarships[a.Identifier]; exists {
		return application.ScholarshipApplication{}, storage.ErrDuplicateIdentifier
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.scholarships[a.Identifier] = a
	return a, nil
}

func (s *Store) GetScholarshipApplication(_ context.Context, identifier int64) (application.ScholarshipApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.scholarships[identifier]
	if !ok {
		return application.ScholarshipApplication{}, storage.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListScholarshipApplications(_ context.Context, userIdentifier int64) ([]application.ScholarshipApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]application.ScholarshipApplication, 0)
	for _, id := range sortedIdentifiers(s.scholarships) {
		a := s.scholarships[id]
		if userIdentifier == 0 || a.UserIdentifier == userIdentifier {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *Store) ListScholarshipApplicationIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.scholarships), nil
}

func (s *Store) UpdateScholarshipApplicationStatus(_ context.Context, identifier int64, status string) (application.ScholarshipApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.scholarships[identifier]
	if !ok {
		return application.ScholarshipApplication{}, storage.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	s.scholarships[identifier] = a
	return a, nil
}

func (s *Store) DeleteScholarshipApplication(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scholarships[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.scholarships, identifier)
	return nil
}

// --- ProductStore -----------------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.Identifier]; exists {
		return product.Product{}, storage.ErrDuplicateIdentifier
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products[p.Identifier] = p
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, identifier int64) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[identifier]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProducts(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]product.Product, 0, len(s.products))
	for _, id := range sortedIdentifiers(s.products) {
		result = append(result, s.products[id])
	}
	return result, nil
}

func (s *Store) ListProductIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.products), nil
}

func (s *Store) UpdateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.products[p.Identifier]
	if !ok {
		return product.Product{}, storage.ErrNotFound
	}

	p.ID = original.ID
	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.products[p.Identifier] = p
	return p, nil
}

func (s *Store) DeleteProduct(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.products, identifier)
	return nil
}

// --- OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.Identifier]; exists {
		return order.Order{}, storage.ErrDuplicateIdentifier
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Items = append([]order.Item(nil), o.Items...)

	s.orders[o.Identifier] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, identifier int64) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[identifier]
	if !ok {
		return order.Order{}, storage.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context, userIdentifier int64) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]order.Order, 0)
	for _, id := range sortedIdentifiers(s.orders) {
		o := s.orders[id]
		if userIdentifier == 0 || o.UserIdentifier == userIdentifier {
			result = append(result, cloneOrder(o))
		}
	}
	return result, nil
}

func (s *Store) ListOrderIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.orders), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, identifier int64, status string) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[identifier]
	if !ok {
		return order.Order{}, storage.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[identifier] = o
	return cloneOrder(o), nil
}

func (s *Store) DeleteOrder(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.orders, identifier)
	return nil
}

// --- BannerStore ------------------------------------------------------------

func (s *Store) CreateBanner(_ context.Context, b banner.Banner) (banner.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.banners[b.Identifier]; exists {
		return banner.Banner{}, storage.ErrDuplicateIdentifier
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	s.banners[b.Identifier] = b
	return b, nil
}

func (s *Store) GetBanner(_ context.Context, identifier int64) (banner.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.banners[identifier]
	if !ok {
		return banner.Banner{}, storage.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBanners(_ context.Context, activeOnly bool) ([]banner.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]banner.Banner, 0, len(s.banners))
	for _, id := range sortedIdentifiers(s.banners) {
		b := s.banners[id]
		if activeOnly && !b.Active {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (s *Store) ListBannerIdentifiers(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIdentifiers(s.banners), nil
}

func (s *Store) UpdateBanner(_ context.Context, b banner.Banner) (banner.Banner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.banners[b.Identifier]
	if !ok {
		return banner.Banner{}, storage.ErrNotFound
	}

	b.ID = original.ID
	b.CreatedAt = original.CreatedAt
	b.UpdatedAt = time.Now().UTC()

	s.banners[b.Identifier] = b
	return b, nil
}

func (s *Store) DeleteBanner(_ context.Context, identifier int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banners[identifier]; !ok {
		return storage.ErrNotFound
	}
	delete(s.banners, identifier)
	return nil
}

// --- NotificationStore ------------------------------------------------------

func (s *Store) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	n.Payload = copyPayload(n.Payload)

	s.notifications[n.ID] = n
	s.notifOrder = append(s.notifOrder, n.ID)
	return cloneNotification(n), nil
}

func (s *Store) ListNotifications(_ context.Context, f notification.Filter) ([]notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]notification.Notification, 0)
	for _, id := range s.notifOrder {
		n, ok := s.notifications[id]
		if !ok {
			continue
		}
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		if f.UserIdentifier != 0 && n.UserIdentifier != f.UserIdentifier {
			continue
		}
		if f.RecipientEmail != "" && !strings.EqualFold(n.RecipientEmail, f.RecipientEmail) {
			continue
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		result = append(result, cloneNotification(n))
	}
	return result, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) (notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return notification.Notification{}, storage.ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return cloneNotification(n), nil
}

// --- Helpers ----------------------------------------------------------------

func cloneOrder(o order.Order) order.Order {
	o.Items = append([]order.Item(nil), o.Items...)
	return o
}

func cloneNotification(n notification.Notification) notification.Notification {
	n.Payload = copyPayload(n.Payload)
	return n
}

func copyPayload(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
