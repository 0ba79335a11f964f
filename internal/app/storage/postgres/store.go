// Package postgres implements the storage interfaces on PostgreSQL via
// sqlx. Identifier uniqueness is enforced by UNIQUE constraints so the
// allocator's insert-retry loop works across replicas.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campuslink/platform/internal/app/domain/application"
	"github.com/campuslink/platform/internal/app/domain/banner"
	"github.com/campuslink/platform/internal/app/domain/loan"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/order"
	"github.com/campuslink/platform/internal/app/domain/product"
	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
)

// Store implements every storage interface against one database handle.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.LoanStore = (*Store)(nil)
var _ storage.LoanApplicationStore = (*Store)(nil)
var _ storage.ScholarshipApplicationStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.BannerStore = (*Store)(nil)
var _ storage.NotificationStore = (*Store)(nil)

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %v", storage.ErrUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			if constraintMentionsEmail(string(pqErr.Constraint)) {
				return storage.ErrDuplicateEmail
			}
			return storage.ErrDuplicateIdentifier
		}
		return err
	}
	// Anything that is not a server-reported error is a connectivity or
	// timeout fault; callers treat the store as unavailable.
	return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
}

func constraintMentionsEmail(constraint string) bool {
	for i := 0; i+5 <= len(constraint); i++ {
		if constraint[i:i+5] == "email" {
			return true
		}
	}
	return false
}

func listIdentifiers(ctx context.Context, db *sqlx.DB, table string) ([]int64, error) {
	var ids []int64
	query := fmt.Sprintf("SELECT identifier FROM %s ORDER BY identifier", table)
	if err := db.SelectContext(ctx, &ids, query); err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// --- Users ------------------------------------------------------------------

type userRow struct {
	ID           string    `db:"id"`
	Identifier   int64     `db:"identifier"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Identifier:   r.Identifier,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		Phone:        r.Phone,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (identifier, name, email, password_hash, role, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, identifier, name, email, password_hash, role, phone, created_at, updated_at`,
		u.Identifier, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Phone)
	if err != nil {
		return user.User{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUser(ctx context.Context, identifier int64) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, identifier, name, email, password_hash, role, phone, created_at, updated_at
		FROM users WHERE identifier = $1`, identifier)
	if err != nil {
		return user.User{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, identifier, name, email, password_hash, role, phone, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return user.User{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, identifier, name, email, password_hash, role, phone, created_at, updated_at
		FROM users ORDER BY identifier`)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]user.User, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListUserIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "users")
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, phone = $6, updated_at = now()
		WHERE identifier = $1
		RETURNING id, identifier, name, email, password_hash, role, phone, created_at, updated_at`,
		u.Identifier, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Phone)
	if err != nil {
		return user.User{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteUser(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "users", identifier)
}

func (s *Store) deleteByIdentifier(ctx context.Context, table string, identifier int64) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE identifier = $1", table), identifier)
	if err != nil {
		return translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- Loans ------------------------------------------------------------------

type loanRow struct {
	ID           string    `db:"id"`
	Identifier   int64     `db:"identifier"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	InterestRate float64   `db:"interest_rate"`
	MaxAmount    int64     `db:"max_amount"`
	TermMonths   int       `db:"term_months"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r loanRow) toDomain() loan.Loan {
	return loan.Loan{
		ID:           r.ID,
		Identifier:   r.Identifier,
		Title:        r.Title,
		Description:  r.Description,
		InterestRate: r.InterestRate,
		MaxAmount:    r.MaxAmount,
		TermMonths:   r.TermMonths,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (s *Store) CreateLoan(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	var row loanRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO loans (identifier, title, description, interest_rate, max_amount, term_months, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, identifier, title, description, interest_rate, max_amount, term_months, active, created_at, updated_at`,
		l.Identifier, l.Title, l.Description, l.InterestRate, l.MaxAmount, l.TermMonths, l.Active)
	if err != nil {
		return loan.Loan{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetLoan(ctx context.Context, identifier int64) (loan.Loan, error) {
	var row loanRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, identifier, title, description, interest_rate, max_amount, term_months, active, created_at, updated_at
		FROM loans WHERE identifier = $1`, identifier)
	if err != nil {
		return loan.Loan{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListLoans(ctx context.Context) ([]loan.Loan, error) {
	var rows []loanRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, identifier, title, description, interest_rate, max_amount, term_months, active, created_at, updated_at
		FROM loans ORDER BY identifier`)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]loan.Loan, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListLoanIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "loans")
}

func (s *Store) UpdateLoan(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	var row loanRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE loans
		SET title = $2, description = $3, interest_rate = $4, max_amount = $5, term_months = $6, active = $7, updated_at = now()
		WHERE identifier = $1
		RETURNING id, identifier, title, description, interest_rate, max_amount, term_months, active, created_at, updated_at`,
		l.Identifier, l.Title, l.Description, l.InterestRate, l.MaxAmount, l.TermMonths, l.Active)
	if err != nil {
		return loan.Loan{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteLoan(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "loans", identifier)
}

// --- Loan applications ------------------------------------------------------

type loanApplicationRow struct {
	ID             string    `db:"id"`
	Identifier     int64     `db:"identifier"`
	UserIdentifier int64     `db:"user_identifier"`
	LoanIdentifier int64     `db:"loan_identifier"`
	Amount         int64     `db:"amount"`
	Purpose        string    `db:"purpose"`
	ContactEmail   string    `db:"contact_email"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r loanApplicationRow) toDomain() application.LoanApplication {
	return application.LoanApplication{
		ID:             r.ID,
		Identifier:     r.Identifier,
		UserIdentifier: r.UserIdentifier,
		LoanIdentifier: r.LoanIdentifier,
		Amount:         r.Amount,
		Purpose:        r.Purpose,
		ContactEmail:   r.ContactEmail,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const loanApplicationColumns = "id, identifier, user_identifier, loan_identifier, amount, purpose, contact_email, status, created_at, updated_at"

func (s *Store) CreateLoanApplication(ctx context.Context, a application.LoanApplication) (application.LoanApplication, error) {
	var row loanApplicationRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO loan_applications (identifier, user_identifier, loan_identifier, amount, purpose, contact_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+loanApplicationColumns,
		a.Identifier, a.UserIdentifier, a.LoanIdentifier, a.Amount, a.Purpose, a.ContactEmail, a.Status)
	if err != nil {
		return application.LoanApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetLoanApplication(ctx context.Context, identifier int64) (application.LoanApplication, error) {
	var row loanApplicationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+loanApplicationColumns+` FROM loan_applications WHERE identifier = $1`, identifier)
	if err != nil {
		return application.LoanApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListLoanApplications(ctx context.Context, userIdentifier int64) ([]application.LoanApplication, error) {
	var rows []loanApplicationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+loanApplicationColumns+`
		FROM loan_applications
		WHERE $1 = 0 OR user_identifier = $1
		ORDER BY identifier`, userIdentifier)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]application.LoanApplication, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListLoanApplicationIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "loan_applications")
}

func (s *Store) UpdateLoanApplicationStatus(ctx context.Context, identifier int64, status string) (application.LoanApplication, error) {
	var row loanApplicationRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE loan_applications SET status = $2, updated_at = now()
		WHERE identifier = $1
		RETURNING `+loanApplicationColumns, identifier, status)
	if err != nil {
		return application.LoanApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteLoanApplication(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "loan_applications", identifier)
}

// --- Scholarship applications -----------------------------------------------

type scholarshipApplicationRow struct {
	ID             string    `db:"id"`
	Identifier     int64     `db:"identifier"`
	UserIdentifier int64     `db:"user_identifier"`
	Scholarship    string    `db:"scholarship"`
	Essay          string    `db:"essay"`
	GPA            float64   `db:"gpa"`
	ContactEmail   string    `db:"contact_email"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r scholarshipApplicationRow) toDomain() application.ScholarshipApplication {
	return application.ScholarshipApplication{
		ID:             r.ID,
		Identifier:     r.Identifier,
		UserIdentifier: r.UserIdentifier,
		Scholarship:    r.Scholarship,
		Essay:          r.Essay,
		GPA:            r.GPA,
		ContactEmail:   r.ContactEmail,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const scholarshipColumns = "id, identifier, user_identifier, scholarship, essay, gpa, contact_email, status, created_at, updated_at"

func (s *Store) CreateScholarshipApplication(ctx context.Context, a application.ScholarshipApplication) (application.ScholarshipApplication, error) {
	var row scholarshipApplicationRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO scholarship_applications (identifier, user_identifier, scholarship, essay, gpa, contact_email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+scholarshipColumns,
		a.Identifier, a.UserIdentifier, a.Scholarship, a.Essay, a.GPA, a.ContactEmail, a.Status)
	if err != nil {
		return application.ScholarshipApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetScholarshipApplication(ctx context.Context, identifier int64) (application.ScholarshipApplication, error) {
	var row scholarshipApplicationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+scholarshipColumns+` FROM scholarship_applications WHERE identifier = $1`, identifier)
	if err != nil {
		return application.ScholarshipApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListScholarshipApplications(ctx context.Context, userIdentifier int64) ([]application.ScholarshipApplication, error) {
	var rows []scholarshipApplicationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+scholarshipColumns+`
		FROM scholarship_applications
		WHERE $1 = 0 OR user_identifier = $1
		ORDER BY identifier`, userIdentifier)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]application.ScholarshipApplication, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListScholarshipApplicationIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "scholarship_applications")
}

func (s *Store) UpdateScholarshipApplicationStatus(ctx context.Context, identifier int64, status string) (application.ScholarshipApplication, error) {
	var row scholarshipApplicationRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE scholarship_applications SET status = $2, updated_at = now()
		WHERE identifier = $1
		RETURNING `+scholarshipColumns, identifier, status)
	if err != nil {
		return application.ScholarshipApplication{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteScholarshipApplication(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "scholarship_applications", identifier)
}

// --- Products ---------------------------------------------------------------

type productRow struct {
	ID          string    `db:"id"`
	Identifier  int64     `db:"identifier"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	Stock       int       `db:"stock"`
	ImageURL    string    `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) toDomain() product.Product {
	return product.Product{
		ID:          r.ID,
		Identifier:  r.Identifier,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const productColumns = "id, identifier, name, description, price_cents, stock, image_url, created_at, updated_at"

func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO products (identifier, name, description, price_cents, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Identifier, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL)
	if err != nil {
		return product.Product{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetProduct(ctx context.Context, identifier int64) (product.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+productColumns+` FROM products WHERE identifier = $1`, identifier)
	if err != nil {
		return product.Product{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]product.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+productColumns+` FROM products ORDER BY identifier`)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]product.Product, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListProductIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "products")
}

func (s *Store) UpdateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, stock = $5, image_url = $6, updated_at = now()
		WHERE identifier = $1
		RETURNING `+productColumns,
		p.Identifier, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL)
	if err != nil {
		return product.Product{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteProduct(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "products", identifier)
}

// --- Orders -----------------------------------------------------------------

type orderRow struct {
	ID              string    `db:"id"`
	Identifier      int64     `db:"identifier"`
	UserIdentifier  int64     `db:"user_identifier"`
	Items           []byte    `db:"items"`
	TotalCents      int64     `db:"total_cents"`
	ContactEmail    string    `db:"contact_email"`
	ShippingAddress string    `db:"shipping_address"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r orderRow) toDomain() (order.Order, error) {
	var items []order.Item
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &items); err != nil {
			return order.Order{}, fmt.Errorf("decode order items: %w", err)
		}
	}
	return order.Order{
		ID:              r.ID,
		Identifier:      r.Identifier,
		UserIdentifier:  r.UserIdentifier,
		Items:           items,
		TotalCents:      r.TotalCents,
		ContactEmail:    r.ContactEmail,
		ShippingAddress: r.ShippingAddress,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

const orderColumns = "id, identifier, user_identifier, items, total_cents, contact_email, shipping_address, status, created_at, updated_at"

func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return order.Order{}, fmt.Errorf("encode order items: %w", err)
	}

	var row orderRow
	err = s.db.GetContext(ctx, &row, `
		INSERT INTO orders (identifier, user_identifier, items, total_cents, contact_email, shipping_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		o.Identifier, o.UserIdentifier, items, o.TotalCents, o.ContactEmail, o.ShippingAddress, o.Status)
	if err != nil {
		return order.Order{}, translate(err)
	}
	return row.toDomain()
}

func (s *Store) GetOrder(ctx context.Context, identifier int64) (order.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+orderColumns+` FROM orders WHERE identifier = $1`, identifier)
	if err != nil {
		return order.Order{}, translate(err)
	}
	return row.toDomain()
}

func (s *Store) ListOrders(ctx context.Context, userIdentifier int64) ([]order.Order, error) {
	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE $1 = 0 OR user_identifier = $1
		ORDER BY identifier`, userIdentifier)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (s *Store) ListOrderIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "orders")
}

func (s *Store) UpdateOrderStatus(ctx context.Context, identifier int64, status string) (order.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE identifier = $1
		RETURNING `+orderColumns, identifier, status)
	if err != nil {
		return order.Order{}, translate(err)
	}
	return row.toDomain()
}

func (s *Store) DeleteOrder(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "orders", identifier)
}

// --- Banners ----------------------------------------------------------------

type bannerRow struct {
	ID         string    `db:"id"`
	Identifier int64     `db:"identifier"`
	Title      string    `db:"title"`
	ImageURL   string    `db:"image_url"`
	LinkURL    string    `db:"link_url"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r bannerRow) toDomain() banner.Banner {
	return banner.Banner{
		ID:         r.ID,
		Identifier: r.Identifier,
		Title:      r.Title,
		ImageURL:   r.ImageURL,
		LinkURL:    r.LinkURL,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const bannerColumns = "id, identifier, title, image_url, link_url, active, created_at, updated_at"

func (s *Store) CreateBanner(ctx context.Context, b banner.Banner) (banner.Banner, error) {
	var row bannerRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO banners (identifier, title, image_url, link_url, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+bannerColumns,
		b.Identifier, b.Title, b.ImageURL, b.LinkURL, b.Active)
	if err != nil {
		return banner.Banner{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) GetBanner(ctx context.Context, identifier int64) (banner.Banner, error) {
	var row bannerRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+bannerColumns+` FROM banners WHERE identifier = $1`, identifier)
	if err != nil {
		return banner.Banner{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) ListBanners(ctx context.Context, activeOnly bool) ([]banner.Banner, error) {
	var rows []bannerRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+bannerColumns+`
		FROM banners
		WHERE NOT $1 OR active
		ORDER BY identifier`, activeOnly)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]banner.Banner, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toDomain())
	}
	return result, nil
}

func (s *Store) ListBannerIdentifiers(ctx context.Context) ([]int64, error) {
	return listIdentifiers(ctx, s.db, "banners")
}

func (s *Store) UpdateBanner(ctx context.Context, b banner.Banner) (banner.Banner, error) {
	var row bannerRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE banners
		SET title = $2, image_url = $3, link_url = $4, active = $5, updated_at = now()
		WHERE identifier = $1
		RETURNING `+bannerColumns,
		b.Identifier, b.Title, b.ImageURL, b.LinkURL, b.Active)
	if err != nil {
		return banner.Banner{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteBanner(ctx context.Context, identifier int64) error {
	return s.deleteByIdentifier(ctx, "banners", identifier)
}

// --- Notifications ----------------------------------------------------------

type notificationRow struct {
	ID             string    `db:"id"`
	Category       string    `db:"category"`
	Message        string    `db:"message"`
	UserIdentifier int64     `db:"user_identifier"`
	RecipientEmail string    `db:"recipient_email"`
	Payload        []byte    `db:"payload"`
	Read           bool      `db:"read"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r notificationRow) toDomain() (notification.Notification, error) {
	var payload map[string]any
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return notification.Notification{}, fmt.Errorf("decode notification payload: %w", err)
		}
	}
	return notification.Notification{
		ID:             r.ID,
		Category:       notification.Category(r.Category),
		Message:        r.Message,
		UserIdentifier: r.UserIdentifier,
		RecipientEmail: r.RecipientEmail,
		Payload:        payload,
		Read:           r.Read,
		CreatedAt:      r.CreatedAt,
	}, nil
}

const notificationColumns = `id, category, message, user_identifier, recipient_email, payload, "read", created_at`

func (s *Store) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("encode notification payload: %w", err)
	}

	var row notificationRow
	err = s.db.GetContext(ctx, &row, `
		INSERT INTO notifications (category, message, user_identifier, recipient_email, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		string(n.Category), n.Message, n.UserIdentifier, n.RecipientEmail, payload)
	if err != nil {
		return notification.Notification{}, translate(err)
	}
	return row.toDomain()
}

func (s *Store) ListNotifications(ctx context.Context, f notification.Filter) ([]notification.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = 0 OR user_identifier = $2)
		  AND ($3 = '' OR lower(recipient_email) = lower($3))
		  AND (NOT $4 OR NOT "read")
		ORDER BY created_at`,
		string(f.Category), f.UserIdentifier, f.RecipientEmail, f.UnreadOnly)
	if err != nil {
		return nil, translate(err)
	}
	result := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		n, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (notification.Notification, error) {
	var row notificationRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE notifications SET "read" = TRUE
		WHERE id = $1
		RETURNING `+notificationColumns, id)
	if err != nil {
		return notification.Notification{}, translate(err)
	}
	return row.toDomain()
}
