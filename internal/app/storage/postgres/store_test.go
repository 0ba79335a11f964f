package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateUser_DuplicateIdentifier(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_identifier_key"})

	_, err := store.CreateUser(context.Background(), user.User{Identifier: 3, Email: "a@campus.edu"})
	if !errors.Is(err, storage.ErrDuplicateIdentifier) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := store.CreateUser(context.Background(), user.User{Identifier: 3, Email: "a@campus.edu"})
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE identifier").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetUser(context.Background(), 42)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUser_MapsRow(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "identifier", "name", "email", "password_hash", "role", "phone", "created_at", "updated_at",
	}).AddRow("uuid-1", int64(7), "Student", "a@campus.edu", "hash", "student", "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE identifier").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	u, err := store.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Identifier != 7 || u.Role != user.RoleStudent || u.Email != "a@campus.edu" {
		t.Fatalf("row not mapped: %+v", u)
	}
}

func TestListLoanIdentifiers(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"identifier"}).
		AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(4))
	mock.ExpectQuery("SELECT identifier FROM loans ORDER BY identifier").
		WillReturnRows(rows)

	ids, err := store.ListLoanIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 3 || ids[2] != 4 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM users WHERE identifier").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteUser(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateOrderStatus_DecodesItems(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "identifier", "user_identifier", "items", "total_cents",
		"contact_email", "shipping_address", "status", "created_at", "updated_at",
	}).AddRow("uuid-1", int64(1), int64(2),
		[]byte(`[{"product_identifier":1,"quantity":2,"unit_price_cents":3500}]`),
		int64(7000), "buyer@campus.edu", "", "shipped", now, now)

	mock.ExpectQuery("UPDATE orders SET status").
		WithArgs(int64(1), "shipped").
		WillReturnRows(rows)

	o, err := store.UpdateOrderStatus(context.Background(), 1, "shipped")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if o.Status != "shipped" || len(o.Items) != 1 || o.Items[0].UnitPriceCents != 3500 {
		t.Fatalf("row not mapped: %+v", o)
	}
}
