package users

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/storage/memory"
	"github.com/campuslink/platform/pkg/logger"
)

func quiet() *logger.Logger {
	log := logger.NewDefault("users-test")
	log.SetOutput(io.Discard)
	return log
}

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, "test-secret", time.Hour, quiet()), store
}

func TestRegister_AssignsSequentialIdentifiers(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i, email := range []string{"a@campus.edu", "b@campus.edu", "c@campus.edu"} {
		u, err := svc.Register(ctx, "Student", email, "password123", "", user.RoleStudent)
		if err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
		if u.Identifier != int64(i+1) {
			t.Fatalf("expected identifier %d, got %d", i+1, u.Identifier)
		}
		if u.ID == "" {
			t.Fatalf("expected a generated id")
		}
	}
}

func TestRegister_ReusesFreedIdentifier(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, email := range []string{"a@campus.edu", "b@campus.edu", "c@campus.edu"} {
		if _, err := svc.Register(ctx, "Student", email, "password123", "", ""); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	if err := svc.Delete(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	u, err := svc.Register(ctx, "Student", "d@campus.edu", "password123", "", "")
	if err != nil {
		t.Fatalf("register after delete: %v", err)
	}
	if u.Identifier != 2 {
		t.Fatalf("expected the gap at 2 to be reused, got %d", u.Identifier)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name, userName, email, password string
		role                            user.Role
	}{
		{"missing name", "", "a@campus.edu", "password123", ""},
		{"bad email", "Student", "not-an-email", "password123", ""},
		{"short password", "Student", "a@campus.edu", "short", ""},
		{"unknown role", "Student", "a@campus.edu", "password123", "superuser"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.userName, tc.email, tc.password, "", tc.role); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Student", "a@campus.edu", "password123", "", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, "Other", "A@Campus.edu", "password123", "", "")
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Student", "a@campus.edu", "password123", "", user.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, token, err := svc.Login(ctx, "a@campus.edu", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Identifier != 1 {
		t.Fatalf("unexpected identifier %d", u.Identifier)
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.UserIdentifier != 1 || claims.Role != string(user.RoleAdmin) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Student", "a@campus.edu", "password123", "", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@campus.edu", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@campus.edu", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Student", "a@campus.edu", "password123", "123", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	phone := "555-0100"
	u, err := svc.Update(ctx, 1, nil, nil, &phone)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Phone != "555-0100" || u.Name != "Student" || u.Email != "a@campus.edu" {
		t.Fatalf("partial update touched other fields: %+v", u)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
