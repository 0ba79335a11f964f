// Package users manages platform accounts: registration, credentials, and
// profile maintenance.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/platform/internal/app/alloc"
	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// ErrInvalidCredentials reports a failed login. The message is identical
// for unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims is the JWT payload issued at login.
type Claims struct {
	UserIdentifier int64  `json:"user_identifier"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Service manages users.
type Service struct {
	store     storage.UserStore
	allocator *alloc.Allocator
	secret    []byte
	tokenTTL  time.Duration
	log       *logger.Logger
}

// New constructs a user service. secret signs login tokens.
func New(store storage.UserStore, secret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	src := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return store.ListUserIdentifiers(ctx)
	})
	return &Service{
		store:     store,
		allocator: alloc.New(src, log),
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an account with the smallest free identifier.
func (s *Service) Register(ctx context.Context, name, email, password, phone string, role user.Role) (user.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return user.User{}, fmt.Errorf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return user.User{}, fmt.Errorf("password must be at least 8 characters")
	}
	switch role {
	case "":
		role = user.RoleStudent
	case user.RoleStudent, user.RoleAdmin:
	default:
		return user.User{}, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	var created user.User
	_, err = s.allocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		created, err = s.store.CreateUser(ctx, user.User{
			Identifier:   identifier,
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			Phone:        strings.TrimSpace(phone),
		})
		return err
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("email", created.Email).
		Info("user registered")
	return created, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, "", ErrInvalidCredentials
		}
		return user.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		UserIdentifier: u.Identifier,
		Email:          u.Email,
		Role:           string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return user.User{}, "", fmt.Errorf("sign token: %w", err)
	}

	s.log.WithField("identifier", u.Identifier).Info("user logged in")
	return u, token, nil
}

// Get retrieves a user by identifier.
func (s *Service) Get(ctx context.Context, identifier int64) (user.User, error) {
	return s.store.GetUser(ctx, identifier)
}

// List returns all users ordered by identifier.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}

// Update edits mutable profile fields. Nil pointers leave fields unchanged.
func (s *Service) Update(ctx context.Context, identifier int64, name, email, phone *string) (user.User, error) {
	u, err := s.store.GetUser(ctx, identifier)
	if err != nil {
		return user.User{}, err
	}

	if name != nil {
		if trimmed := strings.TrimSpace(*name); trimmed != "" {
			u.Name = trimmed
		} else {
			return user.User{}, fmt.Errorf("name cannot be empty")
		}
	}
	if email != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*email))
		if trimmed == "" || !strings.Contains(trimmed, "@") {
			return user.User{}, fmt.Errorf("a valid email is required")
		}
		u.Email = trimmed
	}
	if phone != nil {
		u.Phone = strings.TrimSpace(*phone)
	}

	u, err = s.store.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("identifier", u.Identifier).Info("user updated")
	return u, nil
}

// Delete removes a user, freeing its identifier for reuse.
func (s *Service) Delete(ctx context.Context, identifier int64) error {
	if err := s.store.DeleteUser(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("user deleted")
	return nil
}
