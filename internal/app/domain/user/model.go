package user

import "time"

// Role selects the authorization level of a platform account.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is a platform account. ID is the store-native record key; Identifier
// is the dense integer assigned by the allocator and used in API paths.
type User struct {
	ID           string    `json:"id"`
	Identifier   int64     `json:"identifier"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
