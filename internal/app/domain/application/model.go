// Package application holds the loan and scholarship application models.
// Both share the same three-state review workflow but live in separate
// collections with independent identifier sequences.
package application

import "time"

// LoanApplication is a student's request for a loan product.
type LoanApplication struct {
	ID             string    `json:"id"`
	Identifier     int64     `json:"identifier"`
	UserIdentifier int64     `json:"user_identifier"`
	LoanIdentifier int64     `json:"loan_identifier"`
	Amount         int64     `json:"amount"`
	Purpose        string    `json:"purpose,omitempty"`
	ContactEmail   string    `json:"contact_email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScholarshipApplication is a student's request for a named scholarship.
type ScholarshipApplication struct {
	ID             string    `json:"id"`
	Identifier     int64     `json:"identifier"`
	UserIdentifier int64     `json:"user_identifier"`
	Scholarship    string    `json:"scholarship"`
	Essay          string    `json:"essay,omitempty"`
	GPA            float64   `json:"gpa"`
	ContactEmail   string    `json:"contact_email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
