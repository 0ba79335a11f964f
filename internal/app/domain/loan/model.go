package loan

import "time"

// Loan is a loan product offered on the platform.
type Loan struct {
	ID           string    `json:"id"`
	Identifier   int64     `json:"identifier"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	InterestRate float64   `json:"interest_rate"`
	MaxAmount    int64     `json:"max_amount"`
	TermMonths   int       `json:"term_months"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
