package product

import "time"

// Product is an item sold through the campus shop. Prices are stored in
// cents to avoid floating point drift.
type Product struct {
	ID          string    `json:"id"`
	Identifier  int64     `json:"identifier"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
