package order

import "time"

// Item is a single order line referencing a product by identifier.
type Item struct {
	ProductIdentifier int64 `json:"product_identifier"`
	Quantity          int   `json:"quantity"`
	UnitPriceCents    int64 `json:"unit_price_cents"`
}

// Order is a shop purchase owned by a user. Status moves through the order
// workflow; no ordering between statuses is enforced.
type Order struct {
	ID              string    `json:"id"`
	Identifier      int64     `json:"identifier"`
	UserIdentifier  int64     `json:"user_identifier"`
	Items           []Item    `json:"items"`
	TotalCents      int64     `json:"total_cents"`
	ContactEmail    string    `json:"contact_email"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
