package banner

import "time"

// Banner is a promotional image shown by the mobile client.
type Banner struct {
	ID         string    `json:"id"`
	Identifier int64     `json:"identifier"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url"`
	LinkURL    string    `json:"link_url,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
