package notification

import "time"

// Category groups notifications by the workflow that produced them.
type Category string

const (
	CategoryLoan        Category = "loan"
	CategoryScholarship Category = "scholarship"
	CategoryOrder       Category = "order"
	CategorySystem      Category = "system"
)

// Notification is a persisted message visible to a user. Notifications are
// keyed by their record ID only; they are not allocator-managed.
type Notification struct {
	ID             string         `json:"id"`
	Category       Category       `json:"category"`
	Message        string         `json:"message"`
	UserIdentifier int64          `json:"user_identifier,omitempty"`
	RecipientEmail string         `json:"recipient_email,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
	Read           bool           `json:"read"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Filter narrows notification listings. Zero values match everything.
type Filter struct {
	Category       Category
	UserIdentifier int64
	RecipientEmail string
	UnreadOnly     bool
}
