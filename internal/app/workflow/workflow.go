// Package workflow validates entity status transitions and fires their
// notification side effects.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/mailer"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// ErrInvalidStatus reports a transition target outside the entity's status
// set. The stored status is left unchanged.
var ErrInvalidStatus = errors.New("invalid status")

// Workflow statuses. Applications use the review set, shop orders the
// fulfilment set.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// StatusSet is the fixed set of statuses an entity may hold. Membership is
// the only rule: transitions between members are unrestricted in either
// direction.
type StatusSet struct {
	members []string
}

// NewStatusSet builds a status set from its members.
func NewStatusSet(members ...string) StatusSet {
	return StatusSet{members: members}
}

// ApplicationStatuses is the review workflow shared by loan and scholarship
// applications.
var ApplicationStatuses = NewStatusSet(StatusPending, StatusApproved, StatusRejected)

// OrderStatuses is the shop order fulfilment workflow.
var OrderStatuses = NewStatusSet(StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled)

// Valid reports whether s is a member of the set.
func (ss StatusSet) Valid(s string) bool {
	for _, m := range ss.members {
		if m == s {
			return true
		}
	}
	return false
}

// Validate normalises s (trimmed, lower-cased) and returns it, or
// ErrInvalidStatus naming the allowed members.
func (ss StatusSet) Validate(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if !ss.Valid(normalized) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidStatus, s, strings.Join(ss.members, ", "))
	}
	return normalized, nil
}

// Members returns the set's members in declaration order.
func (ss StatusSet) Members() []string {
	return append([]string(nil), ss.members...)
}

// Event describes a committed status change to be announced.
type Event struct {
	Category       notification.Category
	EntityLabel    string // human label, e.g. "loan application"
	Identifier     int64
	Status         string
	ContactEmail   string
	UserIdentifier int64
}

// Subject and body templates keyed by target status.
var statusMessages = map[string]string{
	StatusPending:   "Your %s #%d has been received and is awaiting review.",
	StatusApproved:  "Good news! Your %s #%d has been approved.",
	StatusRejected:  "Unfortunately your %s #%d has been rejected. Contact student services for details.",
	StatusConfirmed: "Your %s #%d has been confirmed and is being prepared.",
	StatusShipped:   "Your %s #%d has shipped.",
	StatusDelivered: "Your %s #%d has been delivered. Enjoy!",
	StatusCancelled: "Your %s #%d has been cancelled.",
}

// Notifier announces status changes via email and a persisted notification
// record. Both effects are best-effort: failures are logged and never
// propagated, so a committed transition always reports success.
type Notifier struct {
	mail  mailer.Mailer
	store storage.NotificationStore
	log   *logger.Logger
}

// NewNotifier constructs a notifier.
func NewNotifier(mail mailer.Mailer, store storage.NotificationStore, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewDefault("workflow")
	}
	return &Notifier{mail: mail, store: store, log: log}
}

// StatusChanged sends the status-specific message for ev. It never returns
// an error; the transition that produced ev is already committed.
func (n *Notifier) StatusChanged(ctx context.Context, ev Event) {
	message := composeMessage(ev)
	subject := fmt.Sprintf("Update on your %s", ev.EntityLabel)

	if n.mail != nil && ev.ContactEmail != "" {
		if err := n.mail.Send(ctx, ev.ContactEmail, subject, message); err != nil {
			level := n.log.WithError(err).
				WithField("category", ev.Category).
				WithField("identifier", ev.Identifier)
			if errors.Is(err, mailer.ErrRateLimited) {
				level.Warn("status email rate limited, dropped")
			} else {
				level.Warn("status email delivery failed")
			}
		}
	}

	if n.store != nil {
		rec := notification.Notification{
			Category:       ev.Category,
			Message:        message,
			UserIdentifier: ev.UserIdentifier,
			RecipientEmail: ev.ContactEmail,
			Payload: map[string]any{
				"identifier": ev.Identifier,
				"status":     ev.Status,
			},
		}
		if _, err := n.store.CreateNotification(ctx, rec); err != nil {
			n.log.WithError(err).
				WithField("category", ev.Category).
				WithField("identifier", ev.Identifier).
				Warn("notification record not persisted")
		}
	}
}

func composeMessage(ev Event) string {
	tmpl, ok := statusMessages[ev.Status]
	if !ok {
		tmpl = "Your %s #%d status changed."
	}
	return fmt.Sprintf(tmpl, ev.EntityLabel, ev.Identifier)
}
