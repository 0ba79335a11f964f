// Package notifications exposes the persisted notification feed.
package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// Service reads and updates notification records. Workflow records are
// written by the status notifier; this service only adds manual
// announcements.
type Service struct {
	store storage.NotificationStore
	log   *logger.Logger
}

// New constructs a notifications service.
func New(store storage.NotificationStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("notifications")
	}
	return &Service{store: store, log: log}
}

// Announce creates a manual notification, defaulting to the system
// category.
func (s *Service) Announce(ctx context.Context, category notification.Category, message string, userIdentifier int64, recipientEmail string) (notification.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return notification.Notification{}, fmt.Errorf("message is required")
	}
	if category == "" {
		category = notification.CategorySystem
	}

	n, err := s.store.CreateNotification(ctx, notification.Notification{
		Category:       category,
		Message:        message,
		UserIdentifier: userIdentifier,
		RecipientEmail: strings.TrimSpace(recipientEmail),
	})
	if err != nil {
		return notification.Notification{}, err
	}
	s.log.WithField("id", n.ID).WithField("category", n.Category).Info("announcement created")
	return n, nil
}

// List returns notification records matching f, newest last.
func (s *Service) List(ctx context.Context, f notification.Filter) ([]notification.Notification, error) {
	return s.store.ListNotifications(ctx, f)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) (notification.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		return notification.Notification{}, err
	}
	s.log.WithField("id", id).Info("notification marked read")
	return n, nil
}
