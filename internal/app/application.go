// Package app wires stores, services, and the notification workflow into
// one application object.
package app

import (
	"time"

	"github.com/campuslink/platform/internal/app/mailer"
	"github.com/campuslink/platform/internal/app/services/applications"
	"github.com/campuslink/platform/internal/app/services/banners"
	"github.com/campuslink/platform/internal/app/services/loans"
	"github.com/campuslink/platform/internal/app/services/notifications"
	"github.com/campuslink/platform/internal/app/services/shop"
	"github.com/campuslink/platform/internal/app/services/users"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/storage/memory"
	"github.com/campuslink/platform/internal/app/workflow"
	"github.com/campuslink/platform/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to a
// shared in-memory implementation.
type Stores struct {
	Users                   storage.UserStore
	Loans                   storage.LoanStore
	LoanApplications        storage.LoanApplicationStore
	ScholarshipApplications storage.ScholarshipApplicationStore
	Products                storage.ProductStore
	Orders                  storage.OrderStore
	Banners                 storage.BannerStore
	Notifications           storage.NotificationStore
}

// Options carries cross-cutting dependencies for New.
type Options struct {
	// Mailer delivers status emails. Nil falls back to the log mailer.
	Mailer mailer.Mailer
	// AuthSecret signs login tokens.
	AuthSecret string
	// TokenTTL bounds login token validity. Zero uses the service default.
	TokenTTL time.Duration
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Users         *users.Service
	Loans         *loans.Service
	Applications  *applications.Service
	Shop          *shop.Service
	Banners       *banners.Service
	Notifications *notifications.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Loans == nil {
		stores.Loans = mem
	}
	if stores.LoanApplications == nil {
		stores.LoanApplications = mem
	}
	if stores.ScholarshipApplications == nil {
		stores.ScholarshipApplications = mem
	}
	if stores.Products == nil {
		stores.Products = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}
	if stores.Banners == nil {
		stores.Banners = mem
	}
	if stores.Notifications == nil {
		stores.Notifications = mem
	}

	mail := opts.Mailer
	if mail == nil {
		mail = mailer.NewLog(log)
	}
	notifier := workflow.NewNotifier(mail, stores.Notifications, log)

	return &Application{
		log:           log,
		Users:         users.New(stores.Users, opts.AuthSecret, opts.TokenTTL, log),
		Loans:         loans.New(stores.Loans, log),
		Applications:  applications.New(stores.Users, stores.Loans, stores.LoanApplications, stores.ScholarshipApplications, notifier, log),
		Shop:          shop.New(stores.Products, stores.Orders, stores.Users, notifier, log),
		Banners:       banners.New(stores.Banners, log),
		Notifications: notifications.New(stores.Notifications, log),
	}
}
