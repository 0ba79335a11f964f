// Package storage defines the persistence interfaces for the platform's
// collections. Implementations live in the memory and postgres
// subpackages.
package storage

import (
	"context"

	"github.com/campuslink/platform/internal/app/domain/application"
	"github.com/campuslink/platform/internal/app/domain/banner"
	"github.com/campuslink/platform/internal/app/domain/loan"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/order"
	"github.com/campuslink/platform/internal/app/domain/product"
	"github.com/campuslink/platform/internal/app/domain/user"
)

// UserStore persists platform accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, identifier int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	ListUserIdentifiers(ctx context.Context) ([]int64, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	DeleteUser(ctx context.Context, identifier int64) error
}

// LoanStore persists loan products.
type LoanStore interface {
	CreateLoan(ctx context.Context, l loan.Loan) (loan.Loan, error)
	GetLoan(ctx context.Context, identifier int64) (loan.Loan, error)
	ListLoans(ctx context.Context) ([]loan.Loan, error)
	ListLoanIdentifiers(ctx context.Context) ([]int64, error)
	UpdateLoan(ctx context.Context, l loan.Loan) (loan.Loan, error)
	DeleteLoan(ctx context.Context, identifier int64) error
}

// LoanApplicationStore persists loan applications.
type LoanApplicationStore interface {
	CreateLoanApplication(ctx context.Context, a application.LoanApplication) (application.LoanApplication, error)
	GetLoanApplication(ctx context.Context, identifier int64) (application.LoanApplication, error)
	ListLoanApplications(ctx context.Context, userIdentifier int64) ([]application.LoanApplication, error)
	ListLoanApplicationIdentifiers(ctx context.Context) ([]int64, error)
	UpdateLoanApplicationStatus(ctx context.Context, identifier int64, status string) (application.LoanApplication, error)
	DeleteLoanApplication(ctx context.Context, identifier int64) error
}

// ScholarshipApplicationStore persists scholarship applications.
type ScholarshipApplicationStore interface {
	CreateScholarshipApplication(ctx context.Context, a application.ScholarshipApplication) (application.ScholarshipApplication, error)
	GetScholarshipApplication(ctx context.Context, identifier int64) (application.ScholarshipApplication, error)
	ListScholarshipApplications(ctx context.Context, userIdentifier int64) ([]application.ScholarshipApplication, error)
	ListScholarshipApplicationIdentifiers(ctx context.Context) ([]int64, error)
	UpdateScholarshipApplicationStatus(ctx context.Context, identifier int64, status string) (application.ScholarshipApplication, error)
	DeleteScholarshipApplication(ctx context.Context, identifier int64) error
}

// ProductStore persists shop products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	GetProduct(ctx context.Context, identifier int64) (product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListProductIdentifiers(ctx context.Context) ([]int64, error)
	UpdateProduct(ctx context.Context, p product.Product) (product.Product, error)
	DeleteProduct(ctx context.Context, identifier int64) error
}

// OrderStore persists shop orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, identifier int64) (order.Order, error)
	ListOrders(ctx context.Context, userIdentifier int64) ([]order.Order, error)
	ListOrderIdentifiers(ctx context.Context) ([]int64, error)
	UpdateOrderStatus(ctx context.Context, identifier int64, status string) (order.Order, error)
	DeleteOrder(ctx context.Context, identifier int64) error
}

// BannerStore persists banners.
type BannerStore interface {
	CreateBanner(ctx context.Context, b banner.Banner) (banner.Banner, error)
	GetBanner(ctx context.Context, identifier int64) (banner.Banner, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]banner.Banner, error)
	ListBannerIdentifiers(ctx context.Context) ([]int64, error)
	UpdateBanner(ctx context.Context, b banner.Banner) (banner.Banner, error)
	DeleteBanner(ctx context.Context, identifier int64) error
}

// NotificationStore persists user-visible notification records.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error)
	ListNotifications(ctx context.Context, f notification.Filter) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (notification.Notification, error)
}
