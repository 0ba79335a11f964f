// Package applications manages loan and scholarship applications and their
// review workflow.
package applications

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/alloc"
	"github.com/campuslink/platform/internal/app/domain/application"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/workflow"
	"github.com/campuslink/platform/pkg/logger"
)

// Service manages both application collections. Each keeps its own
// identifier sequence.
type Service struct {
	users        storage.UserStore
	loans        storage.LoanStore
	loanApps     storage.LoanApplicationStore
	scholarships storage.ScholarshipApplicationStore
	notifier     *workflow.Notifier

	loanAllocator        *alloc.Allocator
	scholarshipAllocator *alloc.Allocator
	log                  *logger.Logger
}

// New constructs an applications service. notifier may be nil, in which
// case status changes are persisted without side effects.
func New(users storage.UserStore, loans storage.LoanStore, loanApps storage.LoanApplicationStore, scholarships storage.ScholarshipApplicationStore, notifier *workflow.Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("applications")
	}
	loanSrc := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return loanApps.ListLoanApplicationIdentifiers(ctx)
	})
	scholarshipSrc := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return scholarships.ListScholarshipApplicationIdentifiers(ctx)
	})
	return &Service{
		users:                users,
		loans:                loans,
		loanApps:             loanApps,
		scholarships:         scholarships,
		notifier:             notifier,
		loanAllocator:        alloc.New(loanSrc, log),
		scholarshipAllocator: alloc.New(scholarshipSrc, log),
		log:                  log,
	}
}

// SubmitLoan files a loan application for a user. The contact email is
// taken from the user record; the application starts pending.
func (s *Service) SubmitLoan(ctx context.Context, userIdentifier, loanIdentifier, amount int64, purpose string) (application.LoanApplication, error) {
	if amount <= 0 {
		return application.LoanApplication{}, fmt.Errorf("amount must be positive")
	}

	u, err := s.users.GetUser(ctx, userIdentifier)
	if err != nil {
		return application.LoanApplication{}, fmt.Errorf("user lookup: %w", err)
	}
	l, err := s.loans.GetLoan(ctx, loanIdentifier)
	if err != nil {
		return application.LoanApplication{}, fmt.Errorf("loan lookup: %w", err)
	}
	if !l.Active {
		return application.LoanApplication{}, fmt.Errorf("loan product %d is not open for applications", loanIdentifier)
	}
	if amount > l.MaxAmount {
		return application.LoanApplication{}, fmt.Errorf("amount exceeds loan maximum of %d", l.MaxAmount)
	}

	var created application.LoanApplication
	_, err = s.loanAllocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.loanApps.CreateLoanApplication(ctx, application.LoanApplication{
			Identifier:     identifier,
			UserIdentifier: u.Identifier,
			LoanIdentifier: l.Identifier,
			Amount:         amount,
			Purpose:        strings.TrimSpace(purpose),
			ContactEmail:   u.Email,
			Status:         workflow.StatusPending,
		})
		return err
	})
	if err != nil {
		return application.LoanApplication{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("user_identifier", u.Identifier).
		Info("loan application submitted")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryLoan,
			EntityLabel:    "loan application",
			Identifier:     created.Identifier,
			Status:         created.Status,
			ContactEmail:   created.ContactEmail,
			UserIdentifier: created.UserIdentifier,
		})
	}
	return created, nil
}

// SubmitScholarship files a scholarship application for a user.
func (s *Service) SubmitScholarship(ctx context.Context, userIdentifier int64, scholarship, essay string, gpa float64) (application.ScholarshipApplication, error) {
	scholarship = strings.TrimSpace(scholarship)
	if scholarship == "" {
		return application.ScholarshipApplication{}, fmt.Errorf("scholarship name is required")
	}
	if gpa < 0 || gpa > 5 {
		return application.ScholarshipApplication{}, fmt.Errorf("gpa must be between 0 and 5")
	}

	u, err := s.users.GetUser(ctx, userIdentifier)
	if err != nil {
		return application.ScholarshipApplication{}, fmt.Errorf("user lookup: %w", err)
	}

	var created application.ScholarshipApplication
	_, err = s.scholarshipAllocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.scholarships.CreateScholarshipApplication(ctx, application.ScholarshipApplication{
			Identifier:     identifier,
			UserIdentifier: u.Identifier,
			Scholarship:    scholarship,
			Essay:          essay,
			GPA:            gpa,
			ContactEmail:   u.Email,
			Status:         workflow.StatusPending,
		})
		return err
	})
	if err != nil {
		return application.ScholarshipApplication{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("user_identifier", u.Identifier).
		WithField("scholarship", scholarship).
		Info("scholarship application submitted")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryScholarship,
			EntityLabel:    "scholarship application",
			Identifier:     created.Identifier,
			Status:         created.Status,
			ContactEmail:   created.ContactEmail,
			UserIdentifier: created.UserIdentifier,
		})
	}
	return created, nil
}

// SetLoanStatus applies a review decision to a loan application. The
// transition is persisted first; notification side effects are best-effort
// and never fail the call.
func (s *Service) SetLoanStatus(ctx context.Context, identifier int64, status string) (application.LoanApplication, error) {
	normalized, err := workflow.ApplicationStatuses.Validate(status)
	if err != nil {
		return application.LoanApplication{}, err
	}

	a, err := s.loanApps.UpdateLoanApplicationStatus(ctx, identifier, normalized)
	if err != nil {
		return application.LoanApplication{}, err
	}

	s.log.WithField("identifier", a.Identifier).
		WithField("status", normalized).
		Info("loan application status changed")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryLoan,
			EntityLabel:    "loan application",
			Identifier:     a.Identifier,
			Status:         a.Status,
			ContactEmail:   a.ContactEmail,
			UserIdentifier: a.UserIdentifier,
		})
	}
	return a, nil
}

// SetScholarshipStatus applies a review decision to a scholarship
// application.
func (s *Service) SetScholarshipStatus(ctx context.Context, identifier int64, status string) (application.ScholarshipApplication, error) {
	normalized, err := workflow.ApplicationStatuses.Validate(status)
	if err != nil {
		return application.ScholarshipApplication{}, err
	}

	a, err := s.scholarships.UpdateScholarshipApplicationStatus(ctx, identifier, normalized)
	if err != nil {
		return application.ScholarshipApplication{}, err
	}

	s.log.WithField("identifier", a.Identifier).
		WithField("status", normalized).
		Info("scholarship application status changed")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryScholarship,
			EntityLabel:    "scholarship application",
			Identifier:     a.Identifier,
			Status:         a.Status,
			ContactEmail:   a.ContactEmail,
			UserIdentifier: a.UserIdentifier,
		})
	}
	return a, nil
}

// GetLoan retrieves a loan application by identifier.
func (s *Service) GetLoan(ctx context.Context, identifier int64) (application.LoanApplication, error) {
	return s.loanApps.GetLoanApplication(ctx, identifier)
}

// ListLoan returns loan applications, optionally filtered by user.
func (s *Service) ListLoan(ctx context.Context, userIdentifier int64) ([]application.LoanApplication, error) {
	return s.loanApps.ListLoanApplications(ctx, userIdentifier)
}

// DeleteLoan withdraws a loan application, freeing its identifier.
func (s *Service) DeleteLoan(ctx context.Context, identifier int64) error {
	if err := s.loanApps.DeleteLoanApplication(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("loan application deleted")
	return nil
}

// GetScholarship retrieves a scholarship application by identifier.
func (s *Service) GetScholarship(ctx context.Context, identifier int64) (application.ScholarshipApplication, error) {
	return s.scholarships.GetScholarshipApplication(ctx, identifier)
}

// ListScholarship returns scholarship applications, optionally filtered by
// user.
func (s *Service) ListScholarship(ctx context.Context, userIdentifier int64) ([]application.ScholarshipApplication, error) {
	return s.scholarships.ListScholarshipApplications(ctx, userIdentifier)
}

// DeleteScholarship withdraws a scholarship application, freeing its
// identifier.
func (s *Service) DeleteScholarship(ctx context.Context, identifier int64) error {
	if err := s.scholarships.DeleteScholarshipApplication(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("scholarship application deleted")
	return nil
}
