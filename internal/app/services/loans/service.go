// Package loans manages the catalog of loan products.
package loans

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/alloc"
	"github.com/campuslink/platform/internal/app/domain/loan"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// Service manages loan products.
type Service struct {
	store     storage.LoanStore
	allocator *alloc.Allocator
	log       *logger.Logger
}

// New constructs a loan catalog service.
func New(store storage.LoanStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("loans")
	}
	src := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return store.ListLoanIdentifiers(ctx)
	})
	return &Service{
		store:     store,
		allocator: alloc.New(src, log),
		log:       log,
	}
}

// Create registers a loan product under the smallest free identifier.
func (s *Service) Create(ctx context.Context, title, description string, interestRate float64, maxAmount int64, termMonths int) (loan.Loan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return loan.Loan{}, fmt.Errorf("title is required")
	}
	if interestRate < 0 {
		return loan.Loan{}, fmt.Errorf("interest_rate cannot be negative")
	}
	if maxAmount <= 0 {
		return loan.Loan{}, fmt.Errorf("max_amount must be positive")
	}
	if termMonths <= 0 {
		return loan.Loan{}, fmt.Errorf("term_months must be positive")
	}

	var created loan.Loan
	_, err := s.allocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.store.CreateLoan(ctx, loan.Loan{
			Identifier:   identifier,
			Title:        title,
			Description:  strings.TrimSpace(description),
			InterestRate: interestRate,
			MaxAmount:    maxAmount,
			TermMonths:   termMonths,
			Active:       true,
		})
		return err
	})
	if err != nil {
		return loan.Loan{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("title", created.Title).
		Info("loan product created")
	return created, nil
}

// Get retrieves a loan product by identifier.
func (s *Service) Get(ctx context.Context, identifier int64) (loan.Loan, error) {
	return s.store.GetLoan(ctx, identifier)
}

// List returns all loan products ordered by identifier.
func (s *Service) List(ctx context.Context) ([]loan.Loan, error) {
	return s.store.ListLoans(ctx)
}

// Update edits mutable fields. Nil pointers leave fields unchanged.
func (s *Service) Update(ctx context.Context, identifier int64, title, description *string, interestRate *float64, maxAmount *int64, termMonths *int, active *bool) (loan.Loan, error) {
	l, err := s.store.GetLoan(ctx, identifier)
	if err != nil {
		return loan.Loan{}, err
	}

	if title != nil {
		if trimmed := strings.TrimSpace(*title); trimmed != "" {
			l.Title = trimmed
		} else {
			return loan.Loan{}, fmt.Errorf("title cannot be empty")
		}
	}
	if description != nil {
		l.Description = strings.TrimSpace(*description)
	}
	if interestRate != nil {
		if *interestRate < 0 {
			return loan.Loan{}, fmt.Errorf("interest_rate cannot be negative")
		}
		l.InterestRate = *interestRate
	}
	if maxAmount != nil {
		if *maxAmount <= 0 {
			return loan.Loan{}, fmt.Errorf("max_amount must be positive")
		}
		l.MaxAmount = *maxAmount
	}
	if termMonths != nil {
		if *termMonths <= 0 {
			return loan.Loan{}, fmt.Errorf("term_months must be positive")
		}
		l.TermMonths = *termMonths
	}
	if active != nil {
		l.Active = *active
	}

	l, err = s.store.UpdateLoan(ctx, l)
	if err != nil {
		return loan.Loan{}, err
	}
	s.log.WithField("identifier", l.Identifier).Info("loan product updated")
	return l, nil
}

// Delete removes a loan product, freeing its identifier for reuse.
func (s *Service) Delete(ctx context.Context, identifier int64) error {
	if err := s.store.DeleteLoan(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("loan product deleted")
	return nil
}
