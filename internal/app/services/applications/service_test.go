package applications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/campuslink/platform/internal/app/domain/loan"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/user"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/storage/memory"
	"github.com/campuslink/platform/internal/app/workflow"
	"github.com/campuslink/platform/pkg/logger"
)

func quiet() *logger.Logger {
	log := logger.NewDefault("applications-test")
	log.SetOutput(io.Discard)
	return log
}

type brokenMailer struct{}

func (brokenMailer) Send(context.Context, string, string, string) error {
	return errors.New("smtp connection refused")
}

// fixture seeds one user and one active loan product and returns a service
// whose notifier records into the same store but whose mailer always fails.
func fixture(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, user.User{
		Identifier: 1,
		Name:       "Student",
		Email:      "student@campus.edu",
		Role:       user.RoleStudent,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := store.CreateLoan(ctx, loan.Loan{
		Identifier: 1,
		Title:      "Tuition Loan",
		MaxAmount:  500000,
		TermMonths: 12,
		Active:     true,
	}); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	notifier := workflow.NewNotifier(brokenMailer{}, store, quiet())
	return New(store, store, store, store, notifier, quiet()), store
}

func TestSubmitLoan_FillsFromUserAndLoan(t *testing.T) {
	svc, _ := fixture(t)
	ctx := context.Background()

	a, err := svc.SubmitLoan(ctx, 1, 1, 100000, "  tuition  ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Identifier != 1 {
		t.Fatalf("expected identifier 1, got %d", a.Identifier)
	}
	if a.Status != workflow.StatusPending {
		t.Fatalf("expected pending, got %q", a.Status)
	}
	if a.ContactEmail != "student@campus.edu" {
		t.Fatalf("contact email not copied from user: %q", a.ContactEmail)
	}
	if a.Purpose != "tuition" {
		t.Fatalf("purpose not trimmed: %q", a.Purpose)
	}
}

func TestSubmitLoan_Rejections(t *testing.T) {
	svc, store := fixture(t)
	ctx := context.Background()

	if _, err := svc.SubmitLoan(ctx, 99, 1, 1000, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SubmitLoan(ctx, 1, 99, 1000, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown loan: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SubmitLoan(ctx, 1, 1, 0, ""); err == nil {
		t.Fatalf("non-positive amount must be rejected")
	}
	if _, err := svc.SubmitLoan(ctx, 1, 1, 500001, ""); err == nil {
		t.Fatalf("amount above loan maximum must be rejected")
	}

	l, _ := store.GetLoan(ctx, 1)
	l.Active = false
	if _, err := store.UpdateLoan(ctx, l); err != nil {
		t.Fatalf("deactivate loan: %v", err)
	}
	if _, err := svc.SubmitLoan(ctx, 1, 1, 1000, ""); err == nil {
		t.Fatalf("inactive loan must be rejected")
	}
}

func TestSetLoanStatus_InvalidLeavesRecordUntouched(t *testing.T) {
	svc, _ := fixture(t)
	ctx := context.Background()

	a, err := svc.SubmitLoan(ctx, 1, 1, 1000, "books")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.SetLoanStatus(ctx, a.Identifier, "shipped"); !errors.Is(err, workflow.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	got, err := svc.GetLoan(ctx, a.Identifier)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != workflow.StatusPending {
		t.Fatalf("rejected transition must not change status, got %q", got.Status)
	}
}

func TestSetLoanStatus_SucceedsDespiteMailFailure(t *testing.T) {
	svc, store := fixture(t)
	ctx := context.Background()

	a, err := svc.SubmitLoan(ctx, 1, 1, 1000, "books")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The fixture mailer always fails; the transition must still commit
	// and the notification record must still be written.
	updated, err := svc.SetLoanStatus(ctx, a.Identifier, "Approved")
	if err != nil {
		t.Fatalf("mail failure must not fail the transition: %v", err)
	}
	if updated.Status != workflow.StatusApproved {
		t.Fatalf("expected approved, got %q", updated.Status)
	}

	recs, err := store.ListNotifications(ctx, notification.Filter{
		Category:       notification.CategoryLoan,
		UserIdentifier: 1,
	})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	// One record from submission, one from the approval.
	if len(recs) != 2 {
		t.Fatalf("expected 2 notification records, got %d", len(recs))
	}
	last := recs[len(recs)-1]
	if last.Payload["status"] != workflow.StatusApproved {
		t.Fatalf("approval record missing status payload: %#v", last.Payload)
	}
}

func TestSubmitScholarship_AndReview(t *testing.T) {
	svc, _ := fixture(t)
	ctx := context.Background()

	a, err := svc.SubmitScholarship(ctx, 1, "Merit Award", "essay text", 3.8)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Identifier != 1 || a.Status != workflow.StatusPending {
		t.Fatalf("unexpected application: %+v", a)
	}

	if _, err := svc.SubmitScholarship(ctx, 1, "", "essay", 3.0); err == nil {
		t.Fatalf("empty scholarship name must be rejected")
	}
	if _, err := svc.SubmitScholarship(ctx, 1, "Merit Award", "essay", 5.5); err == nil {
		t.Fatalf("out-of-range gpa must be rejected")
	}

	updated, err := svc.SetScholarshipStatus(ctx, a.Identifier, workflow.StatusRejected)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != workflow.StatusRejected {
		t.Fatalf("expected rejected, got %q", updated.Status)
	}
}

func TestLoanApplications_IdentifierReuseAfterWithdrawal(t *testing.T) {
	svc, _ := fixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitLoan(ctx, 1, 1, 1000, "books"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if err := svc.DeleteLoan(ctx, 2); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	a, err := svc.SubmitLoan(ctx, 1, 1, 1000, "books")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if a.Identifier != 2 {
		t.Fatalf("expected gap at 2 to be reused, got %d", a.Identifier)
	}
}

func TestListLoan_FiltersByUser(t *testing.T) {
	svc, store := fixture(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, user.User{
		Identifier: 2,
		Name:       "Other",
		Email:      "other@campus.edu",
		Role:       user.RoleStudent,
	}); err != nil {
		t.Fatalf("seed second user: %v", err)
	}

	if _, err := svc.SubmitLoan(ctx, 1, 1, 1000, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitLoan(ctx, 2, 1, 1000, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := svc.ListLoan(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].UserIdentifier != 2 {
		t.Fatalf("filter by user failed: %+v", mine)
	}

	all, err := svc.ListLoan(ctx, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(all))
	}
}
