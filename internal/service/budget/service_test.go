package budget_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/budget"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/memory"
)

func newService(t *testing.T) (budget.Service, uuid.UUID) {
	t.Helper()
	store := memory.New()
	return budget.New(store, store), uuid.New()
}

func validBudget(userID uuid.UUID) finance.Budget {
	return finance.Budget{
		UserID:         userID,
		Category:       "groceries",
		Currency:       "USD",
		AllocatedMinor: 1_000,
		Period:         finance.BudgetPeriodMonthly,
	}
}

func TestCreateBudget_InitialState(t *testing.T) {
	svc, userID := newService(t)
	b := validBudget(userID)
	b.SpentMinor = 200
	created, err := svc.CreateBudget(context.Background(), b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RemainingMinor != 800 {
		t.Fatalf("expected remaining 800, got %d", created.RemainingMinor)
	}
	if created.Status != finance.BudgetStatusActive {
		t.Fatalf("expected active, got %s", created.Status)
	}
	if created.EndDate.IsZero() {
		t.Fatal("expected derived end date")
	}

	over := validBudget(userID)
	over.SpentMinor = 1_500
	created, err = svc.CreateBudget(context.Background(), over)
	if err != nil {
		t.Fatalf("create over-spent: %v", err)
	}
	if created.RemainingMinor != -500 || created.Status != finance.BudgetStatusExceeded {
		t.Fatalf("expected exceeded with remaining -500, got %d %s", created.RemainingMinor, created.Status)
	}

	neg := validBudget(userID)
	neg.SpentMinor = -1
	if _, err := svc.CreateBudget(context.Background(), neg); !errors.Is(err, errs.ErrUnprocessable) {
		t.Fatalf("expected validation error for negative spend, got %v", err)
	}
}

func TestSetSpending_ExceededAndRecovery(t *testing.T) {
	svc, userID := newService(t)
	b := validBudget(userID)
	b.SpentMinor = 200
	created, err := svc.CreateBudget(context.Background(), b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.SetSpending(context.Background(), userID, created.ID, 1_200)
	if err != nil {
		t.Fatalf("set spending: %v", err)
	}
	if got.RemainingMinor != -200 {
		t.Fatalf("expected remaining -200, got %d", got.RemainingMinor)
	}
	if got.Status != finance.BudgetStatusExceeded {
		t.Fatalf("expected exceeded, got %s", got.Status)
	}

	got, err = svc.SetSpending(context.Background(), userID, created.ID, 900)
	if err != nil {
		t.Fatalf("set spending: %v", err)
	}
	if got.Status != finance.BudgetStatusActive {
		t.Fatalf("expected active after recovery, got %s", got.Status)
	}

	if _, err := svc.SetSpending(context.Background(), userID, created.ID, -1); err == nil {
		t.Fatal("expected error for negative spending")
	}
}

func TestUpdateBudget_AllocationChangeRecomputes(t *testing.T) {
	svc, userID := newService(t)
	created, err := svc.CreateBudget(context.Background(), validBudget(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetSpending(context.Background(), userID, created.ID, 900); err != nil {
		t.Fatalf("set spending: %v", err)
	}

	alloc := int64(500)
	got, err := svc.UpdateBudget(context.Background(), userID, created.ID, finance.BudgetPatch{AllocatedMinor: &alloc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.RemainingMinor != -400 || got.Status != finance.BudgetStatusExceeded {
		t.Fatalf("expected exceeded with remaining -400, got %d %s", got.RemainingMinor, got.Status)
	}
}

func TestLimit_StrictExceededComparison(t *testing.T) {
	svc, userID := newService(t)
	l, err := svc.CreateLimit(context.Background(), finance.SpendingLimit{
		UserID:     userID,
		Category:   "eating_out",
		Currency:   "USD",
		LimitMinor: 10_000,
		Period:     finance.LimitPeriodWeekly,
	})
	if err != nil {
		t.Fatalf("create limit: %v", err)
	}

	got, err := svc.ApplySpending(context.Background(), userID, l.ID, 10_000)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != finance.LimitStatusActive {
		t.Fatalf("spend equal to the cap must stay active, got %s", got.Status)
	}

	got, err = svc.ApplySpending(context.Background(), userID, l.ID, 1)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != finance.LimitStatusExceeded {
		t.Fatalf("expected exceeded one unit over, got %s", got.Status)
	}

	// Refunds floor at zero
	got, err = svc.ApplySpending(context.Background(), userID, l.ID, -50_000)
	if err != nil {
		t.Fatalf("apply refund: %v", err)
	}
	if got.CurrentMinor != 0 || got.Status != finance.LimitStatusActive {
		t.Fatalf("expected floor 0 active, got %d %s", got.CurrentMinor, got.Status)
	}

	if _, err := svc.ApplySpending(context.Background(), userID, l.ID, 0); err == nil {
		t.Fatal("expected error for zero delta")
	}
}

func TestBudget_NotFound(t *testing.T) {
	svc, userID := newService(t)
	if _, err := svc.GetBudget(context.Background(), userID, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteLimit(context.Background(), userID, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
