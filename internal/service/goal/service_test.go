package goal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/goal"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/memory"
)

func newService(t *testing.T) (goal.Service, uuid.UUID) {
	t.Helper()
	store := memory.New()
	return goal.New(store, store), uuid.New()
}

func validGoal(userID uuid.UUID) finance.SpendingGoal {
	return finance.SpendingGoal{
		UserID:      userID,
		Title:       "Groceries cap",
		GoalType:    finance.GoalTypeSpending,
		Category:    "groceries",
		Currency:    "USD",
		TargetMinor: 50_000,
		Period:      finance.GoalPeriodMonthly,
	}
}

func TestCreate_DerivesEndDateFromPeriod(t *testing.T) {
	svc, userID := newService(t)
	g, err := svc.Create(context.Background(), validGoal(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
	if g.CurrentMinor != 0 || g.Status != finance.GoalStatusActive {
		t.Fatalf("expected fresh progress, got %d %s", g.CurrentMinor, g.Status)
	}
	want := g.StartDate.AddDate(0, 1, 0)
	if !g.EndDate.Equal(want) {
		t.Fatalf("expected end date %v, got %v", want, g.EndDate)
	}
}

func TestValidateCreate(t *testing.T) {
	svc, userID := newService(t)

	g := validGoal(userID)
	g.Title = "   "
	if err := svc.ValidateCreate(g); err == nil {
		t.Fatal("expected error for blank title")
	}

	g = validGoal(userID)
	g.TargetMinor = 0
	if err := svc.ValidateCreate(g); err == nil {
		t.Fatal("expected error for zero target")
	}

	g = validGoal(userID)
	g.Currency = "NOPE"
	if err := svc.ValidateCreate(g); err == nil {
		t.Fatal("expected error for unknown currency")
	}

	// Saving goals need an explicit window
	g = validGoal(userID)
	g.GoalType = finance.GoalTypeSaving
	if err := svc.ValidateCreate(g); err == nil {
		t.Fatal("expected error for saving goal without dates")
	}
	now := time.Now().UTC()
	g.StartDate = now
	g.EndDate = now.AddDate(0, 3, 0)
	if err := svc.ValidateCreate(g); err != nil {
		t.Fatalf("expected valid saving goal, got %v", err)
	}
}

func TestApplyTransaction_ExpenseOvershootCompletes(t *testing.T) {
	svc, userID := newService(t)
	g := validGoal(userID)
	g.TargetMinor = 500
	created, err := svc.Create(context.Background(), g)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ApplyTransaction(context.Background(), userID, created.ID, 600, finance.TransactionExpense)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.CurrentMinor != 600 {
		t.Fatalf("expected current 600, got %d", got.CurrentMinor)
	}
	if got.Status != finance.GoalStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	// Income walks the amount back but never reopens the goal
	got, err = svc.ApplyTransaction(context.Background(), userID, created.ID, 10_000, finance.TransactionIncome)
	if err != nil {
		t.Fatalf("apply income: %v", err)
	}
	if got.CurrentMinor != 0 || got.Status != finance.GoalStatusCompleted {
		t.Fatalf("expected floor 0 and completed, got %d %s", got.CurrentMinor, got.Status)
	}
}

func TestSetProgress(t *testing.T) {
	svc, userID := newService(t)
	created, err := svc.Create(context.Background(), validGoal(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.SetProgress(context.Background(), userID, created.ID, created.TargetMinor)
	if err != nil {
		t.Fatalf("set progress: %v", err)
	}
	if got.Status != finance.GoalStatusCompleted {
		t.Fatalf("expected completed at target, got %s", got.Status)
	}

	if _, err := svc.SetProgress(context.Background(), userID, created.ID, -10); !errors.Is(err, errs.ErrUnprocessable) {
		t.Fatalf("negative progress: expected validation error, got %v", err)
	}
	zero := int64(0)
	if _, err := svc.Update(context.Background(), userID, created.ID, finance.GoalPatch{TargetMinor: &zero}); !errors.Is(err, errs.ErrUnprocessable) {
		t.Fatalf("zero target patch: expected validation error, got %v", err)
	}
}

func TestUpdate_PatchKeepsProgress(t *testing.T) {
	svc, userID := newService(t)
	created, err := svc.Create(context.Background(), validGoal(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetProgress(context.Background(), userID, created.ID, 20_000); err != nil {
		t.Fatalf("set progress: %v", err)
	}

	title := "Tighter groceries cap"
	target := int64(15_000)
	got, err := svc.Update(context.Background(), userID, created.ID, finance.GoalPatch{Title: &title, TargetMinor: &target})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title {
		t.Fatalf("expected patched title, got %q", got.Title)
	}
	if got.CurrentMinor != 20_000 {
		t.Fatalf("progress must survive the patch, got %d", got.CurrentMinor)
	}
	// Lowering the target below the accrued amount latches completion
	if got.Status != finance.GoalStatusCompleted {
		t.Fatalf("expected completed after target drop, got %s", got.Status)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, userID := newService(t)
	_, err := svc.Get(context.Background(), userID, uuid.New())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgress_Derivation(t *testing.T) {
	svc, userID := newService(t)
	created, err := svc.Create(context.Background(), validGoal(userID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetProgress(context.Background(), userID, created.ID, 25_000); err != nil {
		t.Fatalf("set progress: %v", err)
	}
	_, p, err := svc.Progress(context.Background(), userID, created.ID, created.StartDate.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.ProgressPct != 50 {
		t.Fatalf("expected 50%%, got %v", p.ProgressPct)
	}
	if !p.OnTrack {
		t.Fatal("expected on track ahead of pace")
	}
}
