// Package goal implements the spending/saving goal rules: creation
// validation, sparse updates, progress mutation through the completion
// latch, and the application of linked transactions.
package goal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// Repo defines read operations needed by the service.
type Repo interface {
	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]finance.SpendingGoal, error)
}

// Writer defines write operations needed by the service. Progress writes
// are atomic in the store: the arithmetic and the status latch run inside
// a single update so concurrent postings cannot lose increments.
type Writer interface {
	CreateGoal(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error)
	UpdateGoal(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error
	SetGoalProgress(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64) (finance.SpendingGoal, error)
	ApplyGoalDelta(ctx context.Context, userID, goalID uuid.UUID, deltaMinor int64) (finance.SpendingGoal, error)
}

// Service exposes goal lifecycle and progress operations.
type Service interface {
	ValidateCreate(g finance.SpendingGoal) error
	Create(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error)
	List(ctx context.Context, userID uuid.UUID) ([]finance.SpendingGoal, error)
	Get(ctx context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error)
	Update(ctx context.Context, userID, goalID uuid.UUID, patch finance.GoalPatch) (finance.SpendingGoal, error)
	Delete(ctx context.Context, userID, goalID uuid.UUID) error
	SetProgress(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64) (finance.SpendingGoal, error)
	ApplyTransaction(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64, t finance.TransactionType) (finance.SpendingGoal, error)
	Progress(ctx context.Context, userID, goalID uuid.UUID, now time.Time) (finance.SpendingGoal, finance.GoalProgress, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) ValidateCreate(g finance.SpendingGoal) error {
	if g.UserID == uuid.Nil {
		return errs.ErrInvalid
	}
	if strings.TrimSpace(g.Title) == "" {
		return errs.Validation("title is required")
	}
	if g.TargetMinor <= 0 {
		return errs.Validation("target_minor must be > 0")
	}
	switch g.GoalType {
	case finance.GoalTypeSpending, finance.GoalTypeSaving:
	default:
		return errs.Validation("goal_type must be spending or saving")
	}
	switch g.Period {
	case finance.GoalPeriodWeekly, finance.GoalPeriodMonthly, finance.GoalPeriodYearly:
	default:
		return errs.Validation("invalid period")
	}
	if _, err := money.NewAmountFromMinorUnits(strings.ToUpper(g.Currency), 0); err != nil {
		return errs.Validation("invalid currency")
	}
	if g.GoalType == finance.GoalTypeSaving {
		if g.StartDate.IsZero() || g.EndDate.IsZero() {
			return errs.Validation("saving goals require start_date and end_date")
		}
	}
	return nil
}

// Create persists a new goal with zero progress and active status. Spending
// goals without an explicit end date get one derived from the period.
func (s *service) Create(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error) {
	if err := s.ValidateCreate(g); err != nil {
		return finance.SpendingGoal{}, err
	}
	now := time.Now().UTC()
	g.ID = uuid.New()
	g.Currency = strings.ToUpper(g.Currency)
	g.CurrentMinor = 0
	g.Status = finance.GoalStatusActive
	if g.StartDate.IsZero() {
		g.StartDate = now
	}
	if g.EndDate.IsZero() {
		g.EndDate = g.Period.PeriodEnd(g.StartDate)
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.writer.CreateGoal(ctx, g)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]finance.SpendingGoal, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListGoals(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error) {
	if userID == uuid.Nil || goalID == uuid.Nil {
		return finance.SpendingGoal{}, errs.ErrInvalid
	}
	return s.repo.GetGoal(ctx, userID, goalID)
}

// Update applies a sparse patch. Only supplied fields are written and
// UpdatedAt is always stamped.
func (s *service) Update(ctx context.Context, userID, goalID uuid.UUID, patch finance.GoalPatch) (finance.SpendingGoal, error) {
	g, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		return finance.SpendingGoal{}, err
	}
	patch.Apply(&g)
	if g.TargetMinor <= 0 {
		return finance.SpendingGoal{}, errs.Validation("target_minor must be > 0")
	}
	if patch.Metadata != nil {
		m := g.Metadata.Clone()
		m.Merge(patch.Metadata)
		if err := m.Validate(); err != nil {
			return finance.SpendingGoal{}, errs.Validation("invalid metadata")
		}
		g.Metadata = m
	}
	g.UpdatedAt = time.Now().UTC()
	return s.writer.UpdateGoal(ctx, g)
}

func (s *service) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	if userID == uuid.Nil || goalID == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteGoal(ctx, userID, goalID)
}

// SetProgress sets the current amount absolutely. Status only advances:
// crossing the target completes the goal, dropping below it afterwards
// does not reopen it.
func (s *service) SetProgress(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64) (finance.SpendingGoal, error) {
	if amountMinor < 0 {
		return finance.SpendingGoal{}, errs.Validation("amount_minor must be >= 0")
	}
	return s.writer.SetGoalProgress(ctx, userID, goalID, amountMinor)
}

// ApplyTransaction folds a posted transaction into the goal. Expenses
// accrue, income reduces with a floor of zero (refunds/credits against a
// cap).
func (s *service) ApplyTransaction(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64, t finance.TransactionType) (finance.SpendingGoal, error) {
	if amountMinor <= 0 {
		return finance.SpendingGoal{}, errs.Validation("amount_minor must be > 0")
	}
	var delta int64
	switch t {
	case finance.TransactionExpense:
		delta = amountMinor
	case finance.TransactionIncome:
		delta = -amountMinor
	default:
		return finance.SpendingGoal{}, errs.Validation("type must be income or expense")
	}
	return s.writer.ApplyGoalDelta(ctx, userID, goalID, delta)
}

// Progress returns the goal together with its derived progress metrics.
func (s *service) Progress(ctx context.Context, userID, goalID uuid.UUID, now time.Time) (finance.SpendingGoal, finance.GoalProgress, error) {
	g, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		return finance.SpendingGoal{}, finance.GoalProgress{}, err
	}
	return g, g.Progress(now), nil
}
