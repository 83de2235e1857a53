// Package budget implements budget and spending-limit rules. Both track
// spend against a cap; budgets derive a remaining amount and flip to
// exceeded when it goes negative, limits use a strict greater-than check
// against the cap itself.
package budget

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
	GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (finance.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]finance.Budget, error)
	GetLimit(ctx context.Context, userID, limitID uuid.UUID) (finance.SpendingLimit, error)
	ListLimits(ctx context.Context, userID uuid.UUID) ([]finance.SpendingLimit, error)
}

// Writer defines write operations needed by the service. SetBudgetSpending
// and ApplyLimitDelta recompute remaining/status atomically in the store.
type Writer interface {
	CreateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error)
	UpdateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	SetBudgetSpending(ctx context.Context, userID, budgetID uuid.UUID, spentMinor int64) (finance.Budget, error)
	CreateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error)
	UpdateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error)
	DeleteLimit(ctx context.Context, userID, limitID uuid.UUID) error
	ApplyLimitDelta(ctx context.Context, userID, limitID uuid.UUID, deltaMinor int64) (finance.SpendingLimit, error)
}

// Service exposes budget and spending-limit lifecycle operations.
type Service interface {
	ValidateBudget(b finance.Budget) error
	CreateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]finance.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (finance.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, patch finance.BudgetPatch) (finance.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	SetSpending(ctx context.Context, userID, budgetID uuid.UUID, spentMinor int64) (finance.Budget, error)

	ValidateLimit(l finance.SpendingLimit) error
	CreateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error)
	ListLimits(ctx context.Context, userID uuid.UUID) ([]finance.SpendingLimit, error)
	GetLimit(ctx context.Context, userID, limitID uuid.UUID) (finance.SpendingLimit, error)
	UpdateLimit(ctx context.Context, userID, limitID uuid.UUID, patch finance.LimitPatch) (finance.SpendingLimit, error)
	DeleteLimit(ctx context.Context, userID, limitID uuid.UUID) error
	ApplySpending(ctx context.Context, userID, limitID uuid.UUID, deltaMinor int64) (finance.SpendingLimit, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func validCurrency(code string) bool {
	_, err := money.NewAmountFromMinorUnits(strings.ToUpper(code), 0)
	return err == nil
}

// ValidateBudget checks a budget before creation. The HTTP layer runs it
// in the request-validation middleware.
func (s *service) ValidateBudget(b finance.Budget) error {
	if b.UserID == uuid.Nil {
		return errs.ErrInvalid
	}
	if strings.TrimSpace(b.Category) == "" {
		return errs.Validation("category is required")
	}
	if b.AllocatedMinor <= 0 {
		return errs.Validation("allocated_minor must be > 0")
	}
	switch b.Period {
	case finance.BudgetPeriodMonthly, finance.BudgetPeriodYearly:
	default:
		return errs.Validation("period must be monthly or yearly")
	}
	if !validCurrency(b.Currency) {
		return errs.Validation("invalid currency")
	}
	if b.SpentMinor < 0 {
		return errs.Validation("spent_minor must be >= 0")
	}
	return nil
}

// CreateBudget persists a new budget. A supplied initial spend is kept and
// remaining/status derive from it, so migrated budgets can start mid-period.
func (s *service) CreateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error) {
	if err := s.ValidateBudget(b); err != nil {
		return finance.Budget{}, err
	}
	now := time.Now().UTC()
	b.ID = uuid.New()
	b.Currency = strings.ToUpper(b.Currency)
	b.Status = finance.BudgetStatusActive
	if b.StartDate.IsZero() {
		b.StartDate = now
	}
	if b.EndDate.IsZero() {
		if b.Period == finance.BudgetPeriodMonthly {
			b.EndDate = b.StartDate.AddDate(0, 1, 0)
		} else {
			b.EndDate = b.StartDate.AddDate(1, 0, 0)
		}
	}
	b.Recompute()
	b.CreatedAt = now
	b.UpdatedAt = now
	return s.writer.CreateBudget(ctx, b)
}

func (s *service) ListBudgets(ctx context.Context, userID uuid.UUID) ([]finance.Budget, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListBudgets(ctx, userID)
}

func (s *service) GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (finance.Budget, error) {
	if userID == uuid.Nil || budgetID == uuid.Nil {
		return finance.Budget{}, errs.ErrInvalid
	}
	return s.repo.GetBudget(ctx, userID, budgetID)
}

// UpdateBudget applies a sparse patch. A changed allocation recomputes
// remaining and status within the same logical update.
func (s *service) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, patch finance.BudgetPatch) (finance.Budget, error) {
	b, err := s.repo.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return finance.Budget{}, err
	}
	patch.Apply(&b)
	if b.AllocatedMinor <= 0 {
		return finance.Budget{}, errs.Validation("allocated_minor must be > 0")
	}
	b.UpdatedAt = time.Now().UTC()
	return s.writer.UpdateBudget(ctx, b)
}

func (s *service) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	if userID == uuid.Nil || budgetID == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteBudget(ctx, userID, budgetID)
}

// SetSpending sets the spent amount absolutely; remaining and status are
// recomputed in the same store update.
func (s *service) SetSpending(ctx context.Context, userID, budgetID uuid.UUID, spentMinor int64) (finance.Budget, error) {
	if spentMinor < 0 {
		return finance.Budget{}, errs.Validation("spent_minor must be >= 0")
	}
	return s.writer.SetBudgetSpending(ctx, userID, budgetID, spentMinor)
}

// ValidateLimit checks a spending limit before creation.
func (s *service) ValidateLimit(l finance.SpendingLimit) error {
	if l.UserID == uuid.Nil {
		return errs.ErrInvalid
	}
	if strings.TrimSpace(l.Category) == "" {
		return errs.Validation("category is required")
	}
	if l.LimitMinor <= 0 {
		return errs.Validation("limit_minor must be > 0")
	}
	switch l.Period {
	case finance.LimitPeriodDaily, finance.LimitPeriodWeekly, finance.LimitPeriodMonthly, finance.LimitPeriodYearly:
	default:
		return errs.Validation("invalid period")
	}
	if !validCurrency(l.Currency) {
		return errs.Validation("invalid currency")
	}
	return nil
}

func (s *service) CreateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error) {
	if err := s.ValidateLimit(l); err != nil {
		return finance.SpendingLimit{}, err
	}
	now := time.Now().UTC()
	l.ID = uuid.New()
	l.Currency = strings.ToUpper(l.Currency)
	l.CurrentMinor = 0
	l.Status = finance.LimitStatusActive
	if l.StartDate.IsZero() {
		l.StartDate = now
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	return s.writer.CreateLimit(ctx, l)
}

func (s *service) ListLimits(ctx context.Context, userID uuid.UUID) ([]finance.SpendingLimit, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListLimits(ctx, userID)
}

func (s *service) GetLimit(ctx context.Context, userID, limitID uuid.UUID) (finance.SpendingLimit, error) {
	if userID == uuid.Nil || limitID == uuid.Nil {
		return finance.SpendingLimit{}, errs.ErrInvalid
	}
	return s.repo.GetLimit(ctx, userID, limitID)
}

func (s *service) UpdateLimit(ctx context.Context, userID, limitID uuid.UUID, patch finance.LimitPatch) (finance.SpendingLimit, error) {
	l, err := s.repo.GetLimit(ctx, userID, limitID)
	if err != nil {
		return finance.SpendingLimit{}, err
	}
	patch.Apply(&l)
	if l.LimitMinor <= 0 {
		return finance.SpendingLimit{}, errs.Validation("limit_minor must be > 0")
	}
	l.UpdatedAt = time.Now().UTC()
	return s.writer.UpdateLimit(ctx, l)
}

func (s *service) DeleteLimit(ctx context.Context, userID, limitID uuid.UUID) error {
	if userID == uuid.Nil || limitID == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteLimit(ctx, userID, limitID)
}

// ApplySpending adds delta to the current spend with a floor of zero.
func (s *service) ApplySpending(ctx context.Context, userID, limitID uuid.UUID, deltaMinor int64) (finance.SpendingLimit, error) {
	if deltaMinor == 0 {
		return finance.SpendingLimit{}, errs.Validation("amount_minor must be non-zero")
	}
	return s.writer.ApplyLimitDelta(ctx, userID, limitID, deltaMinor)
}
