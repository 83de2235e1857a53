package finance

import (
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/meta"
)

// TransactionType classifies the direction of a posted transaction.
type TransactionType string

const (
	// TransactionIncome records money flowing in.
	TransactionIncome TransactionType = "income"
	// TransactionExpense records money flowing out.
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// GoalType discriminates spending caps from saving targets.
type GoalType string

const (
	// GoalTypeSpending caps spend within a category/period.
	GoalTypeSpending GoalType = "spending"
	// GoalTypeSaving accumulates towards a target by a fixed deadline.
	GoalTypeSaving GoalType = "saving"
)

// GoalPeriod is the recurrence window of a spending or saving goal.
type GoalPeriod string

const (
	GoalPeriodWeekly  GoalPeriod = "weekly"
	GoalPeriodMonthly GoalPeriod = "monthly"
	GoalPeriodYearly  GoalPeriod = "yearly"
)

// BudgetPeriod is the allocation window of a budget.
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// LimitPeriod is the window of a category-level spending limit.
type LimitPeriod string

const (
	LimitPeriodDaily   LimitPeriod = "daily"
	LimitPeriodWeekly  LimitPeriod = "weekly"
	LimitPeriodMonthly LimitPeriod = "monthly"
	LimitPeriodYearly  LimitPeriod = "yearly"
)

// GoalStatus is the lifecycle state of a spending/saving goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Advance returns the status after a progress mutation. Completion is a
// one-way latch: a completed goal never reverts, regardless of later
// reductions to the current amount.
func (s GoalStatus) Advance(currentMinor, targetMinor int64) GoalStatus {
	if s == GoalStatusCompleted {
		return GoalStatusCompleted
	}
	if currentMinor >= targetMinor {
		return GoalStatusCompleted
	}
	return s
}

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusExceeded  BudgetStatus = "exceeded"
	BudgetStatusCompleted BudgetStatus = "completed"
)

// LimitStatus is the lifecycle state of a spending limit.
type LimitStatus string

const (
	LimitStatusActive   LimitStatus = "active"
	LimitStatusExceeded LimitStatus = "exceeded"
)

// Transaction is a single posted income or expense row.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AmountMinor int64
	Currency    string
	Type        TransactionType
	Category    string
	Date        time.Time
	Notes       string
	// Metadata holds additional key-value attributes for the transaction.
	Metadata  meta.Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpendingGoal covers both spending caps and saving targets, discriminated
// by GoalType. CurrentMinor only moves through progress operations.
type SpendingGoal struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	GoalType     GoalType
	Category     string
	Currency     string
	TargetMinor  int64
	CurrentMinor int64
	Period       GoalPeriod
	StartDate    time.Time
	// EndDate is required for saving goals and derived from Period for
	// spending goals when absent.
	EndDate     time.Time
	Status      GoalStatus
	Description string
	Metadata    meta.Metadata `json:"metadata,omitempty"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplyTransaction folds a linked transaction into the goal's current
// amount. Expenses accrue against the goal; income models refunds/credits
// and floors at zero. The completion latch is applied afterwards.
func (g *SpendingGoal) ApplyTransaction(amountMinor int64, t TransactionType) {
	switch t {
	case TransactionExpense:
		g.CurrentMinor += amountMinor
	case TransactionIncome:
		g.CurrentMinor -= amountMinor
		if g.CurrentMinor < 0 {
			g.CurrentMinor = 0
		}
	}
	g.Status = g.Status.Advance(g.CurrentMinor, g.TargetMinor)
}

// SetProgress sets the current amount absolutely and applies the latch.
func (g *SpendingGoal) SetProgress(amountMinor int64) {
	g.CurrentMinor = amountMinor
	g.Status = g.Status.Advance(g.CurrentMinor, g.TargetMinor)
}

// Budget is a period-scoped allocation against which spend is tracked.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Category       string
	Currency       string
	AllocatedMinor int64
	SpentMinor     int64
	RemainingMinor int64
	Period         BudgetPeriod
	StartDate      time.Time
	EndDate        time.Time
	Status         BudgetStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recompute derives RemainingMinor and Status from the allocated/spent
// pair. Exceeded holds exactly while remaining is negative; a completed
// budget keeps its status unless it goes over.
func (b *Budget) Recompute() {
	b.RemainingMinor = b.AllocatedMinor - b.SpentMinor
	if b.RemainingMinor < 0 {
		b.Status = BudgetStatusExceeded
		return
	}
	if b.Status == BudgetStatusExceeded {
		b.Status = BudgetStatusActive
	}
}

// SpendingLimit is a category-level cap tracked independently of named
// goals and budgets.
type SpendingLimit struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Category     string
	Currency     string
	LimitMinor   int64
	CurrentMinor int64
	Period       LimitPeriod
	StartDate    time.Time
	EndDate      time.Time
	Status       LimitStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplySpending adds delta to the current spend, flooring at zero, and
// recomputes the status. Note the strict comparison: a limit is exceeded
// only when spend is greater than the cap, not equal to it.
func (l *SpendingLimit) ApplySpending(deltaMinor int64) {
	l.CurrentMinor += deltaMinor
	if l.CurrentMinor < 0 {
		l.CurrentMinor = 0
	}
	l.Recompute()
}

// Recompute derives Status from the current spend.
func (l *SpendingLimit) Recompute() {
	if l.CurrentMinor > l.LimitMinor {
		l.Status = LimitStatusExceeded
	} else {
		l.Status = LimitStatusActive
	}
}

// CustomCategory is a user-defined transaction category.
type CustomCategory struct {
	ID     uuid.UUID
	UserID uuid.UUID
	// Name is the display name as entered (trimmed, max 50 chars).
	Name string
	// Code is the slugified name used for case-insensitive uniqueness.
	Code      string
	Type      TransactionType
	Active    bool
	CreatedAt time.Time
}

// UsageCounts reports how many rows reference a category name. Deletion of
// a custom category is gated on both counts being zero.
type UsageCounts struct {
	Transactions int64 `json:"transactions"`
	Goals        int64 `json:"goals"`
}

// InUse reports whether any referencing row exists.
func (u UsageCounts) InUse() bool { return u.Transactions > 0 || u.Goals > 0 }
