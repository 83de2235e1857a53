package finance

import "time"

// Sparse patches: pointer fields mark which columns the caller supplied.
// Services load the current row, apply the patch, and persist a full
// parameterized update, so no per-request SQL is assembled from strings.

// TransactionPatch is a sparse update for a transaction.
type TransactionPatch struct {
	AmountMinor *int64
	Type        *TransactionType
	Category    *string
	Date        *time.Time
	Notes       *string
	Metadata    map[string]string
}

// Apply copies supplied fields onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.AmountMinor != nil {
		t.AmountMinor = *p.AmountMinor
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}

// GoalPatch is a sparse update for a spending/saving goal. Progress and
// status are excluded on purpose: they only move through the progress
// operations so the completion latch cannot be bypassed.
type GoalPatch struct {
	Title       *string
	Category    *string
	TargetMinor *int64
	Period      *GoalPeriod
	StartDate   *time.Time
	EndDate     *time.Time
	Paused      *bool
	Description *string
	Metadata    map[string]string
}

// Apply copies supplied fields onto g and re-applies the latch when the
// target moved.
func (p GoalPatch) Apply(g *SpendingGoal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.TargetMinor != nil {
		g.TargetMinor = *p.TargetMinor
	}
	if p.Period != nil {
		g.Period = *p.Period
	}
	if p.StartDate != nil {
		g.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		g.EndDate = *p.EndDate
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Paused != nil && g.Status != GoalStatusCompleted {
		if *p.Paused {
			g.Status = GoalStatusPaused
		} else {
			g.Status = GoalStatusActive
		}
	}
	g.Status = g.Status.Advance(g.CurrentMinor, g.TargetMinor)
}

// BudgetPatch is a sparse update for a budget.
type BudgetPatch struct {
	Category       *string
	AllocatedMinor *int64
	Period         *BudgetPeriod
	StartDate      *time.Time
	EndDate        *time.Time
	Completed      *bool
}

// Apply copies supplied fields onto b and recomputes remaining/status.
func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.AllocatedMinor != nil {
		b.AllocatedMinor = *p.AllocatedMinor
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Completed != nil && *p.Completed {
		b.Status = BudgetStatusCompleted
	}
	b.Recompute()
}

// LimitPatch is a sparse update for a spending limit.
type LimitPatch struct {
	Category   *string
	LimitMinor *int64
	Period     *LimitPeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// Apply copies supplied fields onto l and recomputes the status.
func (p LimitPatch) Apply(l *SpendingLimit) {
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.LimitMinor != nil {
		l.LimitMinor = *p.LimitMinor
	}
	if p.Period != nil {
		l.Period = *p.Period
	}
	if p.StartDate != nil {
		l.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		l.EndDate = *p.EndDate
	}
	l.Recompute()
}
