package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// Transactions

type postTransactionRequest struct {
	UserID      uuid.UUID               `json:"user_id"`
	AmountMinor int64                   `json:"amount_minor"`
	Currency    string                  `json:"currency"`
	Type        finance.TransactionType `json:"type"`
	Category    string                  `json:"category"`
	Date        time.Time               `json:"date"`
	Notes       string                  `json:"notes,omitempty"`
	GoalID      uuid.UUID               `json:"goal_id,omitempty"`
	Metadata    map[string]string       `json:"metadata,omitempty"`
}

type patchTransactionRequest struct {
	AmountMinor *int64             `json:"amount_minor,omitempty"`
	Type        *string            `json:"type,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
}

type transactionResponse struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	AmountMinor int64                   `json:"amount_minor"`
	Amount      string                  `json:"amount"`
	Currency    string                  `json:"currency"`
	Type        finance.TransactionType `json:"type"`
	Category    string                  `json:"category"`
	Date        time.Time               `json:"date"`
	Notes       string                  `json:"notes,omitempty"`
	Metadata    map[string]string       `json:"metadata,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// listTransactionsQuery holds validated query params for GET /v1/transactions.
type listTransactionsQuery struct {
	UserID   uuid.UUID
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
}

// Goals

type postGoalRequest struct {
	UserID      uuid.UUID          `json:"user_id"`
	Title       string             `json:"title"`
	GoalType    finance.GoalType   `json:"goal_type"`
	Category    string             `json:"category"`
	Currency    string             `json:"currency"`
	TargetMinor int64              `json:"target_minor"`
	Period      finance.GoalPeriod `json:"period"`
	StartDate   *time.Time         `json:"start_date,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	Description string             `json:"description,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
}

type patchGoalRequest struct {
	Title       *string           `json:"title,omitempty"`
	Category    *string           `json:"category,omitempty"`
	TargetMinor *int64            `json:"target_minor,omitempty"`
	Period      *string           `json:"period,omitempty"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	Paused      *bool             `json:"paused,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type goalResponse struct {
	ID           uuid.UUID          `json:"id"`
	UserID       uuid.UUID          `json:"user_id"`
	Title        string             `json:"title"`
	GoalType     finance.GoalType   `json:"goal_type"`
	Category     string             `json:"category"`
	Currency     string             `json:"currency"`
	TargetMinor  int64              `json:"target_minor"`
	Target       string             `json:"target"`
	CurrentMinor int64              `json:"current_minor"`
	Current      string             `json:"current"`
	Period       finance.GoalPeriod `json:"period"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
	Status       finance.GoalStatus `json:"status"`
	Description  string             `json:"description,omitempty"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type goalProgressBody struct {
	CurrentMinor int64 `json:"current_minor"`
}

type goalTransactionBody struct {
	AmountMinor int64                   `json:"amount_minor"`
	Type        finance.TransactionType `json:"type"`
}

type goalProgressResponse struct {
	Goal                goalResponse `json:"goal"`
	ProgressPct         float64      `json:"progress_pct"`
	RemainingMinor      int64        `json:"remaining_minor"`
	TotalDays           int          `json:"total_days"`
	DaysRemaining       int          `json:"days_remaining"`
	DailyTargetMinor    float64      `json:"daily_target_minor"`
	ExpectedMinor       float64      `json:"expected_minor"`
	OnTrack             bool         `json:"on_track"`
	ProjectedCompletion time.Time    `json:"projected_completion"`
}

// Budgets

type postBudgetRequest struct {
	UserID         uuid.UUID            `json:"user_id"`
	Category       string               `json:"category"`
	Currency       string               `json:"currency"`
	AllocatedMinor int64                `json:"allocated_minor"`
	Period         finance.BudgetPeriod `json:"period"`
	StartDate      *time.Time           `json:"start_date,omitempty"`
	EndDate        *time.Time           `json:"end_date,omitempty"`
}

type patchBudgetRequest struct {
	Category       *string    `json:"category,omitempty"`
	AllocatedMinor *int64     `json:"allocated_minor,omitempty"`
	Period         *string    `json:"period,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Completed      *bool      `json:"completed,omitempty"`
}

type budgetResponse struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	Category       string               `json:"category"`
	Currency       string               `json:"currency"`
	AllocatedMinor int64                `json:"allocated_minor"`
	Allocated      string               `json:"allocated"`
	SpentMinor     int64                `json:"spent_minor"`
	Spent          string               `json:"spent"`
	RemainingMinor int64                `json:"remaining_minor"`
	Period         finance.BudgetPeriod `json:"period"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	Status         finance.BudgetStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type spendingBody struct {
	AmountMinor int64 `json:"amount_minor"`
}

// Spending limits

type postLimitRequest struct {
	UserID     uuid.UUID           `json:"user_id"`
	Category   string              `json:"category"`
	Currency   string              `json:"currency"`
	LimitMinor int64               `json:"limit_minor"`
	Period     finance.LimitPeriod `json:"period"`
	StartDate  *time.Time          `json:"start_date,omitempty"`
	EndDate    *time.Time          `json:"end_date,omitempty"`
}

type patchLimitRequest struct {
	Category   *string    `json:"category,omitempty"`
	LimitMinor *int64     `json:"limit_minor,omitempty"`
	Period     *string    `json:"period,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type limitResponse struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"user_id"`
	Category     string              `json:"category"`
	Currency     string              `json:"currency"`
	LimitMinor   int64               `json:"limit_minor"`
	Limit        string              `json:"limit"`
	CurrentMinor int64               `json:"current_minor"`
	Current      string              `json:"current"`
	Period       finance.LimitPeriod `json:"period"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	Status       finance.LimitStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Categories

type postCategoryRequest struct {
	UserID uuid.UUID               `json:"user_id"`
	Name   string                  `json:"name"`
	Type   finance.TransactionType `json:"type"`
}

type categoryResponse struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	Name      string                  `json:"name"`
	Code      string                  `json:"code"`
	Type      finance.TransactionType `json:"type"`
	Active    bool                    `json:"active"`
	CreatedAt time.Time               `json:"created_at"`
}

type deleteCategoryResponse struct {
	Deleted bool               `json:"deleted"`
	Usage   *finance.UsageCounts `json:"usage,omitempty"`
}

// mustAmount builds a money.Amount for response formatting. Currencies
// were validated at the service boundary so the error is ignored here.
func mustAmount(curr string, units int64) money.Amount {
	a, _ := money.NewAmountFromMinorUnits(curr, units)
	return a
}

func toTransactionResponse(t finance.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		AmountMinor: t.AmountMinor,
		Amount:      mustAmount(t.Currency, t.AmountMinor).String(),
		Currency:    t.Currency,
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
		Notes:       t.Notes,
		Metadata:    t.Metadata,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toGoalResponse(g finance.SpendingGoal) goalResponse {
	return goalResponse{
		ID:           g.ID,
		UserID:       g.UserID,
		Title:        g.Title,
		GoalType:     g.GoalType,
		Category:     g.Category,
		Currency:     g.Currency,
		TargetMinor:  g.TargetMinor,
		Target:       mustAmount(g.Currency, g.TargetMinor).String(),
		CurrentMinor: g.CurrentMinor,
		Current:      mustAmount(g.Currency, g.CurrentMinor).String(),
		Period:       g.Period,
		StartDate:    g.StartDate,
		EndDate:      g.EndDate,
		Status:       g.Status,
		Description:  g.Description,
		Metadata:     g.Metadata,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func toGoalProgressResponse(g finance.SpendingGoal, p finance.GoalProgress) goalProgressResponse {
	return goalProgressResponse{
		Goal:                toGoalResponse(g),
		ProgressPct:         p.ProgressPct,
		RemainingMinor:      p.RemainingMinor,
		TotalDays:           p.TotalDays,
		DaysRemaining:       p.DaysRemaining,
		DailyTargetMinor:    p.DailyTargetMinor,
		ExpectedMinor:       p.ExpectedMinor,
		OnTrack:             p.OnTrack,
		ProjectedCompletion: p.ProjectedCompletion,
	}
}

func toBudgetResponse(b finance.Budget) budgetResponse {
	return budgetResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Category:       b.Category,
		Currency:       b.Currency,
		AllocatedMinor: b.AllocatedMinor,
		Allocated:      mustAmount(b.Currency, b.AllocatedMinor).String(),
		SpentMinor:     b.SpentMinor,
		Spent:          mustAmount(b.Currency, b.SpentMinor).String(),
		RemainingMinor: b.RemainingMinor,
		Period:         b.Period,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toLimitResponse(l finance.SpendingLimit) limitResponse {
	return limitResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Category:     l.Category,
		Currency:     l.Currency,
		LimitMinor:   l.LimitMinor,
		Limit:        mustAmount(l.Currency, l.LimitMinor).String(),
		CurrentMinor: l.CurrentMinor,
		Current:      mustAmount(l.Currency, l.CurrentMinor).String(),
		Period:       l.Period,
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toCategoryResponse(c finance.CustomCategory) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Code:      c.Code,
		Type:      c.Type,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}
