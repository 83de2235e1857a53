package postgres

// Package postgres provides a pgx-backed storage implementation that
// satisfies the repository and writer interfaces used by the services and
// the HTTP API.
//
// It is intentionally small and explicit. Migrations that create the
// expected schema live under db/migrations. Progress mutations run as
// single UPDATE statements with the arithmetic and the status transitions
// in the SET clause, so concurrent postings against the same row cannot
// lose updates to a read-then-write race.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/meta"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
)

// Store holds a pgx connection pool and implements the read/write
// interfaces used across the service layer. All methods are safe for
// concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// SeedDev inserts a user with a pair of transactions and one saving goal
// for quick local testing. It is idempotent per run due to fresh UUIDs.
func (s *Store) SeedDev(ctx context.Context) (uuid.UUID, error) {
	userID := uuid.New()
	now := time.Now().UTC()
	salary := finance.Transaction{
		ID: uuid.New(), UserID: userID, AmountMinor: 250_000, Currency: "GBP",
		Type: finance.TransactionIncome, Category: "salary", Date: now.AddDate(0, 0, -14),
		Notes: "monthly salary", CreatedAt: now, UpdatedAt: now,
	}
	groceries := finance.Transaction{
		ID: uuid.New(), UserID: userID, AmountMinor: 6_450, Currency: "GBP",
		Type: finance.TransactionExpense, Category: "groceries", Date: now.AddDate(0, 0, -2),
		Notes: "weekly shop", CreatedAt: now, UpdatedAt: now,
	}
	goal := finance.SpendingGoal{
		ID: uuid.New(), UserID: userID, Title: "Holiday fund", GoalType: finance.GoalTypeSaving,
		Category: "savings", Currency: "GBP", TargetMinor: 100_000, Period: finance.GoalPeriodMonthly,
		StartDate: now, EndDate: now.AddDate(0, 1, 0), Status: finance.GoalStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
	for _, t := range []finance.Transaction{salary, groceries} {
		if _, err := s.CreateTransaction(ctx, t); err != nil {
			return uuid.Nil, err
		}
	}
	if _, err := s.CreateGoal(ctx, goal); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func scanMeta(b []byte) meta.Metadata {
	if len(b) == 0 {
		return meta.Metadata{}
	}
	var m meta.Metadata
	if err := m.UnmarshalJSON(b); err != nil {
		return meta.Metadata{}
	}
	return m
}

// --- Transactions ---

const txCols = `id, user_id, amount_minor, currency, type, category, date, notes, metadata, created_at, updated_at`

func scanTransaction(row pgx.Row) (finance.Transaction, error) {
	var t finance.Transaction
	var mdBytes []byte
	err := row.Scan(&t.ID, &t.UserID, &t.AmountMinor, &t.Currency, &t.Type, &t.Category, &t.Date, &t.Notes, &mdBytes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return finance.Transaction{}, err
	}
	t.Metadata = scanMeta(mdBytes)
	return t, nil
}

// GetTransaction fetches a single transaction by id for a user.
func (s *Store) GetTransaction(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx, `
        select `+txCols+`
        from transactions
        where id = $1 and user_id = $2
    `, txID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return t, err
}

// ListTransactions returns a user's transactions with optional filters.
func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, f ledger.Filter) ([]finance.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
        select `+txCols+`
        from transactions
        where user_id = $1
          and ($2 = '' or type = $2)
          and ($3 = '' or lower(category) = lower($3))
          and ($4::timestamptz is null or date >= $4)
          and ($5::timestamptz is null or date <= $5)
        order by date asc, id asc
    `, userID, string(f.Type), f.Category, f.From, f.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTransaction inserts a transaction row.
func (s *Store) CreateTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	md, _ := t.Metadata.MarshalStableJSON()
	_, err := s.pool.Exec(ctx, `
        insert into transactions (`+txCols+`)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, t.ID, t.UserID, t.AmountMinor, strings.ToUpper(t.Currency), t.Type, t.Category, t.Date, t.Notes, md, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return finance.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction writes the full mutable row; the service applies the
// sparse patch beforehand so this stays a fixed parameterized statement.
func (s *Store) UpdateTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	md, _ := t.Metadata.MarshalStableJSON()
	ct, err := s.pool.Exec(ctx, `
        update transactions
        set amount_minor=$1, type=$2, category=$3, date=$4, notes=$5, metadata=$6, updated_at=$7
        where id=$8 and user_id=$9
    `, t.AmountMinor, t.Type, t.Category, t.Date, t.Notes, md, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return finance.Transaction{}, err
	}
	if ct.RowsAffected() == 0 {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return t, nil
}

// DeleteTransaction hard-deletes a transaction row.
func (s *Store) DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from transactions where id=$1 and user_id=$2`, txID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Goals ---

const goalCols = `id, user_id, title, goal_type, category, currency, target_minor, current_minor, period, start_date, end_date, status, description, metadata, created_at, updated_at`

func scanGoal(row pgx.Row) (finance.SpendingGoal, error) {
	var g finance.SpendingGoal
	var mdBytes []byte
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.GoalType, &g.Category, &g.Currency, &g.TargetMinor, &g.CurrentMinor, &g.Period, &g.StartDate, &g.EndDate, &g.Status, &g.Description, &mdBytes, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return finance.SpendingGoal{}, err
	}
	g.Metadata = scanMeta(mdBytes)
	return g, nil
}

// GetGoal fetches a single goal by id for a user.
func (s *Store) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error) {
	g, err := scanGoal(s.pool.QueryRow(ctx, `
        select `+goalCols+`
        from spending_goals
        where id = $1 and user_id = $2
    `, goalID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	return g, err
}

// ListGoals returns all goals for a user.
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]finance.SpendingGoal, error) {
	rows, err := s.pool.Query(ctx, `
        select `+goalCols+`
        from spending_goals
        where user_id = $1
        order by created_at asc, id asc
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.SpendingGoal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CreateGoal inserts a goal row.
func (s *Store) CreateGoal(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error) {
	md, _ := g.Metadata.MarshalStableJSON()
	_, err := s.pool.Exec(ctx, `
        insert into spending_goals (`+goalCols+`)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    `, g.ID, g.UserID, g.Title, g.GoalType, g.Category, strings.ToUpper(g.Currency), g.TargetMinor, g.CurrentMinor, g.Period, g.StartDate, g.EndDate, g.Status, g.Description, md, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return finance.SpendingGoal{}, err
	}
	return g, nil
}

// UpdateGoal writes the descriptive fields. Progress fields are excluded:
// they only move through SetGoalProgress/ApplyGoalDelta so the completion
// latch stays in one place.
func (s *Store) UpdateGoal(ctx context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error) {
	md, _ := g.Metadata.MarshalStableJSON()
	row := s.pool.QueryRow(ctx, `
        update spending_goals
        set title=$1, category=$2, target_minor=$3, period=$4, start_date=$5, end_date=$6,
            description=$7, metadata=$8, updated_at=$9,
            status = case when status = 'completed' then 'completed'
                          when current_minor >= $3 then 'completed'
                          else $10 end
        where id=$11 and user_id=$12
        returning `+goalCols+`
    `, g.Title, g.Category, g.TargetMinor, g.Period, g.StartDate, g.EndDate, g.Description, md, g.UpdatedAt, g.Status, g.ID, g.UserID)
	out, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	return out, err
}

// DeleteGoal hard-deletes a goal row.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from spending_goals where id=$1 and user_id=$2`, goalID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetGoalProgress sets current_minor absolutely; the latch runs in SQL so
// the whole mutation is one statement.
func (s *Store) SetGoalProgress(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64) (finance.SpendingGoal, error) {
	row := s.pool.QueryRow(ctx, `
        update spending_goals
        set current_minor = $3,
            status = case when status = 'completed' then 'completed'
                          when $3 >= target_minor then 'completed'
                          else status end,
            updated_at = now()
        where id = $1 and user_id = $2
        returning `+goalCols+`
    `, goalID, userID, amountMinor)
	g, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	return g, err
}

// ApplyGoalDelta adds a signed delta to current_minor with a floor of
// zero, latching completion, all within a single atomic update.
func (s *Store) ApplyGoalDelta(ctx context.Context, userID, goalID uuid.UUID, deltaMinor int64) (finance.SpendingGoal, error) {
	row := s.pool.QueryRow(ctx, `
        update spending_goals
        set current_minor = greatest(current_minor + $3, 0),
            status = case when status = 'completed' then 'completed'
                          when greatest(current_minor + $3, 0) >= target_minor then 'completed'
                          else status end,
            updated_at = now()
        where id = $1 and user_id = $2
        returning `+goalCols+`
    `, goalID, userID, deltaMinor)
	g, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	return g, err
}

// --- Budgets ---

const budgetCols = `id, user_id, category, currency, allocated_minor, spent_minor, remaining_minor, period, start_date, end_date, status, created_at, updated_at`

func scanBudget(row pgx.Row) (finance.Budget, error) {
	var b finance.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Currency, &b.AllocatedMinor, &b.SpentMinor, &b.RemainingMinor, &b.Period, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// GetBudget fetches a single budget by id for a user.
func (s *Store) GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (finance.Budget, error) {
	b, err := scanBudget(s.pool.QueryRow(ctx, `
        select `+budgetCols+` from budgets where id = $1 and user_id = $2
    `, budgetID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Budget{}, errs.ErrNotFound
	}
	return b, err
}

// ListBudgets returns all budgets for a user.
func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID) ([]finance.Budget, error) {
	rows, err := s.pool.Query(ctx, `
        select `+budgetCols+` from budgets where user_id = $1 order by created_at asc, id asc
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBudget inserts a budget row.
func (s *Store) CreateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error) {
	_, err := s.pool.Exec(ctx, `
        insert into budgets (`+budgetCols+`)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, b.ID, b.UserID, b.Category, strings.ToUpper(b.Currency), b.AllocatedMinor, b.SpentMinor, b.RemainingMinor, b.Period, b.StartDate, b.EndDate, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return finance.Budget{}, err
	}
	return b, nil
}

// UpdateBudget writes the descriptive fields and recomputes remaining and
// status from the stored spent amount inside the statement, so a changed
// allocation cannot race a concurrent spending update.
func (s *Store) UpdateBudget(ctx context.Context, b finance.Budget) (finance.Budget, error) {
	row := s.pool.QueryRow(ctx, `
        update budgets
        set category=$1, allocated_minor=$2, period=$3, start_date=$4, end_date=$5, updated_at=$6,
            remaining_minor = $2 - spent_minor,
            status = case when $2 - spent_minor < 0 then 'exceeded'
                          when $7 = 'completed' then 'completed'
                          else 'active' end
        where id=$8 and user_id=$9
        returning `+budgetCols+`
    `, b.Category, b.AllocatedMinor, b.Period, b.StartDate, b.EndDate, b.UpdatedAt, string(b.Status), b.ID, b.UserID)
	out, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Budget{}, errs.ErrNotFound
	}
	return out, err
}

// DeleteBudget hard-deletes a budget row.
func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from budgets where id=$1 and user_id=$2`, budgetID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetBudgetSpending sets spent_minor absolutely and recomputes remaining
// and status in the same statement.
func (s *Store) SetBudgetSpending(ctx context.Context, userID, budgetID uuid.UUID, spentMinor int64) (finance.Budget, error) {
	row := s.pool.QueryRow(ctx, `
        update budgets
        set spent_minor = $3,
            remaining_minor = allocated_minor - $3,
            status = case when allocated_minor - $3 < 0 then 'exceeded'
                          when status = 'completed' then 'completed'
                          else 'active' end,
            updated_at = now()
        where id = $1 and user_id = $2
        returning `+budgetCols+`
    `, budgetID, userID, spentMinor)
	b, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Budget{}, errs.ErrNotFound
	}
	return b, err
}

// --- Spending limits ---

const limitCols = `id, user_id, category, currency, limit_minor, current_minor, period, start_date, end_date, status, created_at, updated_at`

func scanLimit(row pgx.Row) (finance.SpendingLimit, error) {
	var l finance.SpendingLimit
	err := row.Scan(&l.ID, &l.UserID, &l.Category, &l.Currency, &l.LimitMinor, &l.CurrentMinor, &l.Period, &l.StartDate, &l.EndDate, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// GetLimit fetches a single spending limit by id for a user.
func (s *Store) GetLimit(ctx context.Context, userID, limitID uuid.UUID) (finance.SpendingLimit, error) {
	l, err := scanLimit(s.pool.QueryRow(ctx, `
        select `+limitCols+` from spending_limits where id = $1 and user_id = $2
    `, limitID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	return l, err
}

// ListLimits returns all spending limits for a user.
func (s *Store) ListLimits(ctx context.Context, userID uuid.UUID) ([]finance.SpendingLimit, error) {
	rows, err := s.pool.Query(ctx, `
        select `+limitCols+` from spending_limits where user_id = $1 order by created_at asc, id asc
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.SpendingLimit, 0)
	for rows.Next() {
		l, err := scanLimit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateLimit inserts a spending limit row.
func (s *Store) CreateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error) {
	_, err := s.pool.Exec(ctx, `
        insert into spending_limits (`+limitCols+`)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `, l.ID, l.UserID, l.Category, strings.ToUpper(l.Currency), l.LimitMinor, l.CurrentMinor, l.Period, l.StartDate, l.EndDate, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return finance.SpendingLimit{}, err
	}
	return l, nil
}

// UpdateLimit writes the descriptive fields and recomputes the status
// against the stored spend. The strict greater-than comparison matches
// the limit entity's exceeded rule.
func (s *Store) UpdateLimit(ctx context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error) {
	row := s.pool.QueryRow(ctx, `
        update spending_limits
        set category=$1, limit_minor=$2, period=$3, start_date=$4, end_date=$5, updated_at=$6,
            status = case when current_minor > $2 then 'exceeded' else 'active' end
        where id=$7 and user_id=$8
        returning `+limitCols+`
    `, l.Category, l.LimitMinor, l.Period, l.StartDate, l.EndDate, l.UpdatedAt, l.ID, l.UserID)
	out, err := scanLimit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	return out, err
}

// DeleteLimit hard-deletes a spending limit row.
func (s *Store) DeleteLimit(ctx context.Context, userID, limitID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from spending_limits where id=$1 and user_id=$2`, limitID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ApplyLimitDelta adds a signed delta to current_minor with a floor of
// zero and recomputes the status, all in one statement.
func (s *Store) ApplyLimitDelta(ctx context.Context, userID, limitID uuid.UUID, deltaMinor int64) (finance.SpendingLimit, error) {
	row := s.pool.QueryRow(ctx, `
        update spending_limits
        set current_minor = greatest(current_minor + $3, 0),
            status = case when greatest(current_minor + $3, 0) > limit_minor then 'exceeded' else 'active' end,
            updated_at = now()
        where id = $1 and user_id = $2
        returning `+limitCols+`
    `, limitID, userID, deltaMinor)
	l, err := scanLimit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	return l, err
}

// --- Custom categories ---

const categoryCols = `id, user_id, name, code, type, active, created_at`

func scanCategory(row pgx.Row) (finance.CustomCategory, error) {
	var c finance.CustomCategory
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Code, &c.Type, &c.Active, &c.CreatedAt)
	return c, err
}

// GetCategory fetches a single custom category by id for a user.
func (s *Store) GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (finance.CustomCategory, error) {
	c, err := scanCategory(s.pool.QueryRow(ctx, `
        select `+categoryCols+` from custom_categories where id = $1 and user_id = $2
    `, categoryID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.CustomCategory{}, errs.ErrNotFound
	}
	return c, err
}

// ListCategories returns all custom categories for a user.
func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]finance.CustomCategory, error) {
	rows, err := s.pool.Query(ctx, `
        select `+categoryCols+` from custom_categories where user_id = $1 order by created_at asc, id asc
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.CustomCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategory inserts a custom category row.
func (s *Store) CreateCategory(ctx context.Context, c finance.CustomCategory) (finance.CustomCategory, error) {
	_, err := s.pool.Exec(ctx, `
        insert into custom_categories (`+categoryCols+`)
        values ($1,$2,$3,$4,$5,$6,$7)
    `, c.ID, c.UserID, c.Name, c.Code, c.Type, c.Active, c.CreatedAt)
	if err != nil {
		return finance.CustomCategory{}, err
	}
	return c, nil
}

// UpdateCategory updates mutable fields (name, code, active).
func (s *Store) UpdateCategory(ctx context.Context, c finance.CustomCategory) (finance.CustomCategory, error) {
	ct, err := s.pool.Exec(ctx, `
        update custom_categories set name=$1, code=$2, active=$3 where id=$4 and user_id=$5
    `, c.Name, c.Code, c.Active, c.ID, c.UserID)
	if err != nil {
		return finance.CustomCategory{}, err
	}
	if ct.RowsAffected() == 0 {
		return finance.CustomCategory{}, errs.ErrNotFound
	}
	return c, nil
}

// DeleteCategory hard-deletes a custom category row.
func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	ct, err := s.pool.Exec(ctx, `delete from custom_categories where id=$1 and user_id=$2`, categoryID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CategoryUsage counts transactions and goals referencing the category
// name for the user, case-insensitively.
func (s *Store) CategoryUsage(ctx context.Context, userID uuid.UUID, name string) (finance.UsageCounts, error) {
	var out finance.UsageCounts
	err := s.pool.QueryRow(ctx, `
        select
            (select count(*) from transactions where user_id = $1 and lower(category) = lower($2)),
            (select count(*) from spending_goals where user_id = $1 and lower(category) = lower($2))
    `, userID, name).Scan(&out.Transactions, &out.Goals)
	if err != nil {
		return finance.UsageCounts{}, err
	}
	return out, nil
}

// --- Aggregates for scoring ---

// AggregateUser rolls up one user's ledger. A user with no transactions
// yields errs.ErrNotFound, matching the scoring engine's contract.
func (s *Store) AggregateUser(ctx context.Context, userID uuid.UUID) (finance.UserAggregates, error) {
	agg := finance.UserAggregates{UserID: userID}
	err := s.pool.QueryRow(ctx, `
        select
            coalesce(sum(case when type = 'income' then amount_minor else 0 end), 0),
            coalesce(sum(case when type = 'expense' then amount_minor else 0 end), 0),
            count(*),
            count(distinct date_trunc('day', date)),
            count(distinct date_trunc('day', date)) filter (where date >= now() - interval '30 days')
        from transactions
        where user_id = $1
    `, userID).Scan(&agg.IncomeMinor, &agg.ExpenseMinor, &agg.Transactions, &agg.ActiveDays, &agg.ActiveDaysLast30)
	if err != nil {
		return finance.UserAggregates{}, err
	}
	if agg.Transactions == 0 {
		return finance.UserAggregates{}, errs.ErrNotFound
	}
	if err := s.pool.QueryRow(ctx, `
        select count(*) from spending_goals where user_id = $1 and status = 'completed'
    `, userID).Scan(&agg.CompletedGoals); err != nil {
		return finance.UserAggregates{}, err
	}
	return agg, nil
}

// AggregateAll rolls up every user with at least one transaction.
func (s *Store) AggregateAll(ctx context.Context) ([]finance.UserAggregates, error) {
	rows, err := s.pool.Query(ctx, `
        select
            user_id,
            coalesce(sum(case when type = 'income' then amount_minor else 0 end), 0),
            coalesce(sum(case when type = 'expense' then amount_minor else 0 end), 0),
            count(*),
            count(distinct date_trunc('day', date)),
            count(distinct date_trunc('day', date)) filter (where date >= now() - interval '30 days')
        from transactions
        group by user_id
        order by user_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]finance.UserAggregates, 0)
	idx := make(map[uuid.UUID]int)
	for rows.Next() {
		var a finance.UserAggregates
		if err := rows.Scan(&a.UserID, &a.IncomeMinor, &a.ExpenseMinor, &a.Transactions, &a.ActiveDays, &a.ActiveDaysLast30); err != nil {
			return nil, err
		}
		idx[a.UserID] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	goalRows, err := s.pool.Query(ctx, `
        select user_id, count(*)
        from spending_goals
        where status = 'completed'
        group by user_id
    `)
	if err != nil {
		return nil, err
	}
	defer goalRows.Close()
	for goalRows.Next() {
		var id uuid.UUID
		var n int
		if err := goalRows.Scan(&id, &n); err != nil {
			return nil, err
		}
		if i, ok := idx[id]; ok {
			out[i].CompletedGoals = n
		}
	}
	return out, goalRows.Err()
}

// --- Score snapshots ---

// ScoreSnapshots returns the persisted total/level rows keyed by user.
func (s *Store) ScoreSnapshots(ctx context.Context) (map[uuid.UUID]finance.ScoreSnapshot, error) {
	rows, err := s.pool.Query(ctx, `select user_id, total_score, level, updated_at from user_scores`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uuid.UUID]finance.ScoreSnapshot)
	for rows.Next() {
		var snap finance.ScoreSnapshot
		if err := rows.Scan(&snap.UserID, &snap.TotalScore, &snap.Level, &snap.UpdatedAt); err != nil {
			return nil, err
		}
		out[snap.UserID] = snap
	}
	return out, rows.Err()
}

// UpsertScoreSnapshots stores the latest total/level per user.
func (s *Store) UpsertScoreSnapshots(ctx context.Context, snaps []finance.ScoreSnapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	for _, snap := range snaps {
		if _, err := tx.Exec(ctx, `
            insert into user_scores (user_id, total_score, level, updated_at)
            values ($1,$2,$3,$4)
            on conflict (user_id) do update
            set total_score = excluded.total_score, level = excluded.level, updated_at = excluded.updated_at
        `, snap.UserID, snap.TotalScore, snap.Level, snap.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// --- Idempotency ---

// GetTransactionByIdempotencyKey resolves a transaction by idempotency key
// for the user.
func (s *Store) GetTransactionByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (finance.Transaction, bool, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
        select transaction_id from transaction_idempotency where user_id=$1 and key=$2
    `, userID, key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Transaction{}, false, nil
	}
	if err != nil {
		return finance.Transaction{}, false, err
	}
	t, err := s.GetTransaction(ctx, userID, id)
	if err != nil {
		return finance.Transaction{}, false, err
	}
	return t, true, nil
}

// SaveIdempotencyKey stores a mapping from (user,key) to transaction id.
func (s *Store) SaveIdempotencyKey(ctx context.Context, userID uuid.UUID, key string, txID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
        insert into transaction_idempotency (user_id, key, transaction_id)
        values ($1,$2,$3)
        on conflict (user_id, key) do nothing
    `, userID, key, txID)
	return err
}
