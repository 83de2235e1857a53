package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It mirrors the semantics of the Postgres store,
// including the atomic progress updates, under a single RWMutex.
import (
	"sort"
	"strings"
	"sync"
	"time"

	"context"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
)

// Store is an in-memory implementation of the repository+writer interfaces
// used by the services and the API. It is guarded by an RWMutex for
// concurrent reads/writes.
type Store struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]finance.Transaction
	goals        map[uuid.UUID]finance.SpendingGoal
	budgets      map[uuid.UUID]finance.Budget
	limits       map[uuid.UUID]finance.SpendingLimit
	categories   map[uuid.UUID]finance.CustomCategory
	snapshots    map[uuid.UUID]finance.ScoreSnapshot
	// Idempotency: userID -> key -> transactionID
	txIdem map[uuid.UUID]map[string]uuid.UUID
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		transactions: make(map[uuid.UUID]finance.Transaction),
		goals:        make(map[uuid.UUID]finance.SpendingGoal),
		budgets:      make(map[uuid.UUID]finance.Budget),
		limits:       make(map[uuid.UUID]finance.SpendingLimit),
		categories:   make(map[uuid.UUID]finance.CustomCategory),
		snapshots:    make(map[uuid.UUID]finance.ScoreSnapshot),
		txIdem:       make(map[uuid.UUID]map[string]uuid.UUID),
	}
}

// Seed helpers for local dev/tests.
func (s *Store) SeedTransaction(t finance.Transaction) {
	s.mu.Lock()
	s.transactions[t.ID] = t
	s.mu.Unlock()
}

func (s *Store) SeedGoal(g finance.SpendingGoal) {
	s.mu.Lock()
	s.goals[g.ID] = g
	s.mu.Unlock()
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.transactions = map[uuid.UUID]finance.Transaction{}
	s.goals = map[uuid.UUID]finance.SpendingGoal{}
	s.budgets = map[uuid.UUID]finance.Budget{}
	s.limits = map[uuid.UUID]finance.SpendingLimit{}
	s.categories = map[uuid.UUID]finance.CustomCategory{}
	s.snapshots = map[uuid.UUID]finance.ScoreSnapshot{}
	s.txIdem = map[uuid.UUID]map[string]uuid.UUID{}
	s.mu.Unlock()
}

// --- Transactions ---

func (s *Store) GetTransaction(_ context.Context, userID, txID uuid.UUID) (finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[txID]
	if !ok || t.UserID != userID {
		return finance.Transaction{}, errs.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, userID uuid.UUID, f ledger.Filter) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
			continue
		}
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && t.Date.After(*f.To) {
			continue
		}
		out = append(out, t)
	}
	// deterministic order: date asc, id asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, t finance.Transaction) (finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t finance.Transaction) (finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return finance.Transaction{}, errs.ErrNotFound
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, txID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[txID]
	if !ok || t.UserID != userID {
		return errs.ErrNotFound
	}
	delete(s.transactions, txID)
	return nil
}

// --- Goals ---

func (s *Store) GetGoal(_ context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	return g, nil
}

func (s *Store) ListGoals(_ context.Context, userID uuid.UUID) ([]finance.SpendingGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.SpendingGoal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g finance.SpendingGoal) (finance.SpendingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.goals[g.ID]
	if !ok || cur.UserID != g.UserID {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	// progress fields only move through the progress operations
	g.CurrentMinor = cur.CurrentMinor
	g.Status = g.Status.Advance(g.CurrentMinor, g.TargetMinor)
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, goalID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return errs.ErrNotFound
	}
	delete(s.goals, goalID)
	return nil
}

// SetGoalProgress sets the current amount absolutely and applies the
// completion latch, all under the write lock.
func (s *Store) SetGoalProgress(_ context.Context, userID, goalID uuid.UUID, amountMinor int64) (finance.SpendingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	g.SetProgress(amountMinor)
	g.UpdatedAt = time.Now().UTC()
	s.goals[goalID] = g
	return g, nil
}

// ApplyGoalDelta adds delta to the current amount with a floor of zero and
// applies the completion latch, all under the write lock.
func (s *Store) ApplyGoalDelta(_ context.Context, userID, goalID uuid.UUID, deltaMinor int64) (finance.SpendingGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return finance.SpendingGoal{}, errs.ErrNotFound
	}
	g.CurrentMinor += deltaMinor
	if g.CurrentMinor < 0 {
		g.CurrentMinor = 0
	}
	g.Status = g.Status.Advance(g.CurrentMinor, g.TargetMinor)
	g.UpdatedAt = time.Now().UTC()
	s.goals[goalID] = g
	return g, nil
}

// --- Budgets ---

func (s *Store) GetBudget(_ context.Context, userID, budgetID uuid.UUID) (finance.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return finance.Budget{}, errs.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID uuid.UUID) ([]finance.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, b finance.Budget) (finance.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b finance.Budget) (finance.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.budgets[b.ID]
	if !ok || cur.UserID != b.UserID {
		return finance.Budget{}, errs.ErrNotFound
	}
	b.SpentMinor = cur.SpentMinor
	b.Recompute()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, budgetID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return errs.ErrNotFound
	}
	delete(s.budgets, budgetID)
	return nil
}

// SetBudgetSpending sets the spent amount absolutely and recomputes
// remaining/status under the write lock.
func (s *Store) SetBudgetSpending(_ context.Context, userID, budgetID uuid.UUID, spentMinor int64) (finance.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return finance.Budget{}, errs.ErrNotFound
	}
	b.SpentMinor = spentMinor
	b.Recompute()
	b.UpdatedAt = time.Now().UTC()
	s.budgets[budgetID] = b
	return b, nil
}

// --- Spending limits ---

func (s *Store) GetLimit(_ context.Context, userID, limitID uuid.UUID) (finance.SpendingLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.limits[limitID]
	if !ok || l.UserID != userID {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	return l, nil
}

func (s *Store) ListLimits(_ context.Context, userID uuid.UUID) ([]finance.SpendingLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.SpendingLimit, 0)
	for _, l := range s.limits {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateLimit(_ context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[l.ID] = l
	return l, nil
}

func (s *Store) UpdateLimit(_ context.Context, l finance.SpendingLimit) (finance.SpendingLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.limits[l.ID]
	if !ok || cur.UserID != l.UserID {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	l.CurrentMinor = cur.CurrentMinor
	l.Recompute()
	s.limits[l.ID] = l
	return l, nil
}

func (s *Store) DeleteLimit(_ context.Context, userID, limitID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limits[limitID]
	if !ok || l.UserID != userID {
		return errs.ErrNotFound
	}
	delete(s.limits, limitID)
	return nil
}

// ApplyLimitDelta adds delta to the current spend with a floor of zero and
// recomputes the status under the write lock.
func (s *Store) ApplyLimitDelta(_ context.Context, userID, limitID uuid.UUID, deltaMinor int64) (finance.SpendingLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limits[limitID]
	if !ok || l.UserID != userID {
		return finance.SpendingLimit{}, errs.ErrNotFound
	}
	l.ApplySpending(deltaMinor)
	l.UpdatedAt = time.Now().UTC()
	s.limits[limitID] = l
	return l, nil
}

// --- Custom categories ---

func (s *Store) GetCategory(_ context.Context, userID, categoryID uuid.UUID) (finance.CustomCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return finance.CustomCategory{}, errs.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, userID uuid.UUID) ([]finance.CustomCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]finance.CustomCategory, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, c finance.CustomCategory) (finance.CustomCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c finance.CustomCategory) (finance.CustomCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[c.ID]
	if !ok || cur.UserID != c.UserID {
		return finance.CustomCategory{}, errs.ErrNotFound
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, categoryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return errs.ErrNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

// CategoryUsage counts transactions and goals that reference the category
// name, case-insensitively.
func (s *Store) CategoryUsage(_ context.Context, userID uuid.UUID, name string) (finance.UsageCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out finance.UsageCounts
	for _, t := range s.transactions {
		if t.UserID == userID && strings.EqualFold(t.Category, name) {
			out.Transactions++
		}
	}
	for _, g := range s.goals {
		if g.UserID == userID && strings.EqualFold(g.Category, name) {
			out.Goals++
		}
	}
	return out, nil
}

// --- Aggregates for scoring ---

func (s *Store) aggregateLocked(userID uuid.UUID, now time.Time) finance.UserAggregates {
	agg := finance.UserAggregates{UserID: userID}
	days := map[string]struct{}{}
	days30 := map[string]struct{}{}
	cutoff := now.AddDate(0, 0, -30)
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		agg.Transactions++
		switch t.Type {
		case finance.TransactionIncome:
			agg.IncomeMinor += t.AmountMinor
		case finance.TransactionExpense:
			agg.ExpenseMinor += t.AmountMinor
		}
		day := t.Date.UTC().Format("2006-01-02")
		days[day] = struct{}{}
		if !t.Date.Before(cutoff) {
			days30[day] = struct{}{}
		}
	}
	for _, g := range s.goals {
		if g.UserID == userID && g.Status == finance.GoalStatusCompleted {
			agg.CompletedGoals++
		}
	}
	agg.ActiveDays = len(days)
	agg.ActiveDaysLast30 = len(days30)
	return agg
}

// AggregateUser implements ranking.Repo. A user with no transactions at
// all yields errs.ErrNotFound.
func (s *Store) AggregateUser(_ context.Context, userID uuid.UUID) (finance.UserAggregates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg := s.aggregateLocked(userID, time.Now().UTC())
	if agg.Transactions == 0 {
		return finance.UserAggregates{}, errs.ErrNotFound
	}
	return agg, nil
}

// AggregateAll implements ranking.Repo.
func (s *Store) AggregateAll(_ context.Context) ([]finance.UserAggregates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[uuid.UUID]struct{}{}
	for _, t := range s.transactions {
		seen[t.UserID] = struct{}{}
	}
	now := time.Now().UTC()
	out := make([]finance.UserAggregates, 0, len(seen))
	for id := range seen {
		out = append(out, s.aggregateLocked(id, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, nil
}

// --- Score snapshots ---

func (s *Store) ScoreSnapshots(_ context.Context) (map[uuid.UUID]finance.ScoreSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]finance.ScoreSnapshot, len(s.snapshots))
	for id, snap := range s.snapshots {
		out[id] = snap
	}
	return out, nil
}

func (s *Store) UpsertScoreSnapshots(_ context.Context, snaps []finance.ScoreSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snaps {
		s.snapshots[snap.UserID] = snap
	}
	return nil
}

// --- Idempotency ---

// GetTransactionByIdempotencyKey resolves a transaction by idempotency key.
func (s *Store) GetTransactionByIdempotencyKey(_ context.Context, userID uuid.UUID, key string) (finance.Transaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.txIdem[userID]; ok {
		if id, ok2 := m[key]; ok2 {
			if t, ok3 := s.transactions[id]; ok3 {
				return t, true, nil
			}
		}
	}
	return finance.Transaction{}, false, nil
}

// SaveIdempotencyKey stores a mapping from (user,key) to transaction id.
func (s *Store) SaveIdempotencyKey(_ context.Context, userID uuid.UUID, key string, txID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.txIdem[userID]
	if !ok {
		m = make(map[string]uuid.UUID)
		s.txIdem[userID] = m
	}
	// Only set if absent to preserve idempotency
	if _, exists := m[key]; !exists {
		m[key] = txID
	}
	return nil
}
