// Package ledger implements transaction CRUD against the row store. All
// reads and writes go through the store; there is no in-process
// transaction cache. Posting a transaction with a goal linkage also runs
// the goal applier so the linked goal's progress stays in step.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// Filter narrows a transaction listing.
type Filter struct {
	Type     finance.TransactionType
	Category string
	From     *time.Time
	To       *time.Time
}

// Repo defines read operations needed by the service.
type Repo interface {
	GetTransaction(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, f Filter) ([]finance.Transaction, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, error)
	UpdateTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error
}

// Applier resolves and updates a linked goal when a transaction posts
// against it. Satisfied by the goal service.
type Applier interface {
	Get(ctx context.Context, userID, goalID uuid.UUID) (finance.SpendingGoal, error)
	ApplyTransaction(ctx context.Context, userID, goalID uuid.UUID, amountMinor int64, t finance.TransactionType) (finance.SpendingGoal, error)
}

// Service exposes transaction operations.
type Service interface {
	Validate(t finance.Transaction) error
	Create(ctx context.Context, t finance.Transaction, goalID uuid.UUID) (finance.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, f Filter) ([]finance.Transaction, error)
	Get(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error)
	Update(ctx context.Context, userID, txID uuid.UUID, patch finance.TransactionPatch) (finance.Transaction, error)
	Delete(ctx context.Context, userID, txID uuid.UUID) error
}

type service struct {
	repo    Repo
	writer  Writer
	applier Applier
}

func New(repo Repo, writer Writer, applier Applier) Service {
	return &service{repo: repo, writer: writer, applier: applier}
}

func (s *service) Validate(t finance.Transaction) error {
	if t.UserID == uuid.Nil {
		return errs.ErrInvalid
	}
	if t.AmountMinor <= 0 {
		return errs.Validation("amount_minor must be > 0")
	}
	if !t.Type.Valid() {
		return errs.Validation("type must be income or expense")
	}
	if strings.TrimSpace(t.Category) == "" {
		return errs.Validation("category is required")
	}
	if _, err := money.NewAmountFromMinorUnits(strings.ToUpper(t.Currency), 0); err != nil {
		return errs.Validation("invalid currency")
	}
	return nil
}

// Create posts a transaction. When goalID is set the goal is resolved
// before the row is persisted, so a bad linkage rejects the whole request
// and leaves nothing behind; the goal's progress is then updated after the
// write.
func (s *service) Create(ctx context.Context, t finance.Transaction, goalID uuid.UUID) (finance.Transaction, error) {
	if err := s.Validate(t); err != nil {
		return finance.Transaction{}, err
	}
	if goalID != uuid.Nil {
		if _, err := s.applier.Get(ctx, t.UserID, goalID); err != nil {
			return finance.Transaction{}, err
		}
	}
	now := time.Now().UTC()
	t.ID = uuid.New()
	t.Currency = strings.ToUpper(t.Currency)
	if t.Date.IsZero() {
		t.Date = now
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	created, err := s.writer.CreateTransaction(ctx, t)
	if err != nil {
		return finance.Transaction{}, err
	}
	if goalID != uuid.Nil {
		if _, err := s.applier.ApplyTransaction(ctx, t.UserID, goalID, t.AmountMinor, t.Type); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, f Filter) ([]finance.Transaction, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListTransactions(ctx, userID, f)
}

func (s *service) Get(ctx context.Context, userID, txID uuid.UUID) (finance.Transaction, error) {
	if userID == uuid.Nil || txID == uuid.Nil {
		return finance.Transaction{}, errs.ErrInvalid
	}
	return s.repo.GetTransaction(ctx, userID, txID)
}

// Update applies a sparse patch and stamps UpdatedAt.
func (s *service) Update(ctx context.Context, userID, txID uuid.UUID, patch finance.TransactionPatch) (finance.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, userID, txID)
	if err != nil {
		return finance.Transaction{}, err
	}
	patch.Apply(&t)
	if err := s.Validate(t); err != nil {
		return finance.Transaction{}, err
	}
	if patch.Metadata != nil {
		m := t.Metadata.Clone()
		m.Merge(patch.Metadata)
		if err := m.Validate(); err != nil {
			return finance.Transaction{}, errs.Validation("invalid metadata")
		}
		t.Metadata = m
	}
	t.UpdatedAt = time.Now().UTC()
	return s.writer.UpdateTransaction(ctx, t)
}

func (s *service) Delete(ctx context.Context, userID, txID uuid.UUID) error {
	if userID == uuid.Nil || txID == uuid.Nil {
		return errs.ErrInvalid
	}
	return s.writer.DeleteTransaction(ctx, userID, txID)
}
