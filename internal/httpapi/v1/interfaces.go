package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/budget"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/category"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/goal"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ranking"
)

// IdempotencyStore abstracts idempotency key operations for transactions.
type IdempotencyStore interface {
	// GetTransactionByIdempotencyKey resolves a transaction by idempotency key for the user.
	GetTransactionByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (finance.Transaction, bool, error)
	// SaveIdempotencyKey stores an idempotency key mapping for a transaction.
	SaveIdempotencyKey(ctx context.Context, userID uuid.UUID, key string, txID uuid.UUID) error
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Repository composes every store-side interface the API consumes.
// It is a convenience union satisfied by the in-memory and Postgres stores.
type Repository interface {
	ledger.Repo
	ledger.Writer
	goal.Repo
	goal.Writer
	budget.Repo
	budget.Writer
	category.Repo
	category.Writer
	ranking.Repo
	ranking.Writer
	IdempotencyStore
}
