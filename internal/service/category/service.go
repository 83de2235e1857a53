// Package category implements the custom category lifecycle: creation with
// a case-insensitive duplicate check, soft archival, and hard deletion
// gated on usage counts from the transaction and goal tables.
package category

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/slug"
)

// MaxNameLen bounds a custom category display name.
const MaxNameLen = 50

// Repo defines read operations needed by the service.
type Repo interface {
	GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (finance.CustomCategory, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]finance.CustomCategory, error)
	// CategoryUsage counts transactions and goals referencing the
	// category name for the user.
	CategoryUsage(ctx context.Context, userID uuid.UUID, name string) (finance.UsageCounts, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateCategory(ctx context.Context, c finance.CustomCategory) (finance.CustomCategory, error)
	UpdateCategory(ctx context.Context, c finance.CustomCategory) (finance.CustomCategory, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

// DeleteResult reports the outcome of a delete-if-unused attempt. A refusal
// is an expected branch, not an error: the caller offers archival instead.
type DeleteResult struct {
	Deleted bool
	Usage   finance.UsageCounts
}

// Service exposes custom category operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, name string, t finance.TransactionType) (finance.CustomCategory, error)
	List(ctx context.Context, userID uuid.UUID) ([]finance.CustomCategory, error)
	Usage(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) (finance.UsageCounts, error)
	Archive(ctx context.Context, userID, categoryID uuid.UUID) (bool, error)
	DeleteIfUnused(ctx context.Context, userID, categoryID uuid.UUID) (DeleteResult, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Create validates and persists a new active category. Uniqueness is
// checked case-insensitively against the user's active categories of the
// same type, by comparing slugified names.
func (s *service) Create(ctx context.Context, userID uuid.UUID, name string, t finance.TransactionType) (finance.CustomCategory, error) {
	if userID == uuid.Nil {
		return finance.CustomCategory{}, errs.ErrInvalid
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return finance.CustomCategory{}, errs.Validation("name is required")
	}
	if len(name) > MaxNameLen {
		return finance.CustomCategory{}, errs.Validation("name must be at most 50 characters")
	}
	if !t.Valid() {
		return finance.CustomCategory{}, errs.Validation("type must be income or expense")
	}
	code := slug.Slugify(name)
	existing, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return finance.CustomCategory{}, err
	}
	for _, c := range existing {
		if c.Active && c.Type == t && c.Code == code {
			return finance.CustomCategory{}, errs.ErrConflict
		}
	}
	c := finance.CustomCategory{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Code:      code,
		Type:      t,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	return s.writer.CreateCategory(ctx, c)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]finance.CustomCategory, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListCategories(ctx, userID)
}

// Usage reports how many rows reference the category's name.
func (s *service) Usage(ctx context.Context, userID, categoryID uuid.UUID) (finance.UsageCounts, error) {
	c, err := s.repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return finance.UsageCounts{}, err
	}
	return s.repo.CategoryUsage(ctx, userID, c.Name)
}

// Archive soft-disables the category. It is idempotent; the returned bool
// reports whether the row actually changed.
func (s *service) Archive(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	c, err := s.repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return false, err
	}
	if !c.Active {
		return false, nil
	}
	c.Active = false
	if _, err := s.writer.UpdateCategory(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteIfUnused hard-deletes the category only when no transaction or
// goal references its name. On refusal the usage counts are surfaced so
// the caller can offer archival as the fallback.
func (s *service) DeleteIfUnused(ctx context.Context, userID, categoryID uuid.UUID) (DeleteResult, error) {
	c, err := s.repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return DeleteResult{}, err
	}
	usage, err := s.repo.CategoryUsage(ctx, userID, c.Name)
	if err != nil {
		return DeleteResult{}, err
	}
	if usage.InUse() {
		return DeleteResult{Deleted: false, Usage: usage}, nil
	}
	if err := s.writer.DeleteCategory(ctx, userID, categoryID); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: true, Usage: usage}, nil
}
