package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/meta"
)

type ctxKey string

const ctxKeyPostTransaction ctxKey = "validatedPostTransaction"
const ctxKeyListTransactions ctxKey = "validatedListTransactions"
const ctxKeyPostGoal ctxKey = "validatedPostGoal"
const ctxKeyPostBudget ctxKey = "validatedPostBudget"
const ctxKeyPostLimit ctxKey = "validatedPostLimit"
const ctxKeyPostCategory ctxKey = "validatedPostCategory"

// validatePostTransaction parses POST /v1/transactions, runs the service
// validation, and stashes the parsed request in the request context.
func (s *Server) validatePostTransaction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req postTransactionRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if req.Metadata != nil {
				if err := meta.New(req.Metadata).Validate(); err != nil {
					unprocessable(w, "validation_error", "validation_error")
					return
				}
			}
			t := toTransactionDomain(req)
			if err := s.ledgerSvc.Validate(t); err != nil {
				unprocessable(w, err.Error(), "validation_error")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostTransaction, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateListTransactions parses query params for GET /v1/transactions.
func (s *Server) validateListTransactions() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			raw := q.Get("user_id")
			if raw == "" {
				badRequest(w, "user_id is required")
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				badRequest(w, "invalid user_id")
				return
			}
			query := listTransactionsQuery{UserID: userID}
			if t := q.Get("type"); t != "" {
				if !finance.TransactionType(t).Valid() {
					badRequest(w, "invalid type")
					return
				}
				query.Type = t
			}
			query.Category = q.Get("category")
			if v := q.Get("from"); v != "" {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					badRequest(w, "invalid from")
					return
				}
				tt := t.UTC()
				query.From = &tt
			}
			if v := q.Get("to"); v != "" {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					badRequest(w, "invalid to")
					return
				}
				tt := t.UTC()
				query.To = &tt
			}
			ctx := context.WithValue(r.Context(), ctxKeyListTransactions, query)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostGoal parses POST /v1/goals and validates via the goal service.
func (s *Server) validatePostGoal() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req postGoalRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if req.Metadata != nil {
				if err := meta.New(req.Metadata).Validate(); err != nil {
					unprocessable(w, "validation_error", "validation_error")
					return
				}
			}
			g := toGoalDomain(req)
			if err := s.goalSvc.ValidateCreate(g); err != nil {
				unprocessable(w, err.Error(), "validation_error")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostGoal, g)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostBudget parses POST /v1/budgets and validates via the budget
// service.
func (s *Server) validatePostBudget() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req postBudgetRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			b := toBudgetDomain(req)
			if err := s.budgetSvc.ValidateBudget(b); err != nil {
				unprocessable(w, err.Error(), "validation_error")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostBudget, b)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostLimit parses POST /v1/limits and validates via the budget
// service.
func (s *Server) validatePostLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req postLimitRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			l := toLimitDomain(req)
			if err := s.budgetSvc.ValidateLimit(l); err != nil {
				unprocessable(w, err.Error(), "validation_error")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostLimit, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostCategory parses POST /v1/categories.
func (s *Server) validatePostCategory() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requireJSON(w, r) {
				return
			}
			var req postCategoryRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				badRequest(w, "invalid JSON: "+err.Error())
				return
			}
			if req.UserID == uuid.Nil {
				badRequest(w, "user_id is required")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostCategory, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func toTransactionDomain(req postTransactionRequest) finance.Transaction {
	return finance.Transaction{
		UserID:      req.UserID,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Type:        req.Type,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		Metadata:    meta.New(req.Metadata),
	}
}

func toGoalDomain(req postGoalRequest) finance.SpendingGoal {
	g := finance.SpendingGoal{
		UserID:      req.UserID,
		Title:       req.Title,
		GoalType:    req.GoalType,
		Category:    req.Category,
		Currency:    req.Currency,
		TargetMinor: req.TargetMinor,
		Period:      req.Period,
		Description: req.Description,
		Metadata:    meta.New(req.Metadata),
	}
	if req.StartDate != nil {
		g.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		g.EndDate = req.EndDate.UTC()
	}
	return g
}

func toBudgetDomain(req postBudgetRequest) finance.Budget {
	b := finance.Budget{
		UserID:         req.UserID,
		Category:       req.Category,
		Currency:       req.Currency,
		AllocatedMinor: req.AllocatedMinor,
		Period:         req.Period,
	}
	if req.StartDate != nil {
		b.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		b.EndDate = req.EndDate.UTC()
	}
	return b
}

func toLimitDomain(req postLimitRequest) finance.SpendingLimit {
	l := finance.SpendingLimit{
		UserID:     req.UserID,
		Category:   req.Category,
		Currency:   req.Currency,
		LimitMinor: req.LimitMinor,
		Period:     req.Period,
	}
	if req.StartDate != nil {
		l.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		l.EndDate = req.EndDate.UTC()
	}
	return l
}
