// Package v1 wires the HTTP surface of the finance progress service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"log/slog"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/budget"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/category"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/goal"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ranking"
)

// Server wires handlers and middleware using Chi.
// It composes read (repo) and write (writer) dependencies through services.
type Server struct {
	ledgerSvc   ledger.Service
	goalSvc     goal.Service
	budgetSvc   budget.Service
	categorySvc category.Service
	rankingSvc  ranking.Service
	idemStore   IdempotencyStore
	log         *slog.Logger
	rt          *chi.Mux
}

// New constructs the HTTP server with routes and middleware. The goal
// service doubles as the transaction applier so posting a linked
// transaction moves goal progress through the same code path everywhere.
func New(idem IdempotencyStore, lrepo ledger.Repo, lwriter ledger.Writer, grepo goal.Repo, gwriter goal.Writer, brepo budget.Repo, bwriter budget.Writer, crepo category.Repo, cwriter category.Writer, rrepo ranking.Repo, rwriter ranking.Writer, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	goalSvc := goal.New(grepo, gwriter)
	s := &Server{
		ledgerSvc:   ledger.New(lrepo, lwriter, goalSvc),
		goalSvc:     goalSvc,
		budgetSvc:   budget.New(brepo, bwriter),
		categorySvc: category.New(crepo, cwriter),
		rankingSvc:  ranking.New(rrepo, rwriter),
		idemStore:   idem,
		rt:          r,
		log:         logger,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Transactions (v1)
	s.rt.With(s.validatePostTransaction()).Post("/v1/transactions", s.postTransaction)
	s.rt.With(s.validateListTransactions()).Get("/v1/transactions", s.listTransactions)
	s.rt.Get("/v1/transactions/{id}", s.getTransaction)
	s.rt.Patch("/v1/transactions/{id}", s.patchTransaction)
	s.rt.Delete("/v1/transactions/{id}", s.deleteTransaction)
	// Goals (v1)
	s.rt.With(s.validatePostGoal()).Post("/v1/goals", s.postGoal)
	s.rt.Get("/v1/goals", s.listGoals)
	s.rt.Get("/v1/goals/{id}", s.getGoal)
	s.rt.Patch("/v1/goals/{id}", s.patchGoal)
	s.rt.Delete("/v1/goals/{id}", s.deleteGoal)
	s.rt.Post("/v1/goals/{id}/progress", s.postGoalProgress)
	s.rt.Get("/v1/goals/{id}/progress", s.getGoalProgress)
	s.rt.Post("/v1/goals/{id}/transactions", s.postGoalTransaction)
	// Budgets (v1)
	s.rt.With(s.validatePostBudget()).Post("/v1/budgets", s.postBudget)
	s.rt.Get("/v1/budgets", s.listBudgets)
	s.rt.Get("/v1/budgets/{id}", s.getBudget)
	s.rt.Patch("/v1/budgets/{id}", s.patchBudget)
	s.rt.Delete("/v1/budgets/{id}", s.deleteBudget)
	s.rt.Post("/v1/budgets/{id}/spending", s.postBudgetSpending)
	// Spending limits (v1)
	s.rt.With(s.validatePostLimit()).Post("/v1/limits", s.postLimit)
	s.rt.Get("/v1/limits", s.listLimits)
	s.rt.Get("/v1/limits/{id}", s.getLimit)
	s.rt.Patch("/v1/limits/{id}", s.patchLimit)
	s.rt.Delete("/v1/limits/{id}", s.deleteLimit)
	s.rt.Post("/v1/limits/{id}/spending", s.postLimitSpending)
	// Categories (v1)
	s.rt.With(s.validatePostCategory()).Post("/v1/categories", s.postCategory)
	s.rt.Get("/v1/categories", s.listCategories)
	s.rt.Get("/v1/categories/defaults", s.getCategoryDefaults)
	s.rt.Get("/v1/categories/{id}/usage", s.getCategoryUsage)
	s.rt.Post("/v1/categories/{id}/archive", s.archiveCategory)
	s.rt.Delete("/v1/categories/{id}", s.deleteCategory)
	// Rankings (v1)
	s.rt.Get("/v1/rankings", s.getRankings)
	s.rt.Get("/v1/rankings/score", s.getScore)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
