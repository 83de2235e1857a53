package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"log/slog"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	httpapi "github.com/TheuusWmv/ProjetoFynx-sub000/internal/httpapi/v1"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/memory"
	pgstore "github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	var srvMux http.Handler
	var closeFn func()

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		// Use Postgres store when DATABASE_URL is provided
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		// Optional dev seed for compose/local
		if dev := strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED"))); dev == "1" || dev == "true" || dev == "yes" {
			userID, err := pg.SeedDev(ctx)
			if err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				logger.Info("DEV seed (postgres)", "user_id", userID.String())
				printDevSeedBanner(userID)
			}
		}
		srvMux = httpapi.New(pg, pg, pg, pg, pg, pg, pg, pg, pg, pg, pg, logger).Handler()
		logger.Info("storage backend: postgres")
	} else {
		// Default to in-memory store with a small dev seed
		store := memory.New()
		userID := seedMemory(store)
		logger.Info("DEV seed (memory)", "user_id", userID.String())
		printDevSeedBanner(userID)
		srvMux = httpapi.New(store, store, store, store, store, store, store, store, store, store, store, logger).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("finance service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// seedMemory loads a dev user with a couple of transactions and a goal so
// the API has data to serve out of the box.
func seedMemory(store *memory.Store) uuid.UUID {
	userID := uuid.New()
	now := time.Now().UTC()
	store.SeedTransaction(finance.Transaction{
		ID: uuid.New(), UserID: userID, AmountMinor: 250_000, Currency: "GBP",
		Type: finance.TransactionIncome, Category: "salary", Date: now.AddDate(0, 0, -14),
		Notes: "monthly salary", CreatedAt: now, UpdatedAt: now,
	})
	store.SeedTransaction(finance.Transaction{
		ID: uuid.New(), UserID: userID, AmountMinor: 6_450, Currency: "GBP",
		Type: finance.TransactionExpense, Category: "groceries", Date: now.AddDate(0, 0, -2),
		Notes: "weekly shop", CreatedAt: now, UpdatedAt: now,
	})
	store.SeedGoal(finance.SpendingGoal{
		ID: uuid.New(), UserID: userID, Title: "Holiday fund", GoalType: finance.GoalTypeSaving,
		Category: "savings", Currency: "GBP", TargetMinor: 100_000, Period: finance.GoalPeriodMonthly,
		StartDate: now, EndDate: now.AddDate(0, 1, 0), Status: finance.GoalStatusActive,
		CreatedAt: now, UpdatedAt: now,
	})
	return userID
}

// printDevSeedBanner prints a simple banner to stdout for easy copy/paste of IDs
func printDevSeedBanner(userID uuid.UUID) {
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("user_id: %s\n", userID.String())
	fmt.Println("==================================================")
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
