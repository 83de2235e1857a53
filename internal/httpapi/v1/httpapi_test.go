package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type txResp struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	AmountMinor int64  `json:"amount_minor"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

type goalResp struct {
	ID           string `json:"id"`
	TargetMinor  int64  `json:"target_minor"`
	CurrentMinor int64  `json:"current_minor"`
	Status       string `json:"status"`
	EndDate      string `json:"end_date"`
}

type budgetResp struct {
	ID             string `json:"id"`
	RemainingMinor int64  `json:"remaining_minor"`
	Status         string `json:"status"`
}

type limitResp struct {
	ID           string `json:"id"`
	CurrentMinor int64  `json:"current_minor"`
	Status       string `json:"status"`
}

type catResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func setup(t *testing.T) (*memory.Store, http.Handler, uuid.UUID) {
	t.Helper()
	store := memory.New()
	h := New(store, store, store, store, store, store, store, store, store, store, store, testLogger()).Handler()
	return store, h, uuid.New()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v: %s", err, rec.Body.String())
	}
	return v
}

func TestPostTransactions_ValidAndInvalid(t *testing.T) {
	_, h, userID := setup(t)

	body := map[string]any{
		"user_id":      userID.String(),
		"amount_minor": 1500,
		"currency":     "USD",
		"type":         "expense",
		"category":     "eating_out",
		"date":         time.Now().UTC().Format(time.RFC3339),
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/transactions", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tr := decode[txResp](t, rec)
	if tr.AmountMinor != 1500 || tr.Amount == "" {
		t.Fatalf("unexpected response: %+v", tr)
	}

	// invalid amount is a 422 from the validation middleware
	body["amount_minor"] = 0
	rec = doJSON(t, h, http.MethodPost, "/v1/transactions", body, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	// wrong content type is a 415
	req := httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "text/plain")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec2.Code)
	}
}

func TestPostTransactions_IdempotencyKeyReplays(t *testing.T) {
	_, h, userID := setup(t)

	body := map[string]any{
		"user_id":      userID.String(),
		"amount_minor": 4200,
		"currency":     "USD",
		"type":         "income",
		"category":     "salary",
		"date":         time.Now().UTC().Format(time.RFC3339),
	}
	hdr := map[string]string{"Idempotency-Key": "pay-2026-06"}
	rec := doJSON(t, h, http.MethodPost, "/v1/transactions", body, hdr)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decode[txResp](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/v1/transactions", body, hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 replay, got %d: %s", rec.Code, rec.Body.String())
	}
	second := decode[txResp](t, rec)
	if first.ID != second.ID {
		t.Fatalf("replay must return the original row: %s vs %s", first.ID, second.ID)
	}
}

func TestGoals_LinkedTransactionCompletes(t *testing.T) {
	_, h, userID := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/goals", map[string]any{
		"user_id":      userID.String(),
		"title":        "Groceries cap",
		"goal_type":    "spending",
		"category":     "groceries",
		"currency":     "USD",
		"target_minor": 500,
		"period":       "monthly",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	g := decode[goalResp](t, rec)
	if g.EndDate == "" {
		t.Fatal("expected derived end date")
	}

	// Overshooting expense completes the goal and keeps the full amount
	rec = doJSON(t, h, http.MethodPost, "/v1/goals/"+g.ID+"/transactions?user_id="+userID.String(), map[string]any{
		"amount_minor": 600,
		"type":         "expense",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[goalResp](t, rec)
	if got.CurrentMinor != 600 || got.Status != "completed" {
		t.Fatalf("expected 600/completed, got %d/%s", got.CurrentMinor, got.Status)
	}

	// Progress view clamps percentage at 100
	rec = doJSON(t, h, http.MethodGet, "/v1/goals/"+g.ID+"/progress?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var prog struct {
		ProgressPct    float64 `json:"progress_pct"`
		RemainingMinor int64   `json:"remaining_minor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prog.ProgressPct != 100 || prog.RemainingMinor != 0 {
		t.Fatalf("expected clamped progress, got %+v", prog)
	}
}

func TestPostTransactions_UnknownGoalLeavesNoRow(t *testing.T) {
	_, h, userID := setup(t)

	body := map[string]any{
		"user_id":      userID.String(),
		"amount_minor": 2500,
		"currency":     "USD",
		"type":         "expense",
		"category":     "groceries",
		"date":         time.Now().UTC().Format(time.RFC3339),
		"goal_id":      uuid.NewString(),
	}
	hdr := map[string]string{"Idempotency-Key": "linked-1"}
	rec := doJSON(t, h, http.MethodPost, "/v1/transactions", body, hdr)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown goal, got %d: %s", rec.Code, rec.Body.String())
	}

	// The failed post persisted nothing, so the same key can post cleanly
	delete(body, "goal_id")
	rec = doJSON(t, h, http.MethodPost, "/v1/transactions", body, hdr)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on retry, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/transactions?user_id="+userID.String(), nil, nil)
	var rows []txResp
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
}

func TestGoals_ProgressAndPatchValidation(t *testing.T) {
	_, h, userID := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/goals", map[string]any{
		"user_id":      userID.String(),
		"title":        "Transport cap",
		"goal_type":    "spending",
		"category":     "transport",
		"currency":     "USD",
		"target_minor": 2000,
		"period":       "monthly",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	g := decode[goalResp](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/v1/goals/"+g.ID+"/progress?user_id="+userID.String(), map[string]any{
		"current_minor": -10,
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative progress: expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPatch, "/v1/goals/"+g.ID+"?user_id="+userID.String(), map[string]any{
		"target_minor": 0,
	}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero target: expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGoals_NotFound(t *testing.T) {
	_, h, userID := setup(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/goals/"+uuid.NewString()+"?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	er := decode[errResp](t, rec)
	if er.Code != "not_found" {
		t.Fatalf("unexpected error payload: %+v", er)
	}
}

func TestBudgets_SpendingExceeds(t *testing.T) {
	_, h, userID := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/budgets", map[string]any{
		"user_id":         userID.String(),
		"category":        "groceries",
		"currency":        "USD",
		"allocated_minor": 1000,
		"period":          "monthly",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	b := decode[budgetResp](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/v1/budgets/"+b.ID+"/spending?user_id="+userID.String(), map[string]any{
		"amount_minor": 1200,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[budgetResp](t, rec)
	if got.RemainingMinor != -200 || got.Status != "exceeded" {
		t.Fatalf("expected -200/exceeded, got %d/%s", got.RemainingMinor, got.Status)
	}
}

func TestLimits_StrictComparison(t *testing.T) {
	_, h, userID := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/limits", map[string]any{
		"user_id":     userID.String(),
		"category":    "eating_out",
		"currency":    "USD",
		"limit_minor": 10000,
		"period":      "weekly",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	l := decode[limitResp](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/v1/limits/"+l.ID+"/spending?user_id="+userID.String(), map[string]any{
		"amount_minor": 10000,
	}, nil)
	got := decode[limitResp](t, rec)
	if got.Status != "active" {
		t.Fatalf("spend equal to the cap must stay active, got %s", got.Status)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/limits/"+l.ID+"/spending?user_id="+userID.String(), map[string]any{
		"amount_minor": 1,
	}, nil)
	got = decode[limitResp](t, rec)
	if got.Status != "exceeded" {
		t.Fatalf("expected exceeded one unit over, got %s", got.Status)
	}
}

func TestCategories_Lifecycle(t *testing.T) {
	store, h, userID := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/categories", map[string]any{
		"user_id": userID.String(),
		"name":    "Pets",
		"type":    "expense",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	c := decode[catResp](t, rec)
	if c.Code != "pets" {
		t.Fatalf("expected slug code, got %q", c.Code)
	}

	// validation failures are 422, never 500
	for _, name := range []string{"   ", strings.Repeat("x", 60)} {
		rec = doJSON(t, h, http.MethodPost, "/v1/categories", map[string]any{
			"user_id": userID.String(),
			"name":    name,
			"type":    "expense",
		}, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("name %q: expected 422, got %d: %s", name, rec.Code, rec.Body.String())
		}
	}

	// duplicate (case-insensitive) is a conflict
	rec = doJSON(t, h, http.MethodPost, "/v1/categories", map[string]any{
		"user_id": userID.String(),
		"name":    "  PETS ",
		"type":    "expense",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// a referencing transaction blocks deletion
	now := time.Now().UTC()
	store.SeedTransaction(finance.Transaction{
		ID: uuid.New(), UserID: userID, AmountMinor: 900, Currency: "USD",
		Type: finance.TransactionExpense, Category: "pets", Date: now, CreatedAt: now, UpdatedAt: now,
	})
	rec = doJSON(t, h, http.MethodDelete, "/v1/categories/"+c.ID+"?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var del struct {
		Deleted bool `json:"deleted"`
		Usage   *struct {
			Transactions int64 `json:"transactions"`
			Goals        int64 `json:"goals"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &del); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if del.Deleted || del.Usage == nil || del.Usage.Transactions != 1 {
		t.Fatalf("expected blocked delete with usage, got %+v", del)
	}

	// archive is the fallback and is idempotent
	rec = doJSON(t, h, http.MethodPost, "/v1/categories/"+c.ID+"/archive?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCategories_Defaults(t *testing.T) {
	_, h, _ := setup(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/categories/defaults?type=expense", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Items []struct {
			Type       string `json:"type"`
			Categories []struct {
				Code  string `json:"code"`
				Label string `json:"label"`
			} `json:"categories"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Type != "expense" || len(out.Items[0].Categories) == 0 {
		t.Fatalf("unexpected defaults: %+v", out)
	}

	// without a type filter both curated sets come back, expense first
	rec = doJSON(t, h, http.MethodGet, "/v1/categories/defaults", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 2 || out.Items[0].Type != "expense" || out.Items[1].Type != "income" {
		t.Fatalf("unexpected untyped defaults: %+v", out)
	}
}

func TestRankings_ScoreAndLeaderboards(t *testing.T) {
	store, h, userID := setup(t)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	addTx := func(day int, amountMinor int64, typ finance.TransactionType) {
		ts := base.AddDate(0, 0, day)
		store.SeedTransaction(finance.Transaction{
			ID: uuid.New(), UserID: userID, AmountMinor: amountMinor, Currency: "USD",
			Type: typ, Category: "general", Date: ts, CreatedAt: ts, UpdatedAt: ts,
		})
	}
	addTx(0, 500_000, finance.TransactionIncome)
	for day := 1; day < 10; day++ {
		addTx(day, 300_000/9, finance.TransactionExpense)
	}
	addTx(9, 300_000-9*(300_000/9), finance.TransactionExpense)
	for i := 0; i < 2; i++ {
		store.SeedGoal(finance.SpendingGoal{
			ID: uuid.New(), UserID: userID, Title: "done", GoalType: finance.GoalTypeSpending,
			Category: "general", Currency: "USD", TargetMinor: 1_000, CurrentMinor: 1_000,
			Period: finance.GoalPeriodMonthly, StartDate: base, EndDate: base.AddDate(0, 1, 0),
			Status: finance.GoalStatusCompleted, CreatedAt: base, UpdatedAt: base,
		})
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/rankings/score?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var score struct {
		SavingsScore     float64 `json:"savings_score"`
		GoalsScore       float64 `json:"goals_score"`
		ConsistencyScore float64 `json:"consistency_score"`
		TotalScore       float64 `json:"total_score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &score); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if score.SavingsScore != 200 || score.GoalsScore != 100 || score.ConsistencyScore != 50 || score.TotalScore != 350 {
		t.Fatalf("unexpected score: %+v", score)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rankings?user_id="+userID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var data struct {
		User struct {
			Rank   int    `json:"rank"`
			Level  int    `json:"level"`
			League string `json:"league"`
			Trend  string `json:"trend"`
		} `json:"user_ranking"`
		Global []struct {
			UserID string `json:"user_id"`
		} `json:"global"`
		Leagues []struct {
			Code     string  `json:"code"`
			MinScore float64 `json:"min_score"`
		} `json:"leagues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.User.Rank != 1 || data.User.Level != 1 || data.User.League != "bronze" || data.User.Trend != "same" {
		t.Fatalf("unexpected ranking: %+v", data.User)
	}
	if len(data.Global) != 1 || data.Global[0].UserID != userID.String() {
		t.Fatalf("unexpected global board: %+v", data.Global)
	}
	if len(data.Leagues) != 5 || data.Leagues[0].Code != "bronze" || data.Leagues[4].MinScore != 10000 {
		t.Fatalf("unexpected league definitions: %+v", data.Leagues)
	}
}

func TestRankings_UnknownUserIsNotFound(t *testing.T) {
	_, h, _ := setup(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/rankings/score?user_id="+uuid.NewString(), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, h, _ := setup(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/readyz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}
