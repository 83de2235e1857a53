package finance

import (
	"testing"
	"time"
)

func TestGoalProgress_Basics(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g := SpendingGoal{
		TargetMinor:  30_000,
		CurrentMinor: 15_000,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 30),
	}
	// Halfway through the window with half the target accrued
	now := start.AddDate(0, 0, 15)
	p := g.Progress(now)

	if p.ProgressPct != 50 {
		t.Fatalf("expected 50%%, got %v", p.ProgressPct)
	}
	if p.RemainingMinor != 15_000 {
		t.Fatalf("expected remaining 15000, got %d", p.RemainingMinor)
	}
	if p.TotalDays != 30 || p.DaysRemaining != 15 {
		t.Fatalf("expected 30/15 days, got %d/%d", p.TotalDays, p.DaysRemaining)
	}
	if p.DailyTargetMinor != 1000 {
		t.Fatalf("expected daily target 1000, got %v", p.DailyTargetMinor)
	}
	if !p.OnTrack {
		t.Fatal("expected on track at expected pace")
	}
}

func TestGoalProgress_BehindPaceProjection(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g := SpendingGoal{
		TargetMinor:  30_000,
		CurrentMinor: 5_000,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 30),
	}
	now := start.AddDate(0, 0, 15)
	p := g.Progress(now)

	if p.OnTrack {
		t.Fatal("expected behind pace")
	}
	// Linear extrapolation pushes the projection past the end date
	if !p.ProjectedCompletion.After(g.EndDate) {
		t.Fatalf("expected projection past end date, got %v", p.ProjectedCompletion)
	}
}

func TestGoalProgress_ClampsPctAndRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g := SpendingGoal{
		TargetMinor:  10_000,
		CurrentMinor: 14_000,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 10),
	}
	p := g.Progress(start.AddDate(0, 0, 5))
	if p.ProgressPct != 100 {
		t.Fatalf("expected pct capped at 100, got %v", p.ProgressPct)
	}
	if p.RemainingMinor != 0 {
		t.Fatalf("expected remaining floored at 0, got %d", p.RemainingMinor)
	}
}

func TestGoalProgress_ZeroWindow(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g := SpendingGoal{TargetMinor: 10_000, StartDate: day, EndDate: day}
	p := g.Progress(day)

	if !p.OnTrack {
		t.Fatal("same-day goal must be treated as on track")
	}
	if p.DailyTargetMinor != float64(g.TargetMinor) {
		t.Fatalf("expected daily target to fall back to full target, got %v", p.DailyTargetMinor)
	}
	if !p.ProjectedCompletion.Equal(g.EndDate) {
		t.Fatalf("expected projection = end date, got %v", p.ProjectedCompletion)
	}
}

func TestGoalPeriod_PeriodEnd(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := GoalPeriodWeekly.PeriodEnd(start); !got.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("weekly end: %v", got)
	}
	if got := GoalPeriodMonthly.PeriodEnd(start); !got.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("monthly end: %v", got)
	}
	if got := GoalPeriodYearly.PeriodEnd(start); !got.Equal(start.AddDate(1, 0, 0)) {
		t.Fatalf("yearly end: %v", got)
	}
}
