package finance

import "testing"

func TestComputeScore_WeightedComponents(t *testing.T) {
	// Income 5000.00, expenses 3000.00, two completed goals, ten active days.
	a := UserAggregates{
		IncomeMinor:    500_000,
		ExpenseMinor:   300_000,
		CompletedGoals: 2,
		ActiveDays:     10,
		Transactions:   12,
	}
	s := ComputeScore(a)

	if s.SavingsScore != 200 {
		t.Fatalf("savings: expected 200, got %v", s.SavingsScore)
	}
	if s.GoalsScore != 100 {
		t.Fatalf("goals: expected 100, got %v", s.GoalsScore)
	}
	if s.ConsistencyScore != 50 {
		t.Fatalf("consistency: expected 50, got %v", s.ConsistencyScore)
	}
	if s.BonusScore != 0 {
		t.Fatalf("bonus: expected 0, got %v", s.BonusScore)
	}
	if s.TotalScore != 350 {
		t.Fatalf("total: expected 350, got %v", s.TotalScore)
	}
	if Level(s.TotalScore) != 1 {
		t.Fatalf("level: expected 1, got %d", Level(s.TotalScore))
	}
	if LeagueFor(s.TotalScore) != LeagueBronze {
		t.Fatalf("league: expected bronze, got %s", LeagueFor(s.TotalScore))
	}
	if len(s.Breakdown) != 4 {
		t.Fatalf("expected 4 breakdown rows, got %d", len(s.Breakdown))
	}
}

func TestComputeScore_NegativeNetSavings(t *testing.T) {
	a := UserAggregates{IncomeMinor: 100_000, ExpenseMinor: 250_000}
	s := ComputeScore(a)
	if s.SavingsScore != -150 {
		t.Fatalf("expected -150 savings score, got %v", s.SavingsScore)
	}
}

func TestLevel_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		level int
	}{
		{0, 1}, {499, 1}, {500, 2}, {999, 2}, {1000, 3}, {5200, 11},
	}
	for _, c := range cases {
		if got := Level(c.score); got != c.level {
			t.Errorf("Level(%v) = %d, want %d", c.score, got, c.level)
		}
	}
}

func TestLeagueFor_Thresholds(t *testing.T) {
	cases := []struct {
		score  float64
		league League
	}{
		{0, LeagueBronze},
		{2_499, LeagueBronze},
		{2_500, LeagueSilver},
		{5_000, LeagueGold},
		{7_500, LeaguePlatinum},
		{10_000, LeagueDiamond},
		{25_000, LeagueDiamond},
	}
	for _, c := range cases {
		if got := LeagueFor(c.score); got != c.league {
			t.Errorf("LeagueFor(%v) = %s, want %s", c.score, got, c.league)
		}
	}
}

func TestPercentile(t *testing.T) {
	pop := []float64{100, 200, 300, 400}
	// Bottom of the population lands at 100/N, not zero
	if got := Percentile(100, pop); got != 25 {
		t.Fatalf("bottom percentile: expected 25, got %v", got)
	}
	if got := Percentile(400, pop); got != 100 {
		t.Fatalf("top percentile: expected 100, got %v", got)
	}
	if got := Percentile(300, pop); got != 75 {
		t.Fatalf("mid percentile: expected 75, got %v", got)
	}
	if got := Percentile(100, nil); got != 0 {
		t.Fatalf("empty population: expected 0, got %v", got)
	}
}

func TestTrendFrom(t *testing.T) {
	if TrendFrom(100, 50) != TrendUp {
		t.Fatal("expected up")
	}
	if TrendFrom(50, 100) != TrendDown {
		t.Fatal("expected down")
	}
	if TrendFrom(100, 100) != TrendSame {
		t.Fatal("expected same")
	}
}
