package finance

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// League is a score-bucketed rank label used for leaderboard display.
type League string

const (
	LeagueBronze   League = "bronze"
	LeagueSilver   League = "silver"
	LeagueGold     League = "gold"
	LeaguePlatinum League = "platinum"
	LeagueDiamond  League = "diamond"
)

// Trend reports how a user's score moved since the previous snapshot.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// Score weights and thresholds. Savings are scored per rounded major unit,
// goals per completion, consistency per distinct activity day.
const (
	savingsWeight     = 0.1
	pointsPerGoal     = 50
	pointsPerDay      = 5
	pointsPerLevel    = 500
	diamondThreshold  = 10000
	platinumThreshold = 7500
	goldThreshold     = 5000
	silverThreshold   = 2500
)

// UserAggregates is the per-user rollup of ledger history the scoring
// engine derives everything from.
type UserAggregates struct {
	UserID           uuid.UUID
	IncomeMinor      int64
	ExpenseMinor     int64
	CompletedGoals   int
	ActiveDays       int
	ActiveDaysLast30 int
	Transactions     int
}

// NetSavingsMinor is lifetime income minus expense.
func (a UserAggregates) NetSavingsMinor() int64 { return a.IncomeMinor - a.ExpenseMinor }

// ScoreBreakdown explains one component of a computed score.
type ScoreBreakdown struct {
	Component string  `json:"component"`
	Points    float64 `json:"points"`
	Detail    string  `json:"detail"`
}

// ScoreCalculation is the derived gamification score. It is a pure function
// of the user's ledger state and is never stored as authoritative.
type ScoreCalculation struct {
	SavingsScore     float64          `json:"savings_score"`
	GoalsScore       float64          `json:"goals_score"`
	ConsistencyScore float64          `json:"consistency_score"`
	BonusScore       float64          `json:"bonus_score"`
	TotalScore       float64          `json:"total_score"`
	Breakdown        []ScoreBreakdown `json:"breakdown"`
}

// ComputeScore derives the weighted score from a user's aggregates.
// Monetary values are treated as minor units with a fixed exponent of 2
// when converted to major units for the savings component.
func ComputeScore(a UserAggregates) ScoreCalculation {
	netMajor := float64(a.NetSavingsMinor()) / 100
	s := ScoreCalculation{
		SavingsScore:     math.Round(netMajor) * savingsWeight,
		GoalsScore:       float64(a.CompletedGoals * pointsPerGoal),
		ConsistencyScore: float64(a.ActiveDays * pointsPerDay),
		// BonusScore is reserved for badge-derived bonuses.
		BonusScore: 0,
	}
	s.TotalScore = s.SavingsScore + s.GoalsScore + s.ConsistencyScore + s.BonusScore
	s.Breakdown = []ScoreBreakdown{
		{Component: "savings", Points: s.SavingsScore, Detail: "0.1 per unit of net savings"},
		{Component: "goals", Points: s.GoalsScore, Detail: "50 per completed goal"},
		{Component: "consistency", Points: s.ConsistencyScore, Detail: "5 per active day"},
		{Component: "bonus", Points: s.BonusScore, Detail: "reserved"},
	}
	return s
}

// Level buckets a total score into 500-point levels, starting at 1.
func Level(totalScore float64) int {
	return int(math.Floor(totalScore/pointsPerLevel)) + 1
}

// LeagueFor maps a total score to its league tier. Boundaries are
// inclusive on the lower bound and evaluated highest first.
func LeagueFor(totalScore float64) League {
	switch {
	case totalScore >= diamondThreshold:
		return LeagueDiamond
	case totalScore >= platinumThreshold:
		return LeaguePlatinum
	case totalScore >= goldThreshold:
		return LeagueGold
	case totalScore >= silverThreshold:
		return LeagueSilver
	default:
		return LeagueBronze
	}
}

// Percentile returns the percentile of score within population. The rank is
// the 1-indexed position of the first score >= target in ascending order,
// so the bottom member of an N-person population lands at 100/N rather
// than 0.
func Percentile(score float64, population []float64) float64 {
	if len(population) == 0 {
		return 0
	}
	sorted := make([]float64, len(population))
	copy(sorted, population)
	sort.Float64s(sorted)
	rank := sort.SearchFloat64s(sorted, score) + 1
	return float64(rank) / float64(len(sorted)) * 100
}

// TrendFrom compares a fresh total against the previously snapshotted one.
func TrendFrom(current, previous float64) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendSame
	}
}

// ScoreSnapshot is the persisted total/level row used to derive real trend
// deltas between ranking reads.
type ScoreSnapshot struct {
	UserID     uuid.UUID
	TotalScore float64
	Level      int
	UpdatedAt  time.Time
}

// LeaderboardEntry is one row of an ordered ranking view.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Rank   int       `json:"rank"`
	// ValueMinor is the metric the board is ordered by, in minor units
	// for monetary boards and plain counts otherwise.
	ValueMinor int64   `json:"value_minor"`
	TotalScore float64 `json:"total_score"`
	League     League  `json:"league"`
	Trend      Trend   `json:"trend"`
}

// UserRanking is the requesting user's position among all users.
type UserRanking struct {
	UserID     uuid.UUID `json:"user_id"`
	Rank       int       `json:"rank"`
	Percentile float64   `json:"percentile"`
	Level      int       `json:"level"`
	League     League    `json:"league"`
	TotalScore float64   `json:"total_score"`
	// Badges is an extension point; no badges are awarded yet.
	Badges []string `json:"badges"`
	Trend  Trend    `json:"trend"`
}

// CategoryLeaderboards groups the three independent category rankings.
type CategoryLeaderboards struct {
	Savings        []LeaderboardEntry `json:"savings"`
	CompletedGoals []LeaderboardEntry `json:"completed_goals"`
	ActiveDays     []LeaderboardEntry `json:"active_days"`
}

// RankingData is the composed ranking read model.
type RankingData struct {
	User       UserRanking          `json:"user_ranking"`
	Global     []LeaderboardEntry   `json:"global"`
	Peers      []LeaderboardEntry   `json:"peers"`
	Categories CategoryLeaderboards `json:"categories"`
	Stats      RankingStats         `json:"stats"`
}

// RankingStats summarizes the aggregates behind the requesting user's score.
type RankingStats struct {
	IncomeMinor    int64 `json:"income_minor"`
	ExpenseMinor   int64 `json:"expense_minor"`
	NetMinor       int64 `json:"net_minor"`
	CompletedGoals int   `json:"completed_goals"`
	ActiveDays     int   `json:"active_days"`
	Transactions   int   `json:"transactions"`
}
