// Package ranking implements the scoring and leaderboard engine. Scores
// are derived on demand from the full ledger; the only persisted artifact
// is the per-user total/level snapshot used to compute trend deltas
// between reads.
package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/errs"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

const (
	globalBoardSize   = 10
	peerBoardSize     = 5
	categoryBoardSize = 10
)

// Repo defines the aggregate reads the engine needs.
type Repo interface {
	// AggregateUser rolls up one user's ledger. It returns
	// errs.ErrNotFound when the user has no transactions at all.
	AggregateUser(ctx context.Context, userID uuid.UUID) (finance.UserAggregates, error)
	// AggregateAll rolls up every user with at least one transaction.
	AggregateAll(ctx context.Context) ([]finance.UserAggregates, error)
	// ScoreSnapshots returns the previously persisted score rows.
	ScoreSnapshots(ctx context.Context) (map[uuid.UUID]finance.ScoreSnapshot, error)
}

// Writer persists score snapshots.
type Writer interface {
	UpsertScoreSnapshots(ctx context.Context, snaps []finance.ScoreSnapshot) error
}

// Service exposes score and ranking reads.
type Service interface {
	Score(ctx context.Context, userID uuid.UUID) (finance.ScoreCalculation, error)
	RankingData(ctx context.Context, userID uuid.UUID) (finance.RankingData, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Score computes the weighted score for one user. It is a pure function of
// the user's ledger state.
func (s *service) Score(ctx context.Context, userID uuid.UUID) (finance.ScoreCalculation, error) {
	if userID == uuid.Nil {
		return finance.ScoreCalculation{}, errs.ErrInvalid
	}
	agg, err := s.repo.AggregateUser(ctx, userID)
	if err != nil {
		return finance.ScoreCalculation{}, err
	}
	return finance.ComputeScore(agg), nil
}

// RankingData composes the user's ranking, the leaderboards, and the stats
// behind the score. Trends compare fresh totals against the persisted
// snapshots, which are upserted afterwards; a first read reports "same".
func (s *service) RankingData(ctx context.Context, userID uuid.UUID) (finance.RankingData, error) {
	if userID == uuid.Nil {
		return finance.RankingData{}, errs.ErrInvalid
	}
	all, err := s.repo.AggregateAll(ctx)
	if err != nil {
		return finance.RankingData{}, err
	}
	var userAgg *finance.UserAggregates
	for i := range all {
		if all[i].UserID == userID {
			userAgg = &all[i]
			break
		}
	}
	if userAgg == nil || userAgg.Transactions == 0 {
		return finance.RankingData{}, errs.ErrNotFound
	}

	prev, err := s.repo.ScoreSnapshots(ctx)
	if err != nil {
		return finance.RankingData{}, err
	}

	scores := make(map[uuid.UUID]finance.ScoreCalculation, len(all))
	trends := make(map[uuid.UUID]finance.Trend, len(all))
	allTotals := make([]float64, 0, len(all))
	for _, a := range all {
		sc := finance.ComputeScore(a)
		scores[a.UserID] = sc
		allTotals = append(allTotals, sc.TotalScore)
		if p, ok := prev[a.UserID]; ok {
			trends[a.UserID] = finance.TrendFrom(sc.TotalScore, p.TotalScore)
		} else {
			trends[a.UserID] = finance.TrendSame
		}
	}

	userScore := scores[userID]
	data := finance.RankingData{
		User: finance.UserRanking{
			UserID:     userID,
			Rank:       rankByScore(all, scores, userID),
			Percentile: finance.Percentile(userScore.TotalScore, allTotals),
			Level:      finance.Level(userScore.TotalScore),
			League:     finance.LeagueFor(userScore.TotalScore),
			TotalScore: userScore.TotalScore,
			Badges:     []string{},
			Trend:      trends[userID],
		},
		Stats: finance.RankingStats{
			IncomeMinor:    userAgg.IncomeMinor,
			ExpenseMinor:   userAgg.ExpenseMinor,
			NetMinor:       userAgg.NetSavingsMinor(),
			CompletedGoals: userAgg.CompletedGoals,
			ActiveDays:     userAgg.ActiveDays,
			Transactions:   userAgg.Transactions,
		},
	}

	bySavings := func(a finance.UserAggregates) int64 { return a.NetSavingsMinor() }
	data.Global = board(all, scores, trends, bySavings, globalBoardSize, uuid.Nil)
	data.Peers = board(all, scores, trends, bySavings, peerBoardSize, userID)
	data.Categories = finance.CategoryLeaderboards{
		Savings:        board(all, scores, trends, bySavings, categoryBoardSize, uuid.Nil),
		CompletedGoals: board(all, scores, trends, func(a finance.UserAggregates) int64 { return int64(a.CompletedGoals) }, categoryBoardSize, uuid.Nil),
		ActiveDays:     board(all, scores, trends, func(a finance.UserAggregates) int64 { return int64(a.ActiveDaysLast30) }, categoryBoardSize, uuid.Nil),
	}

	snaps := make([]finance.ScoreSnapshot, 0, len(all))
	now := time.Now().UTC()
	for id, sc := range scores {
		snaps = append(snaps, finance.ScoreSnapshot{UserID: id, TotalScore: sc.TotalScore, Level: finance.Level(sc.TotalScore), UpdatedAt: now})
	}
	if err := s.writer.UpsertScoreSnapshots(ctx, snaps); err != nil {
		return finance.RankingData{}, err
	}
	return data, nil
}

// rankByScore returns the 1-indexed position of userID when all users are
// ordered by total score descending, ties broken by user id for
// determinism.
func rankByScore(all []finance.UserAggregates, scores map[uuid.UUID]finance.ScoreCalculation, userID uuid.UUID) int {
	ids := make([]uuid.UUID, 0, len(all))
	for _, a := range all {
		ids = append(ids, a.UserID)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]].TotalScore, scores[ids[j]].TotalScore
		if si == sj {
			return ids[i].String() < ids[j].String()
		}
		return si > sj
	})
	for i, id := range ids {
		if id == userID {
			return i + 1
		}
	}
	return len(ids)
}

// board builds an ordered leaderboard over the given metric, excluding
// exclude (the requesting user on the peer board) and capped at size.
func board(all []finance.UserAggregates, scores map[uuid.UUID]finance.ScoreCalculation, trends map[uuid.UUID]finance.Trend, metric func(finance.UserAggregates) int64, size int, exclude uuid.UUID) []finance.LeaderboardEntry {
	pool := make([]finance.UserAggregates, 0, len(all))
	for _, a := range all {
		if a.UserID == exclude {
			continue
		}
		pool = append(pool, a)
	}
	sort.Slice(pool, func(i, j int) bool {
		vi, vj := metric(pool[i]), metric(pool[j])
		if vi == vj {
			return pool[i].UserID.String() < pool[j].UserID.String()
		}
		return vi > vj
	})
	if len(pool) > size {
		pool = pool[:size]
	}
	out := make([]finance.LeaderboardEntry, 0, len(pool))
	for i, a := range pool {
		sc := scores[a.UserID]
		out = append(out, finance.LeaderboardEntry{
			UserID:     a.UserID,
			Rank:       i + 1,
			ValueMinor: metric(a),
			TotalScore: sc.TotalScore,
			League:     finance.LeagueFor(sc.TotalScore),
			Trend:      trends[a.UserID],
		})
	}
	return out
}
