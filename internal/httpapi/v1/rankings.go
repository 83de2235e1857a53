package v1

import (
	"net/http"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/dictionary"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// getRankings handles GET /v1/rankings, returning the full leaderboard
// view: the user's own ranking, the global and peer boards, the category
// boards, summary stats, and the league tier definitions for display.
func (s *Server) getRankings(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	data, err := s.rankingSvc.RankingData(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := struct {
		finance.RankingData
		Leagues []dictionary.LeagueDef `json:"leagues"`
	}{data, dictionary.Leagues()}
	toJSON(w, http.StatusOK, out)
}

// getScore handles GET /v1/rankings/score, returning the weighted score
// breakdown for a single user.
func (s *Server) getScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	calc, err := s.rankingSvc.Score(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, calc)
}
