package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// postGoal handles POST /v1/goals.
func (s *Server) postGoal(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostGoal)
	g, ok := v.(finance.SpendingGoal)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated request missing", "")
		return
	}
	saved, err := s.goalSvc.Create(r.Context(), g)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toGoalResponse(saved))
}

// listGoals handles GET /v1/goals.
func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	goals, err := s.goalSvc.List(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	toJSON(w, http.StatusOK, out)
}

// getGoal handles GET /v1/goals/{id}.
func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	g, err := s.goalSvc.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalResponse(g))
}

// patchGoal handles PATCH /v1/goals/{id}. Progress and status fields are
// not patchable here; they move through the progress endpoints.
func (s *Server) patchGoal(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req patchGoalRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	patch := finance.GoalPatch{
		Title:       req.Title,
		Category:    req.Category,
		TargetMinor: req.TargetMinor,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Paused:      req.Paused,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if req.Period != nil {
		p := finance.GoalPeriod(*req.Period)
		switch p {
		case finance.GoalPeriodWeekly, finance.GoalPeriodMonthly, finance.GoalPeriodYearly:
		default:
			badRequest(w, "invalid period")
			return
		}
		patch.Period = &p
	}
	g, err := s.goalSvc.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalResponse(g))
}

// deleteGoal handles DELETE /v1/goals/{id}.
func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if err := s.goalSvc.Delete(r.Context(), userID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postGoalProgress handles POST /v1/goals/{id}/progress, setting the
// current amount absolutely.
func (s *Server) postGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req goalProgressBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	g, err := s.goalSvc.SetProgress(r.Context(), userID, id, req.CurrentMinor)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalResponse(g))
}

// getGoalProgress handles GET /v1/goals/{id}/progress, returning the goal
// together with its derived progress metrics.
func (s *Server) getGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	g, p, err := s.goalSvc.Progress(r.Context(), userID, id, time.Now().UTC())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalProgressResponse(g, p))
}

// postGoalTransaction handles POST /v1/goals/{id}/transactions, folding a
// transaction amount into the goal without creating a ledger row.
func (s *Server) postGoalTransaction(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req goalTransactionBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.AmountMinor <= 0 {
		badRequest(w, "amount_minor must be > 0")
		return
	}
	if !req.Type.Valid() {
		badRequest(w, "invalid type")
		return
	}
	g, err := s.goalSvc.ApplyTransaction(r.Context(), userID, id, req.AmountMinor, req.Type)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toGoalResponse(g))
}

// queryUser extracts the required user_id query param on list routes.
func queryUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		badRequest(w, "user_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "invalid user_id")
		return uuid.Nil, false
	}
	return id, true
}
