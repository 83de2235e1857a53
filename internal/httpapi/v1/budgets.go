package v1

import (
	"encoding/json"
	"net/http"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// postBudget handles POST /v1/budgets.
func (s *Server) postBudget(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostBudget)
	b, ok := v.(finance.Budget)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated request missing", "")
		return
	}
	saved, err := s.budgetSvc.CreateBudget(r.Context(), b)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toBudgetResponse(saved))
}

// listBudgets handles GET /v1/budgets.
func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	budgets, err := s.budgetSvc.ListBudgets(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	toJSON(w, http.StatusOK, out)
}

// getBudget handles GET /v1/budgets/{id}.
func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	b, err := s.budgetSvc.GetBudget(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toBudgetResponse(b))
}

// patchBudget handles PATCH /v1/budgets/{id}.
func (s *Server) patchBudget(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req patchBudgetRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	patch := finance.BudgetPatch{
		Category:       req.Category,
		AllocatedMinor: req.AllocatedMinor,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Completed:      req.Completed,
	}
	if req.Period != nil {
		p := finance.BudgetPeriod(*req.Period)
		switch p {
		case finance.BudgetPeriodMonthly, finance.BudgetPeriodYearly:
		default:
			badRequest(w, "invalid period")
			return
		}
		patch.Period = &p
	}
	b, err := s.budgetSvc.UpdateBudget(r.Context(), userID, id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toBudgetResponse(b))
}

// deleteBudget handles DELETE /v1/budgets/{id}.
func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if err := s.budgetSvc.DeleteBudget(r.Context(), userID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postBudgetSpending handles POST /v1/budgets/{id}/spending, setting the
// spent amount absolutely. Remaining and status are recomputed in the
// store as part of the same update.
func (s *Server) postBudgetSpending(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req spendingBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	b, err := s.budgetSvc.SetSpending(r.Context(), userID, id, req.AmountMinor)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toBudgetResponse(b))
}

// postLimit handles POST /v1/limits.
func (s *Server) postLimit(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostLimit)
	l, ok := v.(finance.SpendingLimit)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated request missing", "")
		return
	}
	saved, err := s.budgetSvc.CreateLimit(r.Context(), l)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toLimitResponse(saved))
}

// listLimits handles GET /v1/limits.
func (s *Server) listLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	limits, err := s.budgetSvc.ListLimits(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]limitResponse, 0, len(limits))
	for _, l := range limits {
		out = append(out, toLimitResponse(l))
	}
	toJSON(w, http.StatusOK, out)
}

// getLimit handles GET /v1/limits/{id}.
func (s *Server) getLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	l, err := s.budgetSvc.GetLimit(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLimitResponse(l))
}

// patchLimit handles PATCH /v1/limits/{id}.
func (s *Server) patchLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req patchLimitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	patch := finance.LimitPatch{
		Category:   req.Category,
		LimitMinor: req.LimitMinor,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if req.Period != nil {
		p := finance.LimitPeriod(*req.Period)
		switch p {
		case finance.LimitPeriodDaily, finance.LimitPeriodWeekly, finance.LimitPeriodMonthly, finance.LimitPeriodYearly:
		default:
			badRequest(w, "invalid period")
			return
		}
		patch.Period = &p
	}
	l, err := s.budgetSvc.UpdateLimit(r.Context(), userID, id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLimitResponse(l))
}

// deleteLimit handles DELETE /v1/limits/{id}.
func (s *Server) deleteLimit(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if err := s.budgetSvc.DeleteLimit(r.Context(), userID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postLimitSpending handles POST /v1/limits/{id}/spending, adding a signed
// delta to the current spend.
func (s *Server) postLimitSpending(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req spendingBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	l, err := s.budgetSvc.ApplySpending(r.Context(), userID, id, req.AmountMinor)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLimitResponse(l))
}
