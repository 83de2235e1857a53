package v1

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
)

// pathAndUser extracts the {id} path param and the user_id query param.
// Both are required on every per-resource route.
func pathAndUser(w http.ResponseWriter, r *http.Request) (userID, id uuid.UUID, ok bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		badRequest(w, "user_id is required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(raw)
	if err != nil {
		badRequest(w, "invalid user_id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// postTransaction handles POST /v1/transactions. When an Idempotency-Key
// header is present, a replayed key returns the originally created row.
func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostTransaction)
	req, ok := v.(postTransactionRequest)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated request missing", "")
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" {
		if existing, found, err := s.idemStore.GetTransactionByIdempotencyKey(r.Context(), req.UserID, key); err == nil && found {
			toJSON(w, http.StatusOK, toTransactionResponse(existing))
			return
		}
	}

	saved, err := s.ledgerSvc.Create(r.Context(), toTransactionDomain(req), req.GoalID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if key != "" {
		if err := s.idemStore.SaveIdempotencyKey(r.Context(), req.UserID, key, saved.ID); err != nil {
			s.log.Error("save idempotency key", "err", err)
		}
	}
	toJSON(w, http.StatusCreated, toTransactionResponse(saved))
}

// listTransactions handles GET /v1/transactions.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyListTransactions)
	q, ok := v.(listTransactionsQuery)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated query missing", "")
		return
	}
	f := ledger.Filter{Type: finance.TransactionType(q.Type), Category: q.Category, From: q.From, To: q.To}
	txs, err := s.ledgerSvc.List(r.Context(), q.UserID, f)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	toJSON(w, http.StatusOK, out)
}

// getTransaction handles GET /v1/transactions/{id}.
func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	t, err := s.ledgerSvc.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toTransactionResponse(t))
}

// patchTransaction handles PATCH /v1/transactions/{id}.
func (s *Server) patchTransaction(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req patchTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	patch := finance.TransactionPatch{
		AmountMinor: req.AmountMinor,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		Metadata:    req.Metadata,
	}
	if req.Type != nil {
		tt := finance.TransactionType(*req.Type)
		if !tt.Valid() {
			badRequest(w, "invalid type")
			return
		}
		patch.Type = &tt
	}
	t, err := s.ledgerSvc.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toTransactionResponse(t))
}

// deleteTransaction handles DELETE /v1/transactions/{id}.
func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	if err := s.ledgerSvc.Delete(r.Context(), userID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
