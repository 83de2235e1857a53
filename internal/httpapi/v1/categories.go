package v1

import (
	"net/http"

	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/dictionary"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/finance"
)

// postCategory handles POST /v1/categories.
func (s *Server) postCategory(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyPostCategory)
	req, ok := v.(postCategoryRequest)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "validated request missing", "")
		return
	}
	c, err := s.categorySvc.Create(r.Context(), req.UserID, req.Name, req.Type)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// listCategories handles GET /v1/categories.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUser(w, r)
	if !ok {
		return
	}
	cats, err := s.categorySvc.List(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

// getCategoryDefaults handles GET /v1/categories/defaults?type=
func (s *Server) getCategoryDefaults(w http.ResponseWriter, r *http.Request) {
	type typedDefaults struct {
		Type       finance.TransactionType  `json:"type"`
		Categories []dictionary.CategoryDef `json:"categories"`
	}
	out := struct {
		Items []typedDefaults `json:"items"`
	}{Items: []typedDefaults{}}
	if ts := r.URL.Query().Get("type"); ts != "" {
		t := finance.TransactionType(ts)
		if !t.Valid() {
			badRequest(w, "invalid type")
			return
		}
		out.Items = append(out.Items, typedDefaults{Type: t, Categories: dictionary.Defaults(t)})
	} else {
		all := dictionary.AllDefaults()
		for _, t := range []finance.TransactionType{finance.TransactionExpense, finance.TransactionIncome} {
			out.Items = append(out.Items, typedDefaults{Type: t, Categories: all[t]})
		}
	}
	toJSON(w, http.StatusOK, out)
}

// getCategoryUsage handles GET /v1/categories/{id}/usage.
func (s *Server) getCategoryUsage(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	usage, err := s.categorySvc.Usage(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, usage)
}

// archiveCategory handles POST /v1/categories/{id}/archive. Archiving is
// idempotent; the response reports whether anything changed.
func (s *Server) archiveCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	changed, err := s.categorySvc.Archive(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, map[string]bool{"archived": true, "changed": changed})
}

// deleteCategory handles DELETE /v1/categories/{id}. A category still in
// use is not deleted; the response carries the blocking usage counts.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := pathAndUser(w, r)
	if !ok {
		return
	}
	res, err := s.categorySvc.DeleteIfUnused(r.Context(), userID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if !res.Deleted {
		toJSON(w, http.StatusOK, deleteCategoryResponse{Deleted: false, Usage: &res.Usage})
		return
	}
	toJSON(w, http.StatusOK, deleteCategoryResponse{Deleted: true})
}
