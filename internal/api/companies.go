package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/store"
)

// companyFilterFromQuery maps query parameters onto a store filter. The
// "All" sentinel on exact-match filters means no filtering, mirroring the
// frontend's dropdown defaults.
func companyFilterFromQuery(r *http.Request) store.CompanyFilter {
	q := r.URL.Query()

	filter := store.CompanyFilter{Search: q.Get("search")}
	if v := q.Get("industry"); v != "" && !strings.EqualFold(v, "all") {
		filter.Industry = v
	}
	if v := q.Get("funding"); v != "" && !strings.EqualFold(v, "all") {
		filter.Funding = v
	}
	if v := q.Get("location"); v != "" && !strings.EqualFold(v, "all") {
		filter.Location = v
	}

	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	return filter
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, total, err := s.store.ListCompanies(r.Context(), companyFilterFromQuery(r))
	if err != nil {
		storeError(w, err, "")
		return
	}
	if companies == nil {
		companies = []model.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     total,
	})
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "Company not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var c model.Company
	if !decodeBody(w, r, &c) {
		return
	}
	created, err := s.store.CreateCompany(r.Context(), c)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	var patch model.CompanyPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.store.UpdateCompany(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		storeError(w, err, "Company not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Company deleted"})
}
