package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/store"
)

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.store.ListLists(r.Context())
	if err != nil {
		storeError(w, err, "")
		return
	}
	if lists == nil {
		lists = []model.List{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// getList returns the list with its member companies resolved.
func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	populated, err := PopulateList(r.Context(), s.store, chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "List not found")
		return
	}
	writeJSON(w, http.StatusOK, populated)
}

// PopulateList resolves a list's member ids into companies, preserving
// membership order. Members whose company has since been deleted are
// skipped.
func PopulateList(ctx context.Context, st store.Store, id string) (*model.PopulatedList, error) {
	list, err := st.GetList(ctx, id)
	if err != nil {
		return nil, err
	}

	companies := []model.Company{}
	for _, companyID := range list.CompanyIDs {
		c, err := st.GetCompany(ctx, companyID)
		if err != nil {
			continue
		}
		companies = append(companies, *c)
	}
	return &model.PopulatedList{
		ID:        list.ID,
		Name:      list.Name,
		Companies: companies,
		CreatedAt: list.CreatedAt,
	}, nil
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := s.store.CreateList(r.Context(), req.Name)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteList(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "List deleted"})
}

func (s *Server) addToList(w http.ResponseWriter, r *http.Request) {
	s.updateMembership(w, r, s.store.AddCompanyToList)
}

func (s *Server) removeFromList(w http.ResponseWriter, r *http.Request) {
	s.updateMembership(w, r, s.store.RemoveCompanyFromList)
}

func (s *Server) updateMembership(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, listID, companyID string) (*model.List, error),
) {
	var req struct {
		CompanyID string `json:"companyId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	list, err := op(r.Context(), chi.URLParam(r, "id"), req.CompanyID)
	if err != nil {
		storeError(w, err, "List not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}
