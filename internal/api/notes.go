package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/scout-api/internal/model"
)

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		storeError(w, err, "")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"companyId"`
		Content   string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "companyId and content are required")
		return
	}

	note, err := s.store.CreateNote(r.Context(), req.CompanyID, req.Content)
	if err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}
