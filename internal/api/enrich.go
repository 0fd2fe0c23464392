package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-api/internal/enrich"
	"github.com/sells-group/scout-api/internal/scrape"
)

func (s *Server) getEnrichment(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetEnrichment(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		storeError(w, err, "Enrichment not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) enrichCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID    string `json:"companyId"`
		Website      string `json:"website"`
		ForceRefresh bool   `json:"forceRefresh"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	e, err := s.enricher.Enrich(r.Context(), req.CompanyID, req.Website, req.ForceRefresh)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, e)
	case eris.Is(err, enrich.ErrMissingWebsite):
		writeError(w, http.StatusBadRequest, "Website is required")
	case eris.Is(err, scrape.ErrContentUnavailable):
		writeError(w, http.StatusInternalServerError, "Could not fetch website content")
	default:
		storeError(w, err, "")
	}
}
