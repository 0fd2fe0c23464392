package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/scout-api/internal/export"
)

// exportList streams a list's member companies in the requested format.
func (s *Server) exportList(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown export format")
		return
	}

	populated, err := PopulateList(r.Context(), s.store, chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "List not found")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", populated.Name+"."+format.Extension()))
	if err := export.Write(w, format, populated.Companies); err != nil {
		zap.L().Error("export list", zap.String("list_id", populated.ID), zap.Error(err))
	}
}
