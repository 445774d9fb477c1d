package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Catchment/internal/ranking"
)

type SchoolsHandler struct {
	svc    *ranking.Service
	logger *slog.Logger
}

func NewSchoolsHandler(svc *ranking.Service, logger *slog.Logger) *SchoolsHandler {
	return &SchoolsHandler{svc: svc, logger: logger}
}

// prosConsError keeps the pros/cons shape on failure so a page can render
// empty lists instead of breaking.
type prosConsError struct {
	Error    string   `json:"error"`
	SchoolID int64    `json:"school_id"`
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
}

// ProsCons returns the plain-language strengths and weaknesses of a school.
// GET /api/v1/schools/{id}/pros-cons
func (h *SchoolsHandler) ProsCons(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid school id"})
		return
	}

	pc, err := h.svc.ProsCons(r.Context(), id)
	if err != nil {
		h.logger.Error("pros/cons failed", "school_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, prosConsError{
			Error:    "could not load school, try again",
			SchoolID: id,
			Pros:     []string{},
			Cons:     []string{},
		})
		return
	}
	if pc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "school not found"})
		return
	}
	writeJSON(w, http.StatusOK, pc)
}
