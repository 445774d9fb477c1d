package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Catchment/internal/ranking"
)

type AdminHandler struct {
	svc *ranking.Service
}

func NewAdminHandler(svc *ranking.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Policy returns the scoring calibration the service is running with.
// GET /api/v1/admin/policy
func (h *AdminHandler) Policy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Policy())
}
