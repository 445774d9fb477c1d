package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
)

type CriteriaHandler struct {
	defaults scoring.WeightVector
}

func NewCriteriaHandler(defaults scoring.WeightVector) *CriteriaHandler {
	return &CriteriaHandler{defaults: defaults}
}

type CriterionInfo struct {
	Name          string  `json:"name"`
	DefaultWeight float64 `json:"default_weight"`
}

// List returns the criteria a weight vector may name, in canonical order.
// GET /api/v1/criteria
func (h *CriteriaHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]CriterionInfo, 0, scoring.NumCriteria)
	for _, c := range scoring.AllCriteria() {
		out = append(out, CriterionInfo{Name: c.String(), DefaultWeight: h.defaults[c]})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"criteria": out})
}
