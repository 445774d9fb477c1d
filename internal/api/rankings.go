package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/Catchment/internal/ranking"
	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
)

const (
	maxSchoolsPerRequest = 200
	maxBodyBytes         = 1 << 20
)

type RankingsHandler struct {
	svc      *ranking.Service
	defaults scoring.WeightVector
	logger   *slog.Logger
}

func NewRankingsHandler(svc *ranking.Service, defaults scoring.WeightVector, logger *slog.Logger) *RankingsHandler {
	return &RankingsHandler{svc: svc, defaults: defaults, logger: logger}
}

type ScoreRequest struct {
	SchoolIDs []int64 `json:"school_ids"`
	// Weights is kept raw so unknown criteria can be ignored one by one.
	// Absent or null means the configured defaults.
	Weights map[string]json.RawMessage `json:"weights"`
}

type WhatIfRequest struct {
	ScoreRequest
	MaxDistanceKm *float64 `json:"max_distance_km"`
	MinRating     string   `json:"min_rating"`
	IncludeFaith  *bool    `json:"include_faith"`
	RequireRated  bool     `json:"require_rated"`
}

type RankingResponse struct {
	RankingID   string                 `json:"ranking_id"`
	Schools     []scoring.ScoredSchool `json:"schools"`
	WeightsUsed scoring.WeightVector   `json:"weights_used"`
	DroppedIDs  []int64                `json:"dropped_ids,omitempty"`
	Excluded    *int                   `json:"excluded,omitempty"`
}

// Score ranks schools by the parent's weights.
// POST /api/v1/rankings/score
func (h *RankingsHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !h.decode(w, r, &req) {
		return
	}
	weights, ok := h.weights(w, req)
	if !ok {
		return
	}
	res, err := h.svc.Score(r.Context(), req.SchoolIDs, weights)
	if err != nil {
		h.writeRankingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res, false))
}

// WhatIf ranks schools after applying hard constraints.
// POST /api/v1/rankings/what-if
func (h *RankingsHandler) WhatIf(w http.ResponseWriter, r *http.Request) {
	var req WhatIfRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := scoring.NewConstraints(req.MaxDistanceKm, req.MinRating, req.IncludeFaith, req.RequireRated)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	weights, ok := h.weights(w, req.ScoreRequest)
	if !ok {
		return
	}
	res, err := h.svc.WhatIf(r.Context(), req.SchoolIDs, weights, c)
	if err != nil {
		h.writeRankingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res, true))
}

func (h *RankingsHandler) decode(w http.ResponseWriter, r *http.Request, v interface{ ids() []int64 }) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	if n := len(v.ids()); n > maxSchoolsPerRequest {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("too many school_ids: %d (max %d)", n, maxSchoolsPerRequest),
		})
		return false
	}
	return true
}

func (h *RankingsHandler) weights(w http.ResponseWriter, req ScoreRequest) (scoring.WeightVector, bool) {
	if req.Weights == nil {
		return h.defaults, true
	}
	weights, ignored, err := scoring.ParseWeights(req.Weights)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return weights, false
	}
	if len(ignored) > 0 {
		h.logger.Debug("ignoring unknown weight keys", "keys", ignored)
	}
	return weights, true
}

func (h *RankingsHandler) writeRankingError(w http.ResponseWriter, err error) {
	var iwe *scoring.InvalidWeightError
	if errors.As(err, &iwe) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.logger.Error("ranking failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not compute rankings, try again"})
}

func (r *ScoreRequest) ids() []int64 { return r.SchoolIDs }

func toResponse(res *ranking.Result, whatIf bool) RankingResponse {
	resp := RankingResponse{
		RankingID:   res.RankingID.String(),
		Schools:     res.Schools,
		WeightsUsed: res.WeightsUsed,
		DroppedIDs:  res.Dropped,
	}
	if resp.Schools == nil {
		resp.Schools = []scoring.ScoredSchool{}
	}
	if whatIf {
		excluded := res.Excluded
		resp.Excluded = &excluded
	}
	return resp
}
