package scoring

import (
	"log/slog"
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// ScoredSchool is one ranked school. It is rebuilt on every request.
type ScoredSchool struct {
	Rank            int               `json:"rank"`
	SchoolID        int64             `json:"school_id"`
	SchoolName      string            `json:"school_name"`
	CompositeScore  float64           `json:"composite_score"`
	ComponentScores ComponentScoreSet `json:"component_scores"`
	ParetoOptimal   bool              `json:"pareto_optimal"`

	// Display attributes, passed through unchanged from the snapshot.
	OfstedRating       *store.OfstedRating `json:"ofsted_rating"`
	DistanceKm         *float64            `json:"distance_km"`
	IsPrivate          *bool               `json:"is_private"`
	HasBreakfastClub   *bool               `json:"has_breakfast_club"`
	HasAfterschoolClub *bool               `json:"has_afterschool_club"`
	AnnualFee          *float64            `json:"annual_fee"`
	Faith              *string             `json:"faith,omitempty"`
	Postcode           string              `json:"postcode,omitempty"`
	Phase              string              `json:"phase,omitempty"`

	Attributes store.Attributes `json:"-"`

	composite float64
}

// Engine turns snapshots and a weight vector into a ranked list.
type Engine struct {
	policy Policy
	logger *slog.Logger
}

// NewEngine creates an Engine with the given policy.
func NewEngine(policy Policy, logger *slog.Logger) *Engine {
	return &Engine{policy: policy, logger: logger}
}

func (e *Engine) Policy() Policy { return e.policy }

// Resolve matches requested ids against the snapshots that were found,
// keeping request order. Ids with no snapshot are dropped with a warning;
// duplicate ids are collapsed.
func (e *Engine) Resolve(ids []int64, found []*store.School) ([]*store.School, []int64) {
	byID := make(map[int64]*store.School, len(found))
	for _, s := range found {
		if s != nil {
			byID[s.ID] = s
		}
	}
	seen := make(map[int64]bool, len(ids))
	var resolved []*store.School
	var dropped []int64
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s, ok := byID[id]
		if !ok {
			e.logger.Warn("no attribute snapshot for school, dropping", "school_id", id)
			dropped = append(dropped, id)
			continue
		}
		resolved = append(resolved, s)
	}
	return resolved, dropped
}

// Score ranks schools by composite score, highest first, ties broken by
// ascending school id. It fails only for a structurally invalid weight
// vector.
func (e *Engine) Score(schools []*store.School, weights WeightVector) ([]ScoredSchool, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	eff := weights.Effective()

	out := make([]ScoredSchool, 0, len(schools))
	for _, s := range schools {
		if s == nil {
			continue
		}
		out = append(out, e.scoreOne(s, eff))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := quantize(out[i].composite), quantize(out[j].composite)
		if a != b {
			return a > b
		}
		return out[i].SchoolID < out[j].SchoolID
	})

	if e.policy.ParetoEnabled {
		markFrontier(out, eff)
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Evaluate scores a single school without ranking it. Explanations use this
// since they do not depend on the caller's weights.
func (e *Engine) Evaluate(s *store.School) ScoredSchool {
	return e.scoreOne(s, WeightVector{}.Effective())
}

func (e *Engine) scoreOne(s *store.School, eff WeightVector) ScoredSchool {
	set := Components(&s.Attributes, e.policy)

	var total float64
	for i, w := range eff {
		total += w * set.Scores[i]
	}
	total = clamp(total, 0, 100)

	a := s.Attributes
	return ScoredSchool{
		SchoolID:           s.ID,
		SchoolName:         s.Name,
		CompositeScore:     round1(total),
		ComponentScores:    set,
		OfstedRating:       a.OfstedRating,
		DistanceKm:         a.DistanceKm,
		IsPrivate:          a.IsPrivate,
		HasBreakfastClub:   a.HasBreakfastClub,
		HasAfterschoolClub: a.HasAfterschoolClub,
		AnnualFee:          a.AnnualFee,
		Faith:              a.Faith,
		Postcode:           a.Postcode,
		Phase:              a.Phase,
		Attributes:         a,
		composite:          total,
	}
}

// quantize absorbs floating point noise so that proportional weight vectors
// produce the same ordering.
func quantize(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
