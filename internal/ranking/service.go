package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Catchment/internal/hermes"
	"github.com/MikeSquared-Agency/Catchment/internal/metrics"
	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// Result is one computed ranking.
type Result struct {
	RankingID   uuid.UUID
	Schools     []scoring.ScoredSchool
	WeightsUsed scoring.WeightVector
	Dropped     []int64
	Excluded    int
}

// Service fetches snapshots and runs them through the scoring engine. It
// holds no per-request state.
type Service struct {
	store     store.Store
	hermes    hermes.Client
	engine    *scoring.Engine
	explainer *scoring.Explainer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func New(s store.Store, h hermes.Client, engine *scoring.Engine, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		hermes:    h,
		engine:    engine,
		explainer: scoring.NewExplainer(engine.Policy()),
		metrics:   m,
		logger:    logger,
	}
}

// Score ranks the requested schools by the parent's weights.
func (s *Service) Score(ctx context.Context, ids []int64, weights scoring.WeightVector) (*Result, error) {
	return s.rank(ctx, metrics.KindScore, ids, weights, nil)
}

// WhatIf applies hard constraints before ranking. A nil or empty constraint
// set behaves exactly like Score.
func (s *Service) WhatIf(ctx context.Context, ids []int64, weights scoring.WeightVector, c *scoring.WhatIfConstraints) (*Result, error) {
	return s.rank(ctx, metrics.KindWhatIf, ids, weights, c)
}

func (s *Service) rank(ctx context.Context, kind string, ids []int64, weights scoring.WeightVector, c *scoring.WhatIfConstraints) (*Result, error) {
	// Reject bad weights before touching the store.
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	found, err := s.store.GetSchools(ctx, ids)
	if err != nil {
		s.metrics.RankingFailures.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}
	resolved, dropped := s.engine.Resolve(ids, found)
	s.metrics.SchoolsDropped.Add(float64(len(dropped)))

	candidates := scoring.Filter(resolved, c)
	excluded := len(resolved) - len(candidates)
	s.metrics.SchoolsExcluded.Add(float64(excluded))

	ranked, err := s.engine.Score(candidates, weights)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.Rankings.WithLabelValues(kind).Inc()
	s.metrics.RankingDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	res := &Result{
		RankingID:   uuid.New(),
		Schools:     ranked,
		WeightsUsed: weights.Effective(),
		Dropped:     dropped,
		Excluded:    excluded,
	}

	s.logger.Info("ranking computed",
		"ranking_id", res.RankingID,
		"kind", kind,
		"requested", len(ids),
		"returned", len(ranked),
		"dropped", len(dropped),
		"excluded", excluded,
		"constraints", c.Describe(),
		"duration_ms", elapsed.Milliseconds(),
	)
	s.publish(kind, ids, c, res, elapsed)
	return res, nil
}

func (s *Service) publish(kind string, ids []int64, c *scoring.WhatIfConstraints, res *Result, elapsed time.Duration) {
	returned := make([]int64, len(res.Schools))
	for i, sc := range res.Schools {
		returned[i] = sc.SchoolID
	}
	id := res.RankingID.String()
	subject := hermes.SubjectRankingComputed(id)
	if kind == metrics.KindWhatIf {
		subject = hermes.SubjectRankingWhatIf(id)
	}
	evt := hermes.RankingEvent{
		RankingID:   id,
		Kind:        kind,
		Requested:   ids,
		Returned:    returned,
		Dropped:     res.Dropped,
		Excluded:    res.Excluded,
		Weights:     res.WeightsUsed.Map(),
		Constraints: c.Describe(),
		DurationMs:  elapsed.Milliseconds(),
		Timestamp:   time.Now().UTC(),
	}
	if err := s.hermes.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish ranking event", "ranking_id", id, "error", err)
	}
}

// ProsCons explains one school. It returns nil, nil when the school has no
// snapshot.
func (s *Service) ProsCons(ctx context.Context, id int64) (*scoring.ProsCons, error) {
	sc, err := s.store.GetSchool(ctx, id)
	if err != nil {
		s.metrics.ProsCons.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("fetch snapshot %d: %w", id, err)
	}
	if sc == nil {
		s.metrics.ProsCons.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return nil, nil
	}
	pc := s.explainer.Explain(s.engine.Evaluate(sc))
	s.metrics.ProsCons.WithLabelValues(metrics.OutcomeOK).Inc()

	if err := s.hermes.Publish(hermes.SubjectProsConsViewed(strconv.FormatInt(id, 10)), hermes.ProsConsEvent{
		SchoolID:  id,
		Pros:      len(pc.Pros),
		Cons:      len(pc.Cons),
		Timestamp: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to publish pros/cons event", "school_id", id, "error", err)
	}
	return &pc, nil
}

// Policy exposes the active scoring policy for the admin endpoint.
func (s *Service) Policy() scoring.Policy { return s.engine.Policy() }
