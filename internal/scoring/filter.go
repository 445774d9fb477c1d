package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// WhatIfConstraints are optional hard constraints applied before scoring.
// A nil field places no constraint on that dimension.
type WhatIfConstraints struct {
	MaxDistanceKm *float64            `json:"max_distance_km,omitempty"`
	MinRating     *store.OfstedRating `json:"min_rating,omitempty"`
	IncludeFaith  *bool               `json:"include_faith,omitempty"`
	// RequireRated makes MinRating exclude unrated schools too. Off by
	// default: an unknown rating is not evidence of a poor one.
	RequireRated bool `json:"require_rated,omitempty"`
}

// InvalidConstraintError reports a constraint value that cannot be applied.
type InvalidConstraintError struct {
	Field  string
	Reason string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %s: %s", e.Field, e.Reason)
}

// NewConstraints validates raw what-if inputs. minRating is a rating label
// such as "Good"; an empty label means no rating constraint.
func NewConstraints(maxDistanceKm *float64, minRating string, includeFaith *bool, requireRated bool) (*WhatIfConstraints, error) {
	c := &WhatIfConstraints{MaxDistanceKm: maxDistanceKm, IncludeFaith: includeFaith, RequireRated: requireRated}
	if maxDistanceKm != nil && (*maxDistanceKm < 0 || math.IsNaN(*maxDistanceKm)) {
		return nil, &InvalidConstraintError{Field: "max_distance_km", Reason: "must not be negative"}
	}
	if minRating != "" {
		r, ok := store.ParseOfstedRating(minRating)
		if !ok {
			return nil, &InvalidConstraintError{Field: "min_rating", Reason: fmt.Sprintf("unknown rating %q", minRating)}
		}
		c.MinRating = &r
	}
	return c, nil
}

// Empty reports whether no constraint is active.
func (c *WhatIfConstraints) Empty() bool {
	return c == nil || (c.MaxDistanceKm == nil && c.MinRating == nil && c.IncludeFaith == nil)
}

// Describe renders the active constraints for logs and events.
func (c *WhatIfConstraints) Describe() string {
	if c.Empty() {
		return "none"
	}
	var parts []string
	if c.MaxDistanceKm != nil {
		parts = append(parts, fmt.Sprintf("distance<=%.1fkm", *c.MaxDistanceKm))
	}
	if c.MinRating != nil {
		s := "rating>=" + string(*c.MinRating)
		if c.RequireRated {
			s += " (rated only)"
		}
		parts = append(parts, s)
	}
	if c.IncludeFaith != nil && !*c.IncludeFaith {
		parts = append(parts, "no faith schools")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Filter returns the schools that satisfy c, preserving input order.
// Absent attributes never count as a violation.
func Filter(schools []*store.School, c *WhatIfConstraints) []*store.School {
	out := make([]*store.School, 0, len(schools))
	for _, s := range schools {
		if s == nil {
			continue
		}
		if c.Empty() || c.Admits(s) {
			out = append(out, s)
		}
	}
	return out
}

// Admits reports whether a single school passes every active constraint.
func (c *WhatIfConstraints) Admits(s *store.School) bool {
	if c == nil {
		return true
	}
	a := &s.Attributes
	if c.MaxDistanceKm != nil {
		if km, ok := present(a.DistanceKm); ok && km > *c.MaxDistanceKm {
			return false
		}
	}
	if c.MinRating != nil {
		if a.OfstedRating == nil {
			if c.RequireRated {
				return false
			}
		} else if a.OfstedRating.Rank() < c.MinRating.Rank() {
			return false
		}
	}
	if c.IncludeFaith != nil && !*c.IncludeFaith {
		if IsFaithSchool(a) {
			return false
		}
	}
	return true
}

// IsFaithSchool reports whether a religious character is recorded. The
// register's "None" and "Does not apply" placeholders count as no faith.
func IsFaithSchool(a *store.Attributes) bool {
	if a.Faith == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(*a.Faith)) {
	case "", "none", "does not apply":
		return false
	}
	return true
}
