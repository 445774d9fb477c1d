package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// Policy holds every tunable constant used by normalisation, ranking and
// explanation. It is passed explicitly; nothing in this package reads
// configuration from global state.
type Policy struct {
	NeutralScore float64 `yaml:"neutral_score" json:"neutral_score"`

	MaxDistanceKm float64 `yaml:"max_distance_km" json:"max_distance_km"`
	FeeCeiling    float64 `yaml:"fee_ceiling" json:"fee_ceiling"`

	OfstedScores     map[store.OfstedRating]float64 `yaml:"ofsted_scores" json:"ofsted_scores"`
	TrajectoryScores map[store.Trajectory]float64   `yaml:"trajectory_scores" json:"trajectory_scores"`

	AttendanceFloorPct  float64 `yaml:"attendance_floor_pct" json:"attendance_floor_pct"`
	AttendanceTargetPct float64 `yaml:"attendance_target_pct" json:"attendance_target_pct"`

	ClassSizeIdeal float64 `yaml:"class_size_ideal" json:"class_size_ideal"`
	ClassSizeMax   float64 `yaml:"class_size_max" json:"class_size_max"`

	ParkingChaosMax        float64 `yaml:"parking_chaos_max" json:"parking_chaos_max"`
	UniformCostCeiling     float64 `yaml:"uniform_cost_ceiling" json:"uniform_cost_ceiling"`
	SiblingPriorityNoScore float64 `yaml:"sibling_priority_no_score" json:"sibling_priority_no_score"`

	HomeworkIdealHours float64 `yaml:"homework_ideal_hours" json:"homework_ideal_hours"`
	HomeworkMaxHours   float64 `yaml:"homework_max_hours" json:"homework_max_hours"`

	StrengthThreshold float64 `yaml:"strength_threshold" json:"strength_threshold"`
	WeaknessThreshold float64 `yaml:"weakness_threshold" json:"weakness_threshold"`
	MaxPros           int     `yaml:"max_pros" json:"max_pros"`
	MaxCons           int     `yaml:"max_cons" json:"max_cons"`

	ParetoEnabled bool `yaml:"pareto_enabled" json:"pareto_enabled"`
}

// DefaultPolicy returns the documented default calibration.
func DefaultPolicy() Policy {
	return Policy{
		NeutralScore:  50,
		MaxDistanceKm: 10,
		FeeCeiling:    30000,
		OfstedScores: map[store.OfstedRating]float64{
			store.RatingOutstanding:         100,
			store.RatingGood:                75,
			store.RatingRequiresImprovement: 40,
			store.RatingInadequate:          10,
		},
		TrajectoryScores: map[store.Trajectory]float64{
			store.TrajectoryImproving: 100,
			store.TrajectoryStable:    60,
			store.TrajectoryDeclining: 15,
		},
		AttendanceFloorPct:     90,
		AttendanceTargetPct:    97,
		ClassSizeIdeal:         20,
		ClassSizeMax:           32,
		ParkingChaosMax:        10,
		UniformCostCeiling:     300,
		SiblingPriorityNoScore: 20,
		HomeworkIdealHours:     2,
		HomeworkMaxHours:       8,
		StrengthThreshold:      75,
		WeaknessThreshold:      40,
		MaxPros:                4,
		MaxCons:                4,
		ParetoEnabled:          true,
	}
}

// Validate rejects calibrations that would break the bounded, monotonic
// mappings. Fields are checked in declaration order so the reported error
// is stable for a given policy.
func (p Policy) Validate() error {
	scalars := []namedValue{
		{"neutral_score", p.NeutralScore},
		{"max_distance_km", p.MaxDistanceKm},
		{"fee_ceiling", p.FeeCeiling},
		{"attendance_floor_pct", p.AttendanceFloorPct},
		{"attendance_target_pct", p.AttendanceTargetPct},
		{"class_size_ideal", p.ClassSizeIdeal},
		{"class_size_max", p.ClassSizeMax},
		{"parking_chaos_max", p.ParkingChaosMax},
		{"uniform_cost_ceiling", p.UniformCostCeiling},
		{"sibling_priority_no_score", p.SiblingPriorityNoScore},
		{"homework_ideal_hours", p.HomeworkIdealHours},
		{"homework_max_hours", p.HomeworkMaxHours},
		{"strength_threshold", p.StrengthThreshold},
		{"weakness_threshold", p.WeaknessThreshold},
	}
	for _, f := range scalars {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", f.name, f.value)
		}
	}
	if !inScoreRange(p.NeutralScore) {
		return fmt.Errorf("neutral_score %.2f outside [0, 100]", p.NeutralScore)
	}
	positive := []namedValue{
		{"max_distance_km", p.MaxDistanceKm},
		{"fee_ceiling", p.FeeCeiling},
		{"parking_chaos_max", p.ParkingChaosMax},
		{"uniform_cost_ceiling", p.UniformCostCeiling},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %.2f", f.name, f.value)
		}
	}
	if p.AttendanceFloorPct >= p.AttendanceTargetPct {
		return fmt.Errorf("attendance_floor_pct %.2f must be below attendance_target_pct %.2f", p.AttendanceFloorPct, p.AttendanceTargetPct)
	}
	if p.ClassSizeIdeal >= p.ClassSizeMax {
		return fmt.Errorf("class_size_ideal %.2f must be below class_size_max %.2f", p.ClassSizeIdeal, p.ClassSizeMax)
	}
	if p.HomeworkIdealHours >= p.HomeworkMaxHours {
		return fmt.Errorf("homework_ideal_hours %.2f must be below homework_max_hours %.2f", p.HomeworkIdealHours, p.HomeworkMaxHours)
	}
	if !inScoreRange(p.SiblingPriorityNoScore) {
		return fmt.Errorf("sibling_priority_no_score %.2f outside [0, 100]", p.SiblingPriorityNoScore)
	}
	if p.WeaknessThreshold >= p.StrengthThreshold {
		return fmt.Errorf("weakness_threshold %.2f must be below strength_threshold %.2f", p.WeaknessThreshold, p.StrengthThreshold)
	}
	if p.MaxPros < 0 || p.MaxCons < 0 {
		return fmt.Errorf("max_pros and max_cons must not be negative")
	}

	ratings := make([]string, 0, len(p.OfstedScores))
	for r := range p.OfstedScores {
		ratings = append(ratings, string(r))
	}
	sort.Strings(ratings)
	for _, name := range ratings {
		r := store.OfstedRating(name)
		if r.Rank() == 0 {
			return fmt.Errorf("ofsted_scores: unknown rating %q", r)
		}
		if !inScoreRange(p.OfstedScores[r]) {
			return fmt.Errorf("ofsted score for %q outside [0, 100]", r)
		}
	}

	trajectories := make([]string, 0, len(p.TrajectoryScores))
	for t := range p.TrajectoryScores {
		trajectories = append(trajectories, string(t))
	}
	sort.Strings(trajectories)
	for _, name := range trajectories {
		if !inScoreRange(p.TrajectoryScores[store.Trajectory(name)]) {
			return fmt.Errorf("trajectory score for %q outside [0, 100]", name)
		}
	}
	return nil
}

type namedValue struct {
	name  string
	value float64
}

// inScoreRange is false for NaN.
func inScoreRange(v float64) bool {
	return v >= 0 && v <= 100
}
