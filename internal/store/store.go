package store

import (
	"context"
	"strings"
)

type OfstedRating string

const (
	RatingOutstanding         OfstedRating = "Outstanding"
	RatingGood                OfstedRating = "Good"
	RatingRequiresImprovement OfstedRating = "Requires Improvement"
	RatingInadequate          OfstedRating = "Inadequate"
)

// Rank orders ratings so that a higher rank is a better rating.
// Unknown labels rank 0, below Inadequate.
func (r OfstedRating) Rank() int {
	switch r {
	case RatingOutstanding:
		return 4
	case RatingGood:
		return 3
	case RatingRequiresImprovement:
		return 2
	case RatingInadequate:
		return 1
	default:
		return 0
	}
}

// ParseOfstedRating accepts labels case-insensitively with spaces,
// underscores or hyphens as separators ("requires_improvement").
func ParseOfstedRating(s string) (OfstedRating, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	switch norm {
	case "outstanding":
		return RatingOutstanding, true
	case "good":
		return RatingGood, true
	case "requires improvement":
		return RatingRequiresImprovement, true
	case "inadequate":
		return RatingInadequate, true
	}
	return "", false
}

type Trajectory string

const (
	TrajectoryImproving Trajectory = "improving"
	TrajectoryStable    Trajectory = "stable"
	TrajectoryDeclining Trajectory = "declining"
)

// Attributes is the raw per-school snapshot supplied by the collectors.
// A nil field means the value was never collected; it is not the same as zero.
type Attributes struct {
	DistanceKm         *float64      `json:"distance_km,omitempty" yaml:"distance_km"`
	OfstedRating       *OfstedRating `json:"ofsted_rating,omitempty" yaml:"ofsted_rating"`
	HasBreakfastClub   *bool         `json:"has_breakfast_club,omitempty" yaml:"has_breakfast_club"`
	HasAfterschoolClub *bool         `json:"has_afterschool_club,omitempty" yaml:"has_afterschool_club"`
	IsPrivate          *bool         `json:"is_private,omitempty" yaml:"is_private"`
	AnnualFee          *float64      `json:"annual_fee,omitempty" yaml:"annual_fee"`
	OfstedTrajectory   *Trajectory   `json:"ofsted_trajectory,omitempty" yaml:"ofsted_trajectory"`
	AttendancePct      *float64      `json:"attendance_pct,omitempty" yaml:"attendance_pct"`
	AvgClassSize       *float64      `json:"avg_class_size,omitempty" yaml:"avg_class_size"`
	ParkingChaos       *float64      `json:"parking_chaos,omitempty" yaml:"parking_chaos"`
	HasHolidayClub     *bool         `json:"has_holiday_club,omitempty" yaml:"has_holiday_club"`
	UniformCost        *float64      `json:"uniform_cost,omitempty" yaml:"uniform_cost"`
	DiversityIndex     *float64      `json:"diversity_index,omitempty" yaml:"diversity_index"`
	SiblingPriority    *bool         `json:"sibling_priority,omitempty" yaml:"sibling_priority"`
	SchoolRunEase      *float64      `json:"school_run_ease,omitempty" yaml:"school_run_ease"`
	HomeworkHours      *float64      `json:"homework_hours,omitempty" yaml:"homework_hours"`
	Faith              *string       `json:"faith,omitempty" yaml:"faith"`

	// Display only
	Postcode string `json:"postcode,omitempty" yaml:"postcode"`
	Phase    string `json:"phase,omitempty" yaml:"phase"`
}

type School struct {
	ID         int64      `json:"school_id" yaml:"id"`
	Name       string     `json:"school_name" yaml:"name"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
}

// Store is the read-only attribute snapshot provider. Implementations never
// cache; every call reflects the backing source at call time.
type Store interface {
	// GetSchools returns the snapshots that exist for ids. Missing ids are
	// omitted rather than reported as errors.
	GetSchools(ctx context.Context, ids []int64) ([]*School, error)
	// GetSchool returns nil, nil when the school is unknown.
	GetSchool(ctx context.Context, id int64) (*School, error)
	Close() error
}
