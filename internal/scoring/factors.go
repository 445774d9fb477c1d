package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// FactorResult captures one criterion's contribution to a school's score.
type FactorResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

type normalizer func(a *store.Attributes, p Policy) FactorResult

// normalizers is the per-criterion dispatch table. Adding a criterion means
// adding one entry here and one in explainTemplates.
var normalizers = [NumCriteria]normalizer{
	Distance:         DistanceFactor,
	Ofsted:           OfstedFactor,
	Clubs:            ClubsFactor,
	Fees:             FeesFactor,
	OfstedTrajectory: TrajectoryFactor,
	Attendance:       AttendanceFactor,
	ClassSize:        ClassSizeFactor,
	Parking:          ParkingFactor,
	HolidayClub:      HolidayClubFactor,
	Uniform:          UniformFactor,
	Diversity:        DiversityFactor,
	SiblingPriority:  SiblingPriorityFactor,
	SchoolRunEase:    SchoolRunEaseFactor,
	Homework:         HomeworkFactor,
}

// Normalize maps one raw attribute to its 0–100 sub-score. It never fails:
// missing or unusable input resolves to the policy's neutral score.
func Normalize(c Criterion, a *store.Attributes, p Policy) float64 {
	return Evaluate(c, a, p).Score
}

// Evaluate is Normalize with the availability flag and reason attached.
func Evaluate(c Criterion, a *store.Attributes, p Policy) FactorResult {
	if !c.Valid() || a == nil {
		return neutral(c.String(), p, "no data")
	}
	r := normalizers[c](a, p)
	r.Name = c.String()
	r.Score = clamp(r.Score, 0, 100)
	return r
}

// Components evaluates every criterion for one school.
func Components(a *store.Attributes, p Policy) ComponentScoreSet {
	var set ComponentScoreSet
	for _, c := range AllCriteria() {
		r := Evaluate(c, a, p)
		set.Scores[c] = r.Score
		set.Available[c] = r.Available
	}
	return set
}

// --- Individual criterion normalizers ---

// DistanceFactor decays linearly from 100 at the school gate to 0 at
// MaxDistanceKm.
func DistanceFactor(a *store.Attributes, p Policy) FactorResult {
	km, ok := present(a.DistanceKm)
	if !ok {
		return neutral("distance", p, "distance unknown")
	}
	return FactorResult{Score: 100 * (1 - km/p.MaxDistanceKm), Available: true, Reason: "from distance"}
}

func OfstedFactor(a *store.Attributes, p Policy) FactorResult {
	if a.OfstedRating == nil {
		return neutral("ofsted", p, "unrated")
	}
	score, ok := p.OfstedScores[*a.OfstedRating]
	if !ok {
		return neutral("ofsted", p, "unrecognised rating")
	}
	return FactorResult{Score: score, Available: true, Reason: string(*a.OfstedRating)}
}

// ClubsFactor scores 50 per wraparound club offered. A club whose flag is
// unknown counts as not offered once the other flag is known.
func ClubsFactor(a *store.Attributes, p Policy) FactorResult {
	if a.HasBreakfastClub == nil && a.HasAfterschoolClub == nil {
		return neutral("clubs", p, "club data unknown")
	}
	count := 0
	if a.HasBreakfastClub != nil && *a.HasBreakfastClub {
		count++
	}
	if a.HasAfterschoolClub != nil && *a.HasAfterschoolClub {
		count++
	}
	return FactorResult{Score: float64(count) * 50, Available: true, Reason: "from club flags"}
}

// FeesFactor treats state schools as free. A private school with no known
// fee is neutral rather than free, and so is a school whose status was never
// recorded.
func FeesFactor(a *store.Attributes, p Policy) FactorResult {
	if a.IsPrivate != nil && !*a.IsPrivate {
		return FactorResult{Score: 100, Available: true, Reason: "state school"}
	}
	fee, ok := present(a.AnnualFee)
	if !ok {
		return neutral("fees", p, "fee unknown")
	}
	if fee <= 0 {
		return FactorResult{Score: 100, Available: true, Reason: "no fee"}
	}
	return FactorResult{Score: 100 * (1 - fee/p.FeeCeiling), Available: true, Reason: "from annual fee"}
}

func TrajectoryFactor(a *store.Attributes, p Policy) FactorResult {
	if a.OfstedTrajectory == nil {
		return neutral("ofsted_trajectory", p, "trajectory unknown")
	}
	score, ok := p.TrajectoryScores[*a.OfstedTrajectory]
	if !ok {
		return neutral("ofsted_trajectory", p, "unrecognised trajectory")
	}
	return FactorResult{Score: score, Available: true, Reason: string(*a.OfstedTrajectory)}
}

func AttendanceFactor(a *store.Attributes, p Policy) FactorResult {
	pct, ok := present(a.AttendancePct)
	if !ok {
		return neutral("attendance", p, "attendance unknown")
	}
	return FactorResult{Score: rampUp(pct, p.AttendanceFloorPct, p.AttendanceTargetPct), Available: true, Reason: "from attendance"}
}

func ClassSizeFactor(a *store.Attributes, p Policy) FactorResult {
	size, ok := present(a.AvgClassSize)
	if !ok {
		return neutral("class_size", p, "class size unknown")
	}
	return FactorResult{Score: rampDown(size, p.ClassSizeIdeal, p.ClassSizeMax), Available: true, Reason: "from class size"}
}

// ParkingFactor inverts the chaos survey: calmer drop-offs score higher.
func ParkingFactor(a *store.Attributes, p Policy) FactorResult {
	chaos, ok := present(a.ParkingChaos)
	if !ok {
		return neutral("parking", p, "no parking survey")
	}
	return FactorResult{Score: 100 * (1 - chaos/p.ParkingChaosMax), Available: true, Reason: "from parking survey"}
}

func HolidayClubFactor(a *store.Attributes, p Policy) FactorResult {
	if a.HasHolidayClub == nil {
		return neutral("holiday_club", p, "holiday club unknown")
	}
	if *a.HasHolidayClub {
		return FactorResult{Score: 100, Available: true, Reason: "holiday club"}
	}
	return FactorResult{Score: 0, Available: true, Reason: "no holiday club"}
}

func UniformFactor(a *store.Attributes, p Policy) FactorResult {
	cost, ok := present(a.UniformCost)
	if !ok {
		return neutral("uniform", p, "uniform cost unknown")
	}
	return FactorResult{Score: 100 * (1 - cost/p.UniformCostCeiling), Available: true, Reason: "from uniform cost"}
}

func DiversityFactor(a *store.Attributes, p Policy) FactorResult {
	idx, ok := present(a.DiversityIndex)
	if !ok {
		return neutral("diversity", p, "diversity unknown")
	}
	return FactorResult{Score: 100 * idx, Available: true, Reason: "from diversity index"}
}

func SiblingPriorityFactor(a *store.Attributes, p Policy) FactorResult {
	if a.SiblingPriority == nil {
		return neutral("sibling_priority", p, "admissions policy unknown")
	}
	if *a.SiblingPriority {
		return FactorResult{Score: 100, Available: true, Reason: "sibling priority"}
	}
	return FactorResult{Score: p.SiblingPriorityNoScore, Available: true, Reason: "no sibling priority"}
}

// SchoolRunEaseFactor maps a 1–5 rating onto 0–100.
func SchoolRunEaseFactor(a *store.Attributes, p Policy) FactorResult {
	r, ok := present(a.SchoolRunEase)
	if !ok {
		return neutral("school_run_ease", p, "no school run rating")
	}
	return FactorResult{Score: (r - 1) / 4 * 100, Available: true, Reason: "from school run rating"}
}

func HomeworkFactor(a *store.Attributes, p Policy) FactorResult {
	h, ok := present(a.HomeworkHours)
	if !ok {
		return neutral("homework", p, "homework load unknown")
	}
	return FactorResult{Score: rampDown(h, p.HomeworkIdealHours, p.HomeworkMaxHours), Available: true, Reason: "from homework hours"}
}

// --- helpers ---

func neutral(name string, p Policy, reason string) FactorResult {
	return FactorResult{Name: name, Score: p.NeutralScore, Available: false, Reason: reason}
}

// present treats NaN and ±Inf the same as a missing value.
func present(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// rampUp is 0 at or below lo, 100 at or above hi, linear between.
func rampUp(v, lo, hi float64) float64 {
	return clamp((v-lo)/(hi-lo)*100, 0, 100)
}

// rampDown is 100 at or below lo, 0 at or above hi, linear between.
func rampDown(v, lo, hi float64) float64 {
	return clamp((hi-v)/(hi-lo)*100, 0, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
