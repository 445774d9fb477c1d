package scoring

import (
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// ProsCons is the plain-language summary of one school.
type ProsCons struct {
	SchoolID   int64    `json:"school_id"`
	SchoolName string   `json:"school_name"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
}

// Explainer renders pros and cons from sub-scores and raw attributes. It
// never looks at the caller's weights.
type Explainer struct {
	policy Policy
}

func NewExplainer(policy Policy) *Explainer {
	return &Explainer{policy: policy}
}

type ranked struct {
	c     Criterion
	score float64
}

// Explain lists criteria at or above the strength threshold as pros (best
// first) and at or below the weakness threshold as cons (worst first).
// Criteria without collected data are never mentioned.
func (e *Explainer) Explain(s ScoredSchool) ProsCons {
	out := ProsCons{SchoolID: s.SchoolID, SchoolName: s.SchoolName, Pros: []string{}, Cons: []string{}}

	var strengths, weaknesses []ranked
	for _, c := range AllCriteria() {
		if !s.ComponentScores.Available[c] {
			continue
		}
		score := s.ComponentScores.Scores[c]
		switch {
		case score >= e.policy.StrengthThreshold:
			strengths = append(strengths, ranked{c, score})
		case score <= e.policy.WeaknessThreshold:
			weaknesses = append(weaknesses, ranked{c, score})
		}
	}
	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].score > strengths[j].score })
	sort.SliceStable(weaknesses, func(i, j int) bool { return weaknesses[i].score < weaknesses[j].score })

	p := message.NewPrinter(language.BritishEnglish)
	a := &s.Attributes
	for _, r := range capped(strengths, e.policy.MaxPros) {
		if text := explainTemplates[r.c].pro(a, p); text != "" {
			out.Pros = append(out.Pros, text)
		}
	}
	for _, r := range capped(weaknesses, e.policy.MaxCons) {
		if text := explainTemplates[r.c].con(a, p); text != "" {
			out.Cons = append(out.Cons, text)
		}
	}
	return out
}

func capped(rs []ranked, max int) []ranked {
	if len(rs) > max {
		return rs[:max]
	}
	return rs
}

type template struct {
	pro func(a *store.Attributes, p *message.Printer) string
	con func(a *store.Attributes, p *message.Printer) string
}

var explainTemplates = [NumCriteria]template{
	Distance: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("%.1f km from home", *a.DistanceKm)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("%.1f km from home, a long journey", *a.DistanceKm)
		},
	},
	Ofsted: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("%s Ofsted rating", *a.OfstedRating)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Ofsted rating: %s", *a.OfstedRating)
		},
	},
	Clubs: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			switch {
			case isTrue(a.HasBreakfastClub) && isTrue(a.HasAfterschoolClub):
				return "Both breakfast and after-school clubs available"
			case isTrue(a.HasBreakfastClub):
				return "Breakfast club available"
			case isTrue(a.HasAfterschoolClub):
				return "After-school club available"
			}
			return ""
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			switch {
			case isTrue(a.HasBreakfastClub) && isTrue(a.HasAfterschoolClub):
				return ""
			case isTrue(a.HasBreakfastClub):
				return "Breakfast club only, no after-school club"
			case isTrue(a.HasAfterschoolClub):
				return "After-school club only, no breakfast club"
			}
			return "No breakfast or after-school club"
		},
	},
	Fees: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			if isFalse(a.IsPrivate) {
				return "No tuition fees (state school)"
			}
			if *a.AnnualFee <= 0 {
				return "No tuition fees"
			}
			return p.Sprintf("Modest annual fees of £%d", pounds(*a.AnnualFee))
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			if isFalse(a.IsPrivate) || a.AnnualFee == nil {
				return ""
			}
			return p.Sprintf("High annual fees of £%d", pounds(*a.AnnualFee))
		},
	},
	OfstedTrajectory: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Ofsted trajectory is %s", *a.OfstedTrajectory)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Ofsted trajectory is %s", *a.OfstedTrajectory)
		},
	},
	Attendance: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Strong attendance (%.1f%%)", *a.AttendancePct)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Low attendance (%.1f%%)", *a.AttendancePct)
		},
	},
	ClassSize: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Small classes (average %.0f pupils)", *a.AvgClassSize)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Large classes (average %.0f pupils)", *a.AvgClassSize)
		},
	},
	Parking: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return "Calm drop-off with little parking chaos"
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Parking chaos reported at drop-off (%.1f/10)", *a.ParkingChaos)
		},
	},
	HolidayClub: {
		pro: func(a *store.Attributes, p *message.Printer) string { return "Holiday club available" },
		con: func(a *store.Attributes, p *message.Printer) string { return "No holiday club" },
	},
	Uniform: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Affordable uniform (£%d a year)", pounds(*a.UniformCost))
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Expensive uniform (£%d a year)", pounds(*a.UniformCost))
		},
	},
	Diversity: {
		pro: func(a *store.Attributes, p *message.Printer) string { return "Diverse pupil community" },
		con: func(a *store.Attributes, p *message.Printer) string { return "Limited pupil diversity" },
	},
	SiblingPriority: {
		pro: func(a *store.Attributes, p *message.Printer) string { return "Siblings get admissions priority" },
		con: func(a *store.Attributes, p *message.Printer) string { return "No sibling priority in admissions" },
	},
	SchoolRunEase: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Easy school run (%.1f/5)", *a.SchoolRunEase)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Difficult school run (%.1f/5)", *a.SchoolRunEase)
		},
	},
	Homework: {
		pro: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Light homework load (%.1f hours a week)", *a.HomeworkHours)
		},
		con: func(a *store.Attributes, p *message.Printer) string {
			return p.Sprintf("Heavy homework load (%.1f hours a week)", *a.HomeworkHours)
		},
	},
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }

func pounds(v float64) int64 { return int64(math.Round(v)) }
