package scoring

import (
	"encoding/json"
	"fmt"
)

// Criterion identifies one of the fixed set of decision criteria.
type Criterion int

const (
	Distance Criterion = iota
	Ofsted
	Clubs
	Fees
	OfstedTrajectory
	Attendance
	ClassSize
	Parking
	HolidayClub
	Uniform
	Diversity
	SiblingPriority
	SchoolRunEase
	Homework

	NumCriteria = 14
)

var criterionNames = [NumCriteria]string{
	"distance",
	"ofsted",
	"clubs",
	"fees",
	"ofsted_trajectory",
	"attendance",
	"class_size",
	"parking",
	"holiday_club",
	"uniform",
	"diversity",
	"sibling_priority",
	"school_run_ease",
	"homework",
}

var criterionByName = func() map[string]Criterion {
	m := make(map[string]Criterion, NumCriteria)
	for i, n := range criterionNames {
		m[n] = Criterion(i)
	}
	return m
}()

// AllCriteria returns every criterion in canonical order.
func AllCriteria() []Criterion {
	out := make([]Criterion, NumCriteria)
	for i := range out {
		out[i] = Criterion(i)
	}
	return out
}

func (c Criterion) Valid() bool { return c >= 0 && c < NumCriteria }

func (c Criterion) String() string {
	if !c.Valid() {
		return fmt.Sprintf("criterion(%d)", int(c))
	}
	return criterionNames[c]
}

func ParseCriterion(name string) (Criterion, bool) {
	c, ok := criterionByName[name]
	return c, ok
}

func (c Criterion) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid criterion %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Criterion) UnmarshalText(b []byte) error {
	parsed, ok := ParseCriterion(string(b))
	if !ok {
		return fmt.Errorf("unknown criterion %q", string(b))
	}
	*c = parsed
	return nil
}

// ComponentScoreSet holds one 0–100 sub-score per criterion, plus whether the
// raw attribute behind it was actually collected.
type ComponentScoreSet struct {
	Scores    [NumCriteria]float64
	Available [NumCriteria]bool
}

func (s ComponentScoreSet) Get(c Criterion) float64 { return s.Scores[c] }

// MarshalJSON renders the scores keyed by criterion name.
func (s ComponentScoreSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumCriteria)
	for i, v := range s.Scores {
		m[criterionNames[i]] = round1(v)
	}
	return json.Marshal(m)
}
