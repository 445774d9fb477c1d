package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// WeightVector holds the parent's relative importance for each criterion.
// Values need not sum to 1; Effective renormalises them.
type WeightVector [NumCriteria]float64

// InvalidWeightError reports a structurally invalid weight vector.
type InvalidWeightError struct {
	Criterion string
	Value     string
	Reason    string
}

func (e *InvalidWeightError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid weight for %s: %s", e.Criterion, e.Reason)
	}
	return fmt.Sprintf("invalid weight for %s (%s): %s", e.Criterion, e.Value, e.Reason)
}

// ParseWeights builds a WeightVector from a caller-supplied mapping. Keys
// that do not name a criterion are filtered out first and returned so the
// caller can log them; they are never an error.
func ParseWeights(raw map[string]json.RawMessage) (WeightVector, []string, error) {
	var w WeightVector
	var ignored []string
	known := make(map[Criterion]json.RawMessage, len(raw))
	for k, v := range raw {
		c, ok := ParseCriterion(k)
		if !ok {
			ignored = append(ignored, k)
			continue
		}
		known[c] = v
	}
	sort.Strings(ignored)

	for _, c := range AllCriteria() {
		v, ok := known[c]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return WeightVector{}, ignored, &InvalidWeightError{Criterion: c.String(), Value: string(v), Reason: "not a number"}
		}
		w[c] = f
	}
	if err := w.Validate(); err != nil {
		return WeightVector{}, ignored, err
	}
	return w, ignored, nil
}

// WeightsFromMap converts an already-typed mapping, ignoring unknown keys.
func WeightsFromMap(m map[string]float64) (WeightVector, []string, error) {
	var w WeightVector
	var ignored []string
	for k, v := range m {
		c, ok := ParseCriterion(k)
		if !ok {
			ignored = append(ignored, k)
			continue
		}
		w[c] = v
	}
	sort.Strings(ignored)
	if err := w.Validate(); err != nil {
		return WeightVector{}, ignored, err
	}
	return w, ignored, nil
}

// Validate rejects negative and non-finite weights.
func (w WeightVector) Validate() error {
	for i, v := range w {
		c := Criterion(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidWeightError{Criterion: c.String(), Reason: "not a finite number"}
		}
		if v < 0 {
			return &InvalidWeightError{Criterion: c.String(), Value: fmt.Sprintf("%g", v), Reason: "must not be negative"}
		}
	}
	return nil
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Effective returns the weights actually applied: each weight divided by the
// total, or a uniform 1/NumCriteria across every criterion when the total is
// zero. Weights are first scaled by the largest one so the total cannot
// overflow, however large the caller's numbers are.
func (w WeightVector) Effective() WeightVector {
	var eff WeightVector
	var largest float64
	for _, v := range w {
		if v > largest {
			largest = v
		}
	}
	if largest == 0 {
		for i := range eff {
			eff[i] = 1.0 / NumCriteria
		}
		return eff
	}
	var total float64
	for i, v := range w {
		eff[i] = v / largest
		total += eff[i]
	}
	for i := range eff {
		eff[i] /= total
	}
	return eff
}

// Map renders the vector keyed by criterion name.
func (w WeightVector) Map() map[string]float64 {
	m := make(map[string]float64, NumCriteria)
	for i, v := range w {
		m[criterionNames[i]] = v
	}
	return m
}

func (w WeightVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Map())
}

func (w *WeightVector) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, _, err := ParseWeights(raw)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
