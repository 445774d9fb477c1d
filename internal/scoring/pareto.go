package scoring

// ParetoCandidate is a school's sub-scores projected onto the criteria the
// parent actually weighted.
type ParetoCandidate struct {
	SchoolID int64
	Scores   []float64
}

// ComputeFrontier returns the candidates no other candidate dominates.
// A candidate is dominated if another is >= on every dimension and strictly
// better on at least one. O(n^2), fine for a shortlist of schools.
func ComputeFrontier(candidates []ParetoCandidate) []ParetoCandidate {
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []ParetoCandidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

func dominates(a, b ParetoCandidate) bool {
	strictly := false
	for k := range a.Scores {
		if a.Scores[k] < b.Scores[k] {
			return false
		}
		if a.Scores[k] > b.Scores[k] {
			strictly = true
		}
	}
	return strictly
}

// markFrontier flags the ranked schools that sit on the frontier of the
// positively weighted criteria.
func markFrontier(ranked []ScoredSchool, eff WeightVector) {
	var dims []Criterion
	for i, w := range eff {
		if w > 0 {
			dims = append(dims, Criterion(i))
		}
	}
	candidates := make([]ParetoCandidate, len(ranked))
	for i, s := range ranked {
		scores := make([]float64, len(dims))
		for k, c := range dims {
			scores[k] = quantize(s.ComponentScores.Scores[c])
		}
		candidates[i] = ParetoCandidate{SchoolID: s.SchoolID, Scores: scores}
	}
	onFrontier := make(map[int64]bool)
	for _, c := range ComputeFrontier(candidates) {
		onFrontier[c.SchoolID] = true
	}
	for i := range ranked {
		ranked[i].ParetoOptimal = onFrontier[ranked[i].SchoolID]
	}
}
