package hermes

import "time"

// RankingEvent is published after every score or what-if request. It
// describes the request, not the parent: no raw attributes are included.
type RankingEvent struct {
	RankingID   string             `json:"ranking_id"`
	Kind        string             `json:"kind"`
	Requested   []int64            `json:"requested_ids"`
	Returned    []int64            `json:"returned_ids"`
	Dropped     []int64            `json:"dropped_ids,omitempty"`
	Excluded    int                `json:"excluded"`
	Weights     map[string]float64 `json:"weights_used"`
	Constraints string             `json:"constraints"`
	DurationMs  int64              `json:"duration_ms"`
	Timestamp   time.Time          `json:"timestamp"`
}

type ProsConsEvent struct {
	SchoolID  int64     `json:"school_id"`
	Pros      int       `json:"pros"`
	Cons      int       `json:"cons"`
	Timestamp time.Time `json:"timestamp"`
}
