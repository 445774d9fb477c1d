package hermes

const (
	StreamName   = "CATCHMENT_EVENTS"
	StreamMaxAge = "720h" // 30 days

	subjectPrefix = "catchment."
)

func SubjectRankingComputed(rankingID string) string {
	return subjectPrefix + "ranking." + rankingID + ".computed"
}

func SubjectRankingWhatIf(rankingID string) string {
	return subjectPrefix + "ranking." + rankingID + ".what_if"
}

func SubjectProsConsViewed(schoolID string) string {
	return subjectPrefix + "school." + schoolID + ".pros_cons"
}
