package match

// Confidence bands per tier. Containment and fuzzy matches can never reach
// full confidence; only token equality does.
const (
	confidenceExact     = 100
	confidenceReviewBar = 70
	containsNameFloor   = 70
	containsNameCeiling = 95
	containsFileFloor   = 50
	containsFileCeiling = 75
	fuzzyCeiling        = 85
)

// WithConfidence derives the 0-100 confidence estimate and review flag for
// a ranked result. Pure view over the result: no candidates are rescanned.
// A nil result stays nil so callers can chain directly off Match.
func WithConfidence(r *Result) *Result {
	if r == nil {
		return nil
	}

	out := *r
	switch r.Tier {
	case TierExact:
		out.Confidence = confidenceExact
	case TierFileContainsName:
		out.Confidence = min(containsNameCeiling, containsNameFloor+r.Score/4)
	case TierNameContainsFile:
		out.Confidence = min(containsFileCeiling, containsFileFloor+r.Score/3)
	case TierFuzzy:
		// Uses the similarity captured during ranking, not a value
		// re-derived from the capped score.
		out.Confidence = min(fuzzyCeiling, r.Similarity)
	}
	out.NeedsReview = out.Confidence < confidenceReviewBar
	return &out
}
