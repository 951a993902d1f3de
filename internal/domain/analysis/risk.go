package analysis

// MaxConfidence is the ceiling for any confidence score. An assessment is
// never absolute, so 100 is unreachable.
const MaxConfidence = 98

// RiskForScore maps a confidence score to its fraud-risk tier. This is the
// pure-score policy used by the vision path and the category model; the
// heuristic engine layers indicator severity on top of it.
func RiskForScore(score int) FraudRisk {
	switch {
	case score >= 90:
		return RiskLow
	case score >= 80:
		return RiskMedium
	case score >= 70:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ClampScore bounds a score to [0, MaxConfidence].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}
