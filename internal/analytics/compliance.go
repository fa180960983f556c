package analytics

// Compliance thresholds. Single source of truth for every consumer
// (heatmap, badges, article-compliance list); do not re-derive per view.
const (
	CompliantMin = 3.5
	PartialMin   = 2.0
)

// StatusFor classifies a dimension score. A nil score (nothing rated)
// is non-compliant.
func StatusFor(score *float64) ComplianceStatus {
	switch {
	case score == nil:
		return NonCompliant
	case *score >= CompliantMin:
		return Compliant
	case *score >= PartialMin:
		return Partial
	default:
		return NonCompliant
	}
}
