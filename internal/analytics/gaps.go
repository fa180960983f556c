package analytics

import "sort"

// #region thresholds

// DefaultGapThreshold is the compliance-minimum benchmark: a dimension
// scoring below it is a gap.
const DefaultGapThreshold = 3.0

// riskThresholds adjusts the gap benchmark per AI Act risk category
// (Art. 6 classification), mirroring the server.
var riskThresholds = map[string]float64{
	"high-risk":    3.0,
	"limited-risk": 2.5,
	"minimal-risk": 2.0,
}

// GapThreshold returns the gap benchmark for a risk category, falling
// back to the high-risk default for unknown or empty categories.
func GapThreshold(riskCategory string) float64 {
	if t, ok := riskThresholds[riskCategory]; ok {
		return t
	}
	return DefaultGapThreshold
}

// #endregion thresholds

// #region severity

// SeverityFor maps the gap value (threshold minus score) to a tier.
func SeverityFor(gapValue float64) Severity {
	switch {
	case gapValue >= 2.0:
		return SeverityCritical
	case gapValue >= 1.0:
		return SeveritySignificant
	default:
		return SeverityModerate
	}
}

// #endregion severity

// #region gaps

// Gaps identifies dimensions scoring below the threshold, ranked by
// ascending score (lowest score = highest priority). Ties keep
// declaration order: ids and names follow the order slice. Dimensions
// with a nil score are skipped; the engine never guesses about
// unanswered sections.
func Gaps(dimScores map[string]*float64, order []string, names map[string]string, threshold float64) []Gap {
	var gaps []Gap
	for _, id := range order {
		score := dimScores[id]
		if score == nil || *score >= threshold {
			continue
		}
		gaps = append(gaps, Gap{
			DimensionID:   id,
			DimensionName: names[id],
			Score:         *score,
			Severity:      SeverityFor(threshold - *score),
		})
	}

	// Stable sort preserves declaration order on equal scores.
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Score < gaps[j].Score
	})
	for i := range gaps {
		gaps[i].PriorityRank = i + 1
	}

	attachDependencies(gaps)
	return gaps
}

// #endregion gaps

// #region dependencies

// dependencyTable maps dependent dimensions to their prerequisite.
// Human oversight (D5) and robustness (D6) presuppose risk management
// (D1, Art. 9); transparency (D4) presupposes data governance (D2).
var dependencyTable = map[string]string{
	"D5": "D1",
	"D6": "D1",
	"D4": "D2",
}

// attachDependencies fills PrerequisiteGap on each dependent gap whose
// prerequisite dimension is also a gap.
func attachDependencies(gaps []Gap) {
	inGaps := make(map[string]bool, len(gaps))
	for _, g := range gaps {
		inGaps[g.DimensionID] = true
	}
	for i := range gaps {
		if pre, ok := dependencyTable[gaps[i].DimensionID]; ok && inGaps[pre] {
			gaps[i].PrerequisiteGap = pre
		}
	}
}

// DependencyWarnings lists the cross-reference warnings for a gap set:
// one per dependent gap whose prerequisite dimension is simultaneously
// a gap, in priority order of the dependent.
func DependencyWarnings(gaps []Gap) []DependencyWarning {
	var warns []DependencyWarning
	for _, g := range gaps {
		if g.PrerequisiteGap != "" {
			warns = append(warns, DependencyWarning{
				Dependent:    g.DimensionID,
				Prerequisite: g.PrerequisiteGap,
			})
		}
	}
	return warns
}

// #endregion dependencies
