package analytics

import (
	"math"

	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/catalog"
)

// This file duplicates the backend's scoring formulas for pre- and
// post-submission preview rendering. It must agree with the server for
// unweighted inputs; divergence is a defect caught by the fixture table.

// #region dimension-score

// DimensionScore is the arithmetic mean of the dimension's rated
// (non-NA) criterion values, rounded to two decimals like the server's.
// Nil when zero criteria are rated.
func DimensionScore(entries map[string]answers.Entry, dim catalog.Dimension) *float64 {
	var sum, n int
	for _, cr := range dim.Criteria {
		e, ok := entries[cr.ID]
		if !ok || e.NA {
			continue
		}
		sum += e.Score
		n++
	}
	if n == 0 {
		return nil
	}
	v := round2(float64(sum) / float64(n))
	return &v
}

// #endregion dimension-score

// #region overall-score

// OverallScore computes the weighted mean across scored dimensions.
// With nil weights all scored dimensions weigh equally; otherwise each
// dimension's weight defaults to 1/6 when absent from the map, and the
// weighted sum is normalized by the total weight. Zero when nothing is
// scored.
func OverallScore(dimScores map[string]*float64, order []string, weights map[string]float64) float64 {
	var scored []string
	for _, id := range order {
		if dimScores[id] != nil {
			scored = append(scored, id)
		}
	}
	if len(scored) == 0 {
		return 0
	}

	if weights == nil {
		var sum float64
		for _, id := range scored {
			sum += *dimScores[id]
		}
		return round2(sum / float64(len(scored)))
	}

	var totalWeight, weightedSum float64
	for _, id := range scored {
		w, ok := weights[id]
		if !ok {
			w = 1.0 / 6.0
		}
		totalWeight += w
		weightedSum += w * *dimScores[id]
	}
	if totalWeight == 0 {
		return 0
	}
	return round2(weightedSum / totalWeight)
}

// #endregion overall-score

// #region maturity

// maturityLevels maps score thresholds to CMMI-style levels, checked in
// descending order. Any score resolves to at least Initial.
var maturityLevels = []struct {
	Threshold float64
	Level     int
	Label     string
}{
	{4.5, 5, "Optimizing"},
	{3.5, 4, "Measured"},
	{2.5, 3, "Defined"},
	{1.5, 2, "Managed"},
	{0.0, 1, "Initial"},
}

// Maturity maps a score to its maturity level and label.
func Maturity(score float64) (int, string) {
	for _, m := range maturityLevels {
		if score >= m.Threshold {
			return m.Level, m.Label
		}
	}
	return 1, "Initial"
}

// #endregion maturity

// #region helpers

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// #endregion helpers
