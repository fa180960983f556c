package analytics

import (
	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/catalog"
)

// Compute derives the full analytics snapshot from one answer set.
// Pure over (entries, catalog, riskCategory, weights); safe to call on
// any partial state, it returns empty collections rather than failing.
func Compute(cat *catalog.Catalog, entries map[string]answers.Entry, riskCategory string, weights map[string]float64) Snapshot {
	dims := cat.Dimensions()
	order := make([]string, len(dims))
	names := make(map[string]string, len(dims))
	dimScores := make(map[string]*float64, len(dims))
	heatmap := make([]HeatmapCell, len(dims))
	var dist [5]int

	for i, d := range dims {
		order[i] = d.ID
		names[d.ID] = d.Name
		score := DimensionScore(entries, d)
		dimScores[d.ID] = score
		heatmap[i] = HeatmapCell{
			DimensionID: d.ID,
			Score:       score,
			Status:      StatusFor(score),
		}
		if score != nil {
			level, _ := Maturity(*score)
			dist[level-1]++
		}
	}

	overall := OverallScore(dimScores, order, weights)
	level, label := Maturity(overall)
	gaps := Gaps(dimScores, order, names, GapThreshold(riskCategory))

	return Snapshot{
		DimensionScores: dimScores,
		OverallScore:    overall,
		MaturityLevel:   level,
		MaturityLabel:   label,
		Heatmap:         heatmap,
		Distribution:    dist,
		Gaps:            gaps,
		Variance:        VarianceWarnings(entries, cat),
		Dependencies:    DependencyWarnings(gaps),
	}
}
