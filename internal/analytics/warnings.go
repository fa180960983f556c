package analytics

import (
	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/catalog"
)

// VarianceThreshold is the minimum max-min spread among a dimension's
// rated values that triggers a consistency warning.
const VarianceThreshold = 3

// VarianceWarnings flags dimensions where at least two criteria are
// rated and the rated values spread VarianceThreshold or more apart.
// Partial assessments are the normal operating mode: dimensions with
// fewer than two rated criteria simply produce no warning.
func VarianceWarnings(entries map[string]answers.Entry, cat *catalog.Catalog) []VarianceWarning {
	var warns []VarianceWarning
	for _, dim := range cat.Dimensions() {
		min, max, n := 0, 0, 0
		for _, cr := range dim.Criteria {
			e, ok := entries[cr.ID]
			if !ok || e.NA {
				continue
			}
			if n == 0 {
				min, max = e.Score, e.Score
			} else {
				if e.Score < min {
					min = e.Score
				}
				if e.Score > max {
					max = e.Score
				}
			}
			n++
		}
		if n >= 2 && max-min >= VarianceThreshold {
			warns = append(warns, VarianceWarning{
				DimensionID: dim.ID,
				Min:         min,
				Max:         max,
			})
		}
	}
	return warns
}
