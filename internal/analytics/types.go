package analytics

// FormulaVersion pins the client-side copy of the scoring formulas.
// The backend exposes the same constant; the shared fixture table in
// testdata/scoring_fixtures.json is the drift check between the two.
const FormulaVersion = "2.0.0"

// #region compliance

// ComplianceStatus is the three-tier classification derived from a score.
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "compliant"
	Partial      ComplianceStatus = "partial"
	NonCompliant ComplianceStatus = "non-compliant"
)

// #endregion compliance

// #region severity

// Severity tiers partition the below-threshold score range.
type Severity string

const (
	SeverityCritical    Severity = "critical"
	SeveritySignificant Severity = "significant"
	SeverityModerate    Severity = "moderate"
)

// #endregion severity

// #region gap

// Gap records a dimension whose score fell below the gap threshold.
// PrerequisiteGap names the foundation dimension when a dependency
// warning applies to this gap, empty otherwise.
type Gap struct {
	DimensionID     string   `json:"dimension_id"`
	DimensionName   string   `json:"dimension_name"`
	Score           float64  `json:"dim_score"`
	Severity        Severity `json:"gap_severity"`
	PriorityRank    int      `json:"priority_rank"`
	PrerequisiteGap string   `json:"prerequisite_gap,omitempty"`
}

// #endregion gap

// #region warnings

// VarianceWarning flags likely rater inconsistency within one dimension:
// at least two rated criteria spread three or more points apart.
// Human-review signal, not an error condition.
type VarianceWarning struct {
	DimensionID string `json:"dimension_id"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
}

// DependencyWarning cross-references two simultaneous gaps where the
// prerequisite dimension's weakness likely explains the dependent one's.
type DependencyWarning struct {
	Dependent    string `json:"dependent"`
	Prerequisite string `json:"prerequisite"`
}

// #endregion warnings

// #region views

// HeatmapCell is one dimension's row in the compliance heatmap.
type HeatmapCell struct {
	DimensionID string           `json:"dimension_id"`
	Score       *float64         `json:"score"`
	Status      ComplianceStatus `json:"status"`
}

// Snapshot is the full derived-analytics state for one answer set,
// computed once per mutation and handed read-only to every view.
type Snapshot struct {
	DimensionScores map[string]*float64 `json:"dimension_scores"`
	OverallScore    float64             `json:"overall_score"`
	MaturityLevel   int                 `json:"maturity_level"`
	MaturityLabel   string              `json:"maturity_label"`
	Heatmap         []HeatmapCell       `json:"heatmap"`
	Distribution    [5]int              `json:"distribution"` // dims per maturity level 1..5
	Gaps            []Gap               `json:"gaps"`
	Variance        []VarianceWarning   `json:"variance_warnings"`
	Dependencies    []DependencyWarning `json:"dependency_warnings"`
}

// #endregion views
