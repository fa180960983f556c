package backend

import "github.com/danielpatrickdp/govassess/internal/session"

// Wire types mirror the assessment service's JSON contract exactly;
// field names here are the service's, not ours.

// #region request

// CriterionScore is one criterion answer on the wire. Score is nil for
// not-applicable criteria.
type CriterionScore struct {
	CriterionID string `json:"criterion_id"`
	Score       *int   `json:"score"`
	IsNA        bool   `json:"is_na"`
}

// DimensionResult carries one dimension's answers. The score fields
// are filled by the service on the response; requests send them zeroed.
type DimensionResult struct {
	DimensionID    string           `json:"dimension_id"`
	DimensionName  string           `json:"dimension_name"`
	CriteriaScores []CriterionScore `json:"criteria_scores"`
	DimScore       *float64         `json:"dim_score"`
	NumRated       int              `json:"num_rated"`
	NumNA          int              `json:"num_na"`
}

// AssessmentRequest is the submission payload.
type AssessmentRequest struct {
	Scoping    session.Scoping    `json:"scoping"`
	Dimensions []DimensionResult  `json:"dimensions"`
	Weights    map[string]float64 `json:"weights,omitempty"`
}

// #endregion request

// #region response

// GapItem is one prioritized gap in the canonical result.
type GapItem struct {
	DimensionID    string  `json:"dimension_id"`
	DimensionName  string  `json:"dimension_name"`
	DimScore       float64 `json:"dim_score"`
	GapSeverity    string  `json:"gap_severity"`
	PriorityRank   int     `json:"priority_rank"`
	Recommendation string  `json:"recommendation"`
}

// AssessmentResult is the canonical scored result returned by the
// service. It is stored verbatim; post-submission views render from it
// rather than recomputing.
type AssessmentResult struct {
	Scoping       session.Scoping   `json:"scoping"`
	Dimensions    []DimensionResult `json:"dimensions"`
	OverallScore  float64           `json:"overall_score"`
	Gaps          []GapItem         `json:"gaps"`
	MaturityLabel string            `json:"maturity_label"`
	AgentSummary  string            `json:"agent_summary,omitempty"`
}

// ServiceStatus reports whether the service's analysis features are
// ready to serve.
type ServiceStatus struct {
	Available       bool   `json:"available"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	RAGChunksLoaded int    `json:"rag_chunks_loaded"`
	EmbeddingsReady bool   `json:"embeddings_ready"`
}

// BenchmarkResponse wraps one industry's reference scores with the
// industries on offer. Benchmark values mix per-dimension floats with
// a label and sample count, so it stays a loose map.
type BenchmarkResponse struct {
	Benchmark           map[string]any `json:"benchmark"`
	AvailableIndustries []string       `json:"available_industries"`
}

// #endregion response
