package session

import (
	"time"

	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/gate"
)

// #region status

// Status tags the single session aggregate. Which snapshot "wins" on
// restore is a match on this tag, not a fallback chain: completed rows
// reflect the submitted truth and always take precedence.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// #endregion status

// #region scoping

// Scoping describes the system under assessment. SystemName is the one
// required field; the rest qualify the result and the gap thresholds.
type Scoping struct {
	SystemName           string `json:"system_name"`
	RiskCategory         string `json:"risk_category"` // high-risk, limited-risk, minimal-risk
	Industry             string `json:"industry"`
	OrganizationSize     string `json:"organization_size"`
	DeploymentStatus     string `json:"deployment_status"`
	HasGovernanceOfficer string `json:"has_governance_officer"`
	ExistingFrameworks   string `json:"existing_frameworks"`
	NumAISystems         string `json:"num_ai_systems"`
}

// #endregion scoping

// #region snapshot

// Snapshot is the versioned session aggregate. In-progress rows carry
// the authoring state; completed rows additionally carry the canonical
// server result verbatim, next to the final answer set, because the
// post-submission analytics views still need raw per-criterion scores
// the canonical result does not include.
type Snapshot struct {
	SessionID  string                   `json:"session_id"`
	Status     Status                   `json:"-"`
	Scoping    Scoping                  `json:"scoping"`
	Entries    map[string]answers.Entry `json:"entries"`
	Position   gate.Position            `json:"position"`
	Weights    map[string]float64       `json:"weights,omitempty"`
	ResultJSON string                   `json:"-"`
	UpdatedAt  time.Time                `json:"-"`
}

// #endregion snapshot

// #region history

// HistoryEntry is an immutable trend record of one submitted
// assessment. Key is a monotonically increasing, de-duplicated
// RFC3339Nano timestamp.
type HistoryEntry struct {
	Key           string
	OverallScore  float64
	MaturityLabel string
	SystemName    string
}

// #endregion history
