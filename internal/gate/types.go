package gate

import "fmt"

// #region position

// Kind enumerates wizard position kinds.
type Kind string

const (
	KindScoping   Kind = "scoping"
	KindDimension Kind = "dimension"
	KindSummary   Kind = "summary"
)

// Position is one wizard step: Scoping, Dimension(i), or Summary.
type Position struct {
	Kind      Kind `json:"kind"`
	Dimension int  `json:"dimension"` // meaningful only for KindDimension
}

// Scoping returns the scoping position.
func Scoping() Position { return Position{Kind: KindScoping} }

// Dimension returns the position of the i-th dimension (0-based).
func Dimension(i int) Position { return Position{Kind: KindDimension, Dimension: i} }

// Summary returns the summary position.
func Summary() Position { return Position{Kind: KindSummary} }

func (p Position) String() string {
	switch p.Kind {
	case KindDimension:
		return fmt.Sprintf("dimension(%d)", p.Dimension)
	default:
		return string(p.Kind)
	}
}

// #endregion position

// #region progress

// Progress is the completeness view the gate decides against.
type Progress struct {
	ScopingReady      bool   // required scoping field (system name) filled
	DimensionComplete []bool // by declaration order
}

// #endregion progress

// #region decision

// Decision is the outcome of a gate check. A disallowed jump is not an
// error: the caller keeps its position and surfaces the reason as a
// disabled affordance.
type Decision struct {
	Allowed bool
	Reason  string
}

// #endregion decision
