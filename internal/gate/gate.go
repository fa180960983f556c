package gate

import "fmt"

// #region gate

// Gate validates wizard navigation over Scoping → Dimension(0..N-1) →
// Summary. Forward entry requires all prerequisite sections complete;
// backward movement is never blocked, inspecting or editing past
// answers must always be possible.
type Gate struct {
	numDimensions int
}

// NewGate creates a gate for a wizard with n dimensions.
func NewGate(n int) *Gate {
	return &Gate{numDimensions: n}
}

// ordinal maps a position to its place in the wizard's linear order.
// scoping=0, dimension(i)=i+1, summary=numDimensions+1.
func (g *Gate) ordinal(p Position) int {
	switch p.Kind {
	case KindScoping:
		return 0
	case KindDimension:
		return p.Dimension + 1
	default:
		return g.numDimensions + 1
	}
}

// CanEnter checks whether a position's prerequisites are satisfied.
// Scoping is always enterable. Dimension(i) needs the system name plus
// all dimensions 0..i-1 complete; Summary needs every dimension.
func (g *Gate) CanEnter(p Position, progress Progress) Decision {
	switch p.Kind {
	case KindScoping:
		return Decision{Allowed: true, Reason: "scoping is always reachable"}

	case KindDimension:
		if p.Dimension < 0 || p.Dimension >= g.numDimensions {
			return Decision{Allowed: false, Reason: fmt.Sprintf("dimension index %d out of range", p.Dimension)}
		}
		if !progress.ScopingReady {
			return Decision{Allowed: false, Reason: "system name required before assessment"}
		}
		for i := 0; i < p.Dimension; i++ {
			if !g.complete(progress, i) {
				return Decision{Allowed: false, Reason: fmt.Sprintf("dimension %d incomplete", i)}
			}
		}
		return Decision{Allowed: true, Reason: "prerequisites complete"}

	default: // summary
		for i := 0; i < g.numDimensions; i++ {
			if !g.complete(progress, i) {
				return Decision{Allowed: false, Reason: fmt.Sprintf("dimension %d incomplete", i)}
			}
		}
		return Decision{Allowed: true, Reason: "all dimensions complete"}
	}
}

// Jump validates a direct-jump request. Backward jumps are always
// permitted; forward jumps go through CanEnter. When disallowed, the
// returned position is the unchanged current one (no-op, not a fault).
func (g *Gate) Jump(current, target Position, progress Progress) (Position, Decision) {
	if g.ordinal(target) <= g.ordinal(current) {
		return target, Decision{Allowed: true, Reason: "backward navigation is never blocked"}
	}
	d := g.CanEnter(target, progress)
	if !d.Allowed {
		return current, d
	}
	return target, d
}

// Next returns the position after current, or current and false at the
// end of the wizard. The move itself is still subject to CanEnter.
func (g *Gate) Next(current Position) (Position, bool) {
	switch current.Kind {
	case KindScoping:
		if g.numDimensions == 0 {
			return Summary(), true
		}
		return Dimension(0), true
	case KindDimension:
		if current.Dimension+1 < g.numDimensions {
			return Dimension(current.Dimension + 1), true
		}
		return Summary(), true
	default:
		return current, false
	}
}

// Prev returns the position before current, or current and false at
// the start of the wizard.
func (g *Gate) Prev(current Position) (Position, bool) {
	switch current.Kind {
	case KindSummary:
		if g.numDimensions == 0 {
			return Scoping(), true
		}
		return Dimension(g.numDimensions - 1), true
	case KindDimension:
		if current.Dimension > 0 {
			return Dimension(current.Dimension - 1), true
		}
		return Scoping(), true
	default:
		return current, false
	}
}

// Furthest returns the last position whose prerequisites are satisfied,
// walking forward from scoping. Used to clamp restored positions that
// no longer satisfy the completeness invariant.
func (g *Gate) Furthest(progress Progress) Position {
	pos := Scoping()
	for {
		next, ok := g.Next(pos)
		if !ok {
			return pos
		}
		if !g.CanEnter(next, progress).Allowed {
			return pos
		}
		pos = next
	}
}

func (g *Gate) complete(p Progress, i int) bool {
	return i < len(p.DimensionComplete) && p.DimensionComplete[i]
}

// #endregion gate
