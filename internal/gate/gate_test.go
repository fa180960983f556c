package gate

import "testing"

func progress(scoping bool, complete ...bool) Progress {
	return Progress{ScopingReady: scoping, DimensionComplete: complete}
}

func TestCanEnterScopingAlways(t *testing.T) {
	g := NewGate(6)
	if d := g.CanEnter(Scoping(), progress(false, false, false, false, false, false, false)); !d.Allowed {
		t.Fatalf("scoping must always be enterable: %s", d.Reason)
	}
}

func TestCanEnterFirstDimensionNeedsScoping(t *testing.T) {
	g := NewGate(6)

	if d := g.CanEnter(Dimension(0), progress(false)); d.Allowed {
		t.Fatal("dimension 0 must be blocked without system name")
	}
	if d := g.CanEnter(Dimension(0), progress(true)); !d.Allowed {
		t.Fatalf("dimension 0 should open once scoping is ready: %s", d.Reason)
	}
}

func TestCanEnterBlockedByAnyIncompletePredecessor(t *testing.T) {
	g := NewGate(6)

	// Dimension 3 with dimension 1 incomplete: blocked.
	p := progress(true, true, false, true, false, false, false)
	if d := g.CanEnter(Dimension(3), p); d.Allowed {
		t.Fatal("dimension 3 must be blocked while dimension 1 is incomplete")
	}

	// All predecessors complete: allowed.
	p = progress(true, true, true, true, false, false, false)
	if d := g.CanEnter(Dimension(3), p); !d.Allowed {
		t.Fatalf("dimension 3 should open: %s", d.Reason)
	}
}

func TestCanEnterSummaryNeedsAllDimensions(t *testing.T) {
	g := NewGate(3)

	if d := g.CanEnter(Summary(), progress(true, true, true, false)); d.Allowed {
		t.Fatal("summary must be blocked with an incomplete dimension")
	}
	if d := g.CanEnter(Summary(), progress(true, true, true, true)); !d.Allowed {
		t.Fatalf("summary should open: %s", d.Reason)
	}
}

func TestCanEnterRejectsOutOfRangeIndex(t *testing.T) {
	g := NewGate(6)
	if d := g.CanEnter(Dimension(6), progress(true, true, true, true, true, true, true)); d.Allowed {
		t.Fatal("out-of-range dimension index must be rejected")
	}
	if d := g.CanEnter(Dimension(-1), progress(true)); d.Allowed {
		t.Fatal("negative dimension index must be rejected")
	}
}

func TestJumpBackwardAlwaysAllowed(t *testing.T) {
	g := NewGate(6)
	// Nothing complete, but jumping back from dimension 4 to 1 is fine.
	pos, d := g.Jump(Dimension(4), Dimension(1), progress(false))
	if !d.Allowed || pos != Dimension(1) {
		t.Fatalf("backward jump refused: pos=%v decision=%+v", pos, d)
	}

	pos, d = g.Jump(Summary(), Scoping(), progress(false))
	if !d.Allowed || pos != Scoping() {
		t.Fatalf("backward jump to scoping refused: pos=%v decision=%+v", pos, d)
	}
}

func TestJumpForwardDisallowedIsNoOp(t *testing.T) {
	g := NewGate(6)
	current := Dimension(1)

	pos, d := g.Jump(current, Summary(), progress(true, true, true, false, false, false, false))
	if d.Allowed {
		t.Fatal("forward jump past incomplete dimensions must be disallowed")
	}
	if pos != current {
		t.Fatalf("disallowed jump must keep position, got %v", pos)
	}
	if d.Reason == "" {
		t.Fatal("disallowed jump should carry a reason for the UI")
	}
}

func TestJumpForwardAllowedWhenComplete(t *testing.T) {
	g := NewGate(3)
	pos, d := g.Jump(Dimension(0), Summary(), progress(true, true, true, true))
	if !d.Allowed || pos != Summary() {
		t.Fatalf("expected summary, got %v (%+v)", pos, d)
	}
}

func TestNextPrevWalkTheWizard(t *testing.T) {
	g := NewGate(2)

	pos := Scoping()
	want := []Position{Dimension(0), Dimension(1), Summary()}
	for _, w := range want {
		next, ok := g.Next(pos)
		if !ok || next != w {
			t.Fatalf("next of %v: expected %v, got %v (ok=%v)", pos, w, next, ok)
		}
		pos = next
	}
	if _, ok := g.Next(Summary()); ok {
		t.Fatal("summary has no next")
	}

	back := []Position{Dimension(1), Dimension(0), Scoping()}
	pos = Summary()
	for _, w := range back {
		prev, ok := g.Prev(pos)
		if !ok || prev != w {
			t.Fatalf("prev of %v: expected %v, got %v (ok=%v)", pos, w, prev, ok)
		}
		pos = prev
	}
	if _, ok := g.Prev(Scoping()); ok {
		t.Fatal("scoping has no prev")
	}
}

func TestFurthestClampsToPrerequisites(t *testing.T) {
	g := NewGate(3)

	if got := g.Furthest(progress(false, false, false, false)); got != Scoping() {
		t.Fatalf("expected scoping, got %v", got)
	}
	if got := g.Furthest(progress(true, true, false, false)); got != Dimension(1) {
		t.Fatalf("expected dimension(1), got %v", got)
	}
	if got := g.Furthest(progress(true, true, true, true)); got != Summary() {
		t.Fatalf("expected summary, got %v", got)
	}
}

func TestCanEnterFalseWheneverAnyPredecessorIncomplete(t *testing.T) {
	// Property sweep over all completeness masks for a 4-dimension wizard.
	g := NewGate(4)
	for mask := 0; mask < 16; mask++ {
		var complete []bool
		for i := 0; i < 4; i++ {
			complete = append(complete, mask&(1<<i) != 0)
		}
		p := progress(true, complete...)
		for i := 0; i < 4; i++ {
			d := g.CanEnter(Dimension(i), p)
			expected := true
			for j := 0; j < i; j++ {
				if !complete[j] {
					expected = false
					break
				}
			}
			if d.Allowed != expected {
				t.Fatalf("mask %04b dimension %d: expected allowed=%v, got %v", mask, i, expected, d.Allowed)
			}
		}
	}
}
