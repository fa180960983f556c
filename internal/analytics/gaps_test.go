package analytics

import "testing"

func fptr(v float64) *float64 { return &v }

func TestGapsRankedAscendingWithDeclarationTieBreak(t *testing.T) {
	scores := map[string]*float64{
		"D1": fptr(2.0),
		"D2": fptr(1.5),
		"D3": fptr(2.0), // ties with D1, D1 declared first
		"D4": fptr(3.5), // not a gap
		"D5": nil,       // unanswered, skipped
	}
	order := []string{"D1", "D2", "D3", "D4", "D5"}
	names := map[string]string{"D1": "Risk", "D2": "Data", "D3": "Docs", "D4": "Transparency", "D5": "Oversight"}

	gaps := Gaps(scores, order, names, DefaultGapThreshold)

	if len(gaps) != 3 {
		t.Fatalf("expected 3 gaps, got %d", len(gaps))
	}
	wantOrder := []string{"D2", "D1", "D3"}
	for i, id := range wantOrder {
		if gaps[i].DimensionID != id {
			t.Fatalf("rank %d: expected %s, got %s", i+1, id, gaps[i].DimensionID)
		}
		if gaps[i].PriorityRank != i+1 {
			t.Fatalf("%s: expected rank %d, got %d", id, i+1, gaps[i].PriorityRank)
		}
	}
}

func TestSeverityTiers(t *testing.T) {
	cases := []struct {
		gapValue float64
		want     Severity
	}{
		{2.5, SeverityCritical},
		{2.0, SeverityCritical},
		{1.99, SeveritySignificant},
		{1.0, SeveritySignificant},
		{0.99, SeverityModerate},
		{0.1, SeverityModerate},
	}
	for _, tc := range cases {
		if got := SeverityFor(tc.gapValue); got != tc.want {
			t.Errorf("gap value %v: expected %s, got %s", tc.gapValue, tc.want, got)
		}
	}
}

func TestGapThresholdByRiskCategory(t *testing.T) {
	cases := map[string]float64{
		"high-risk":    3.0,
		"limited-risk": 2.5,
		"minimal-risk": 2.0,
		"":             3.0,
		"unknown":      3.0,
	}
	for cat, want := range cases {
		if got := GapThreshold(cat); got != want {
			t.Errorf("category %q: expected %v, got %v", cat, want, got)
		}
	}
}

func TestDependencyWarningAttachedToDependentGap(t *testing.T) {
	// D1 averages 1.5 and D5 (which depends on D1) averages 2.0:
	// both gaps, and D5's gap references D1.
	scores := map[string]*float64{
		"D1": fptr(1.5),
		"D2": fptr(4.0),
		"D3": fptr(4.0),
		"D4": fptr(4.0),
		"D5": fptr(2.0),
		"D6": fptr(4.0),
	}
	order := []string{"D1", "D2", "D3", "D4", "D5", "D6"}
	names := map[string]string{}

	gaps := Gaps(scores, order, names, DefaultGapThreshold)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}

	var d5 *Gap
	for i := range gaps {
		if gaps[i].DimensionID == "D5" {
			d5 = &gaps[i]
		}
	}
	if d5 == nil {
		t.Fatal("D5 gap missing")
	}
	if d5.PrerequisiteGap != "D1" {
		t.Fatalf("expected D5 gap to reference D1, got %q", d5.PrerequisiteGap)
	}

	warns := DependencyWarnings(gaps)
	if len(warns) != 1 || warns[0].Dependent != "D5" || warns[0].Prerequisite != "D1" {
		t.Fatalf("unexpected dependency warnings %+v", warns)
	}
}

func TestNoDependencyWarningWhenPrerequisiteHealthy(t *testing.T) {
	scores := map[string]*float64{
		"D1": fptr(4.0), // healthy prerequisite
		"D5": fptr(2.0), // gap
	}
	gaps := Gaps(scores, []string{"D1", "D5"}, map[string]string{}, DefaultGapThreshold)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if gaps[0].PrerequisiteGap != "" {
		t.Fatalf("no dependency warning expected, got %q", gaps[0].PrerequisiteGap)
	}
	if warns := DependencyWarnings(gaps); len(warns) != 0 {
		t.Fatalf("expected no warnings, got %+v", warns)
	}
}
