package questiongen

import (
	"strings"
	"testing"
)

func fixedSuffix() string { return "abc123" }

func TestSelectFacet_Cycles(t *testing.T) {
	facets := []string{"a", "b", "c"}
	used := NewTopicSet()

	if got := selectFacet(facets, used, 0, fixedSuffix); got != "a" {
		t.Errorf("index 0 = %q, want a", got)
	}
	if got := selectFacet(facets, used, 4, fixedSuffix); got != "b" {
		t.Errorf("index 4 = %q, want b", got)
	}
}

func TestSelectFacet_SkipsUsed(t *testing.T) {
	facets := []string{"a", "b", "c"}
	used := NewTopicSet()
	used.Add("a")

	if got := selectFacet(facets, used, 0, fixedSuffix); got != "b" {
		t.Errorf("got %q, want b", got)
	}
	if got := selectFacet(facets, used, 1, fixedSuffix); got != "c" {
		t.Errorf("got %q, want c", got)
	}
}

func TestSelectFacet_HybridWhenExhausted(t *testing.T) {
	facets := []string{"a", "b"}
	used := NewTopicSet()
	used.Add("a")
	used.Add("b")

	got := selectFacet(facets, used, 1, fixedSuffix)
	if got != "hybrid_b_abc123" {
		t.Errorf("got %q, want hybrid_b_abc123", got)
	}
	if used.Has(got) {
		t.Error("hybrid facet should be new")
	}
}

func TestBaseFacet(t *testing.T) {
	tests := map[string]string{
		"work_environment":              "work_environment",
		"hybrid_work_environment_x7k2p": "work_environment",
		"hybrid_risk_tolerance_abc123":  "risk_tolerance",
	}
	for in, want := range tests {
		if got := baseFacet(in); got != want {
			t.Errorf("baseFacet(%q) = %q, want %q", in, got, want)
		}
	}
	if got := humanFacet("hybrid_team_dynamics_q1"); got != "team dynamics" {
		t.Errorf("humanFacet = %q", got)
	}
}

func TestRandomSuffix(t *testing.T) {
	s := randomSuffix()
	if len(s) != 6 || strings.Contains(s, "-") {
		t.Errorf("unexpected suffix %q", s)
	}
}
