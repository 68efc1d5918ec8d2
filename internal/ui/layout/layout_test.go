package layout

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Physics", 10, "Physics"},
		{"Physics", 7, "Physics"},
		{"Deep Work: Physics", 8, "Deep Wo…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 40) {
		t.Error("79 columns should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}

func TestRenderHeader_Stats(t *testing.T) {
	plain := RenderHeader("Weekly Board", nil, 100)
	if strings.Contains(plain, "/100") {
		t.Error("header without stats should not show a difficulty")
	}

	h := RenderHeader("Weekly Board", &HeaderStats{CompletionRate: 42, DifficultyScore: 81, Category: "Critical", Stale: true}, 120)
	for _, want := range []string{"studyplan", "Weekly Board", "42%", "81/100", "stale"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFooter_CompactDropsDescriptions(t *testing.T) {
	hints := []KeyHint{{Key: "r", Description: "Rebalance"}}
	if !strings.Contains(RenderFooter(hints, 120), "Rebalance") {
		t.Error("wide footer should show descriptions")
	}
	if strings.Contains(RenderFooter(hints, 90), "Rebalance") {
		t.Error("compact footer should show keys only")
	}
}
