package recovery

import (
	"fmt"
	"testing"

	"github.com/abhisek/studyplan/internal/backlog"
)

func TestPrioritize_RanksArePermutation(t *testing.T) {
	scores := []float64{3, 9.5, 1, 9.5, 4.2, 7, 1, 12, 2.5, 6}
	var subjects []backlog.Subject
	for i, p := range scores {
		subjects = append(subjects, backlog.Subject{ID: fmt.Sprintf("s%d", i), PressureScore: p})
	}

	out := Prioritize(subjects)

	seen := make(map[int]bool)
	for i, s := range out {
		if s.PriorityRank != i+1 {
			t.Errorf("position %d has rank %d", i, s.PriorityRank)
		}
		if seen[s.PriorityRank] {
			t.Errorf("duplicate rank %d", s.PriorityRank)
		}
		seen[s.PriorityRank] = true
		if i > 0 && out[i-1].PressureScore < s.PressureScore {
			t.Errorf("rank %d (%v) above rank %d (%v)", i, out[i-1].PressureScore, i+1, s.PressureScore)
		}
	}
	if len(seen) != len(subjects) {
		t.Errorf("ranks = %d, want %d", len(seen), len(subjects))
	}
}

func TestPrioritize_StableTies(t *testing.T) {
	subjects := []backlog.Subject{
		{ID: "first", PressureScore: 5},
		{ID: "top", PressureScore: 8},
		{ID: "second", PressureScore: 5},
		{ID: "third", PressureScore: 5},
	}
	out := Prioritize(subjects)

	want := []string{"top", "first", "second", "third"}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("rank %d = %s, want %s", i+1, out[i].ID, id)
		}
	}
}

func TestPrioritize_Tiers(t *testing.T) {
	var subjects []backlog.Subject
	for i := 0; i < 10; i++ {
		subjects = append(subjects, backlog.Subject{ID: fmt.Sprintf("s%d", i), PressureScore: float64(100 - i)})
	}
	out := Prioritize(subjects)

	want := []backlog.PriorityTier{
		backlog.TierCritical, backlog.TierCritical, backlog.TierCritical,
		backlog.TierHigh, backlog.TierHigh, backlog.TierHigh,
		backlog.TierMedium, backlog.TierMedium, backlog.TierMedium,
		backlog.TierLow,
	}
	for i, s := range out {
		if s.PriorityTier != want[i] {
			t.Errorf("rank %d tier = %s, want %s", s.PriorityRank, s.PriorityTier, want[i])
		}
	}
}

func TestPriorityReason_DecisionTable(t *testing.T) {
	tiers := []backlog.PriorityTier{backlog.TierCritical, backlog.TierHigh, backlog.TierMedium, backlog.TierLow}
	reasons := make(map[string]bool)
	for _, tier := range tiers {
		for _, urgency := range []float64{0.5, 0.8} {
			for _, chapters := range []int{3, 8} {
				r := PriorityReason(backlog.Subject{PriorityTier: tier, UrgencyScore: urgency, BacklogChapters: chapters})
				if r == "" {
					t.Errorf("no reason for %s urgency=%v chapters=%d", tier, urgency, chapters)
				}
				reasons[r] = true
			}
		}
	}
	if len(reasons) != 16 {
		t.Errorf("distinct reasons = %d, want 16", len(reasons))
	}
}

func TestPrioritize_DoesNotMutateInput(t *testing.T) {
	subjects := []backlog.Subject{{ID: "a", PressureScore: 1}, {ID: "b", PressureScore: 2}}
	Prioritize(subjects)
	if subjects[0].ID != "a" || subjects[0].PriorityRank != 0 {
		t.Errorf("input mutated: %+v", subjects)
	}
}
