package recovery

import (
	"math"
	"testing"

	"github.com/abhisek/studyplan/internal/backlog"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAllocate_TwoSubjects(t *testing.T) {
	profile := backlog.Profile{DailyHours: 4, Pace: backlog.PaceModerate, Stress: backlog.StressModerate}
	subjects := []backlog.Subject{
		{ID: "a", Name: "A", PressureScore: 10},
		{ID: "b", Name: "B", PressureScore: 30},
	}

	shares := rawShares(subjects, 3.6)
	if !almostEqual(shares[0], 0.9) || !almostEqual(shares[1], 2.7) {
		t.Fatalf("raw shares = %v, want [0.9 2.7]", shares)
	}

	out, m := Allocate(subjects, profile, DefaultLoadFactor)

	if !almostEqual(m.UsableHours, 3.6) {
		t.Errorf("UsableHours = %v, want 3.6", m.UsableHours)
	}
	if !almostEqual(m.BufferHours, 0.4) {
		t.Errorf("BufferHours = %v, want 0.4", m.BufferHours)
	}
	// B's 2.7h raw share is clamped to the 2.0h ceiling (half of capacity).
	if out[1].AllocatedHours != 2.0 {
		t.Errorf("B = %v, want 2.0", out[1].AllocatedHours)
	}
	if out[0].AllocatedHours != 1.0 {
		t.Errorf("A = %v, want 1.0", out[0].AllocatedHours)
	}
	if out[0].AllocationPercent != 25 || out[1].AllocationPercent != 50 {
		t.Errorf("percentages = %d/%d, want 25/50", out[0].AllocationPercent, out[1].AllocationPercent)
	}
	if m.HeaviestSubject != "B" {
		t.Errorf("HeaviestSubject = %q, want B", m.HeaviestSubject)
	}
	if m.Balanced {
		t.Error("expected unbalanced allocation (B exceeds 40%)")
	}
	if !almostEqual(m.TotalAllocated, 3.0) || !almostEqual(m.RemainingHours, 0.6) {
		t.Errorf("total/remaining = %v/%v, want 3.0/0.6", m.TotalAllocated, m.RemainingHours)
	}
}

func TestAllocate_HighStressBuffer(t *testing.T) {
	profile := backlog.Profile{DailyHours: 4, Pace: backlog.PaceModerate, Stress: backlog.StressHigh}
	_, m := Allocate([]backlog.Subject{{Name: "A", PressureScore: 5}}, profile, DefaultLoadFactor)
	if !almostEqual(m.BufferHours, 0.6) {
		t.Errorf("BufferHours = %v, want 0.6", m.BufferHours)
	}
}

func TestAllocate_LoadFactorScalesCapacity(t *testing.T) {
	profile := backlog.Profile{DailyHours: 4, Pace: backlog.PaceFast, Stress: backlog.StressLow}
	subjects := []backlog.Subject{{Name: "A", PressureScore: 5}, {Name: "B", PressureScore: 5}}

	out, m := Allocate(subjects, profile, 0.85)
	if !almostEqual(m.AdjustedCapacity, 3.4) {
		t.Errorf("AdjustedCapacity = %v, want 3.4", m.AdjustedCapacity)
	}
	// 3.4 - 0.34 = 3.06 usable, 1.53 each, ceiling 1.7, rounds to 1.5.
	for _, s := range out {
		if s.AllocatedHours != 1.5 {
			t.Errorf("%s = %v, want 1.5", s.Name, s.AllocatedHours)
		}
		// Percent is against nominal capacity.
		if s.AllocationPercent != 38 {
			t.Errorf("%s percent = %d, want 38", s.Name, s.AllocationPercent)
		}
	}
}

func TestAllocate_RescaleDoesNotReclamp(t *testing.T) {
	profile := backlog.Profile{DailyHours: 2, Pace: backlog.PaceSlow, Stress: backlog.StressModerate}
	subjects := []backlog.Subject{
		{Name: "A", PressureScore: 2},
		{Name: "B", PressureScore: 2},
		{Name: "C", PressureScore: 2},
		{Name: "D", PressureScore: 2},
	}

	out, m := Allocate(subjects, profile, DefaultLoadFactor)

	// Each 0.45h share is lifted to the 0.75h floor, the 3h sum is scaled back
	// to 1.8h usable, and the result lands below the floor.
	for _, s := range out {
		if s.AllocatedHours != 0.5 {
			t.Errorf("%s = %v, want 0.5", s.Name, s.AllocatedHours)
		}
		if s.AllocatedHours >= MinHoursPerSubject(profile.Pace) {
			t.Errorf("%s unexpectedly re-clamped to floor", s.Name)
		}
	}
	if m.RemainingHours != 0 {
		t.Errorf("RemainingHours = %v, want 0", m.RemainingHours)
	}
}

func TestAllocate_TinyShareRoundsUpToQuarter(t *testing.T) {
	if got := roundToStep(0.1); got != 0.25 {
		t.Errorf("roundToStep(0.1) = %v, want 0.25", got)
	}
	if got := roundToStep(0); got != 0 {
		t.Errorf("roundToStep(0) = %v, want 0", got)
	}
	if got := roundToStep(1.12); got != 1.0 {
		t.Errorf("roundToStep(1.12) = %v, want 1.0", got)
	}
	if got := roundToStep(1.13); got != 1.25 {
		t.Errorf("roundToStep(1.13) = %v, want 1.25", got)
	}
}

func TestAllocate_Empty(t *testing.T) {
	out, m := Allocate(nil, backlog.DefaultProfile(), DefaultLoadFactor)
	if len(out) != 0 {
		t.Errorf("expected no subjects, got %d", len(out))
	}
	if m.TotalAllocated != 0 || m.HeaviestSubject != "" {
		t.Errorf("metrics = %+v", m)
	}
}

func TestAllocate_BalancedFlag(t *testing.T) {
	profile := backlog.Profile{DailyHours: 6, Pace: backlog.PaceModerate, Stress: backlog.StressModerate}
	var subjects []backlog.Subject
	for _, n := range []string{"A", "B", "C", "D"} {
		subjects = append(subjects, backlog.Subject{Name: n, PressureScore: 3})
	}
	_, m := Allocate(subjects, profile, DefaultLoadFactor)
	if !m.Balanced {
		t.Errorf("expected balanced allocation, got %+v", m)
	}
}
