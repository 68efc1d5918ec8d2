package recovery

import (
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/backlog"
)

var testToday = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func dateIn(days int) *time.Time {
	d := backlog.Midnight(testToday).AddDate(0, 0, days)
	return &d
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name     string
		deadline *time.Time
		want     int
	}{
		{"no deadline", nil, DefaultDaysRemaining},
		{"today", dateIn(0), 0},
		{"tomorrow", dateIn(1), 1},
		{"two weeks", dateIn(14), 14},
		{"past", dateIn(-5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.deadline, testToday); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		days      int
		wantLabel backlog.UrgencyLabel
		wantScore float64
	}{
		{0, backlog.UrgencyCritical, 1.0},
		{3, backlog.UrgencyCritical, 1.0},
		{4, backlog.UrgencyHigh, 0.8},
		{7, backlog.UrgencyHigh, 0.8},
		{8, backlog.UrgencyModerate, 0.5},
		{14, backlog.UrgencyModerate, 0.5},
		{15, backlog.UrgencyLow, 0.2},
		{30, backlog.UrgencyLow, 0.2},
	}
	for _, tt := range tests {
		label, score := UrgencyFor(tt.days)
		if label != tt.wantLabel || score != tt.wantScore {
			t.Errorf("UrgencyFor(%d) = %s/%v, want %s/%v", tt.days, label, score, tt.wantLabel, tt.wantScore)
		}
	}
}

func TestComputeUrgency_NoDeadlineDefaults(t *testing.T) {
	in := []backlog.Subject{{ID: "a", Name: "Art", BacklogChapters: 2, Difficulty: backlog.DifficultyLow}}
	out := ComputeUrgency(in, testToday)

	if out[0].DaysRemaining != 30 {
		t.Errorf("DaysRemaining = %d, want 30", out[0].DaysRemaining)
	}
	if out[0].UrgencyLabel != backlog.UrgencyLow {
		t.Errorf("UrgencyLabel = %s, want Low", out[0].UrgencyLabel)
	}
	if in[0].UrgencyLabel != "" {
		t.Error("input was mutated")
	}
}

func TestComputeUrgency_NeverNegative(t *testing.T) {
	var in []backlog.Subject
	for d := -10; d <= 40; d += 5 {
		in = append(in, backlog.Subject{Name: "s", BacklogChapters: 1, Deadline: dateIn(d)})
	}
	for _, s := range ComputeUrgency(in, testToday) {
		if s.DaysRemaining < 0 {
			t.Errorf("DaysRemaining = %d, want >= 0", s.DaysRemaining)
		}
	}
}
