package recovery

import (
	"testing"

	"github.com/abhisek/studyplan/internal/backlog"
)

func TestComputeRecoveryMetrics(t *testing.T) {
	profile := backlog.Profile{DailyHours: 2, Pace: backlog.PaceModerate, Stress: backlog.StressModerate}
	subjects := []backlog.Subject{{PressureScore: 14}, {PressureScore: 7}}

	m := ComputeRecoveryMetrics(subjects, profile)

	if m.TotalPressure != 21 {
		t.Errorf("TotalPressure = %v, want 21", m.TotalPressure)
	}
	if m.WeeklyCapacity != 14 {
		t.Errorf("WeeklyCapacity = %v, want 14", m.WeeklyCapacity)
	}
	if m.LoadRatio != 1.5 {
		t.Errorf("LoadRatio = %v, want 1.5", m.LoadRatio)
	}
	if m.DifficultyScore != 75 {
		t.Errorf("DifficultyScore = %d, want 75", m.DifficultyScore)
	}
	if m.Category != DifficultyHigh {
		t.Errorf("Category = %s, want High", m.Category)
	}
	if m.Message == "" {
		t.Error("expected advisory message")
	}
}

func TestDifficultyScore_Bounds(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0, 0},
		{0.62, 31},
		{1.2, 60},
		{1.22, 61},
		{2, 100},
		{50, 100},
	}
	for _, tt := range tests {
		if got := DifficultyScore(tt.ratio); got != tt.want {
			t.Errorf("DifficultyScore(%v) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func TestDifficultyCategory(t *testing.T) {
	tests := []struct {
		score int
		want  DifficultyCategory
	}{
		{0, DifficultyLow},
		{30, DifficultyLow},
		{31, DifficultyModerate},
		{60, DifficultyModerate},
		{61, DifficultyHigh},
		{80, DifficultyHigh},
		{81, DifficultyCritical},
		{100, DifficultyCritical},
	}
	for _, tt := range tests {
		if got := difficultyCategory(tt.score); got != tt.want {
			t.Errorf("difficultyCategory(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestComputeRecoveryMetrics_Empty(t *testing.T) {
	m := ComputeRecoveryMetrics(nil, backlog.DefaultProfile())
	if m.DifficultyScore != 0 || m.Category != DifficultyLow {
		t.Errorf("empty metrics = %+v", m)
	}
}
