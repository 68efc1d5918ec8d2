package recovery

import (
	"math"

	"github.com/abhisek/studyplan/internal/backlog"
)

// DifficultyCategory buckets the recovery difficulty score.
type DifficultyCategory string

const (
	DifficultyCritical DifficultyCategory = "Critical"
	DifficultyHigh     DifficultyCategory = "High"
	DifficultyModerate DifficultyCategory = "Moderate"
	DifficultyLow      DifficultyCategory = "Low"
)

var difficultyMessages = map[DifficultyCategory]string{
	DifficultyCritical: "Your backlog far exceeds your weekly capacity. Focus on the most urgent subjects and consider negotiating deadlines or adding study hours.",
	DifficultyHigh:     "Recovery is demanding but achievable with consistent daily effort. Protect your study hours and avoid taking on new commitments.",
	DifficultyModerate: "Your backlog is manageable. Stick to the plan and use buffer time to absorb slips.",
	DifficultyLow:      "You are in good shape. A steady routine will clear the backlog comfortably.",
}

// Metrics is an aggregate snapshot of how hard the recovery will be.
type Metrics struct {
	TotalPressure   float64            `json:"total_pressure"`
	WeeklyCapacity  float64            `json:"weekly_capacity"`
	LoadRatio       float64            `json:"load_ratio"`
	DifficultyScore int                `json:"difficulty_score"`
	Category        DifficultyCategory `json:"category"`
	Message         string             `json:"message"`
}

// ComputeRecoveryMetrics reduces pressure scores and weekly capacity to a
// 0-100 difficulty index. Subjects must already carry pressure scores.
// Callers should not invoke it without subjects; an empty set yields a
// zero-score Low snapshot.
func ComputeRecoveryMetrics(subjects []backlog.Subject, profile backlog.Profile) Metrics {
	var total float64
	for _, s := range subjects {
		total += s.PressureScore
	}
	weekly := profile.DailyHours * 7

	m := Metrics{
		TotalPressure:  round2(total),
		WeeklyCapacity: weekly,
	}
	if weekly > 0 {
		m.LoadRatio = round2(total / weekly)
		m.DifficultyScore = DifficultyScore(total / weekly)
	}
	m.Category = difficultyCategory(m.DifficultyScore)
	m.Message = difficultyMessages[m.Category]
	return m
}

// DifficultyScore converts a load ratio into the 0-100 index.
func DifficultyScore(loadRatio float64) int {
	score := int(math.Round(loadRatio * 50))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func difficultyCategory(score int) DifficultyCategory {
	switch {
	case score > 80:
		return DifficultyCritical
	case score > 60:
		return DifficultyHigh
	case score > 30:
		return DifficultyModerate
	default:
		return DifficultyLow
	}
}
