package recovery

import (
	"sort"

	"github.com/abhisek/studyplan/internal/backlog"
)

// MinPressure is the floor applied to every pressure score.
const MinPressure = 1.0

var difficultyWeights = map[backlog.Difficulty]float64{
	backlog.DifficultyLow:      1,
	backlog.DifficultyModerate: 1.5,
	backlog.DifficultyHigh:     2,
}

var stressMultipliers = map[backlog.StressLevel]float64{
	backlog.StressLow:      0.9,
	backlog.StressModerate: 1.0,
	backlog.StressHigh:     1.2,
}

// Slower learners perceive more effort per chapter.
var paceMultipliers = map[backlog.Pace]float64{
	backlog.PaceSlow:     1.2,
	backlog.PaceModerate: 1.0,
	backlog.PaceFast:     0.85,
}

// DifficultyWeight returns the backlog weight for a difficulty (1 if unknown).
func DifficultyWeight(d backlog.Difficulty) float64 {
	if w, ok := difficultyWeights[d]; ok {
		return w
	}
	return 1
}

// StressMultiplier returns the pressure multiplier for a stress level.
func StressMultiplier(s backlog.StressLevel) float64 {
	if m, ok := stressMultipliers[s]; ok {
		return m
	}
	return 1
}

// PaceMultiplier returns the pressure multiplier for a learning pace.
func PaceMultiplier(p backlog.Pace) float64 {
	if m, ok := paceMultipliers[p]; ok {
		return m
	}
	return 1
}

// PressureScore combines backlog size, difficulty, urgency and profile.
// The subject must already carry an urgency score.
func PressureScore(s backlog.Subject, profile backlog.Profile) float64 {
	backlogWeight := float64(s.BacklogChapters) * DifficultyWeight(s.Difficulty)
	base := backlogWeight * s.UrgencyScore
	score := round2(base * StressMultiplier(profile.Stress) * PaceMultiplier(profile.Pace))
	if score < MinPressure {
		return MinPressure
	}
	return score
}

// ComputePressure scores every subject and assigns its pressure category
// relative to the rest of the set. Adding or removing a subject can move
// another subject between categories without changing its score.
func ComputePressure(subjects []backlog.Subject, profile backlog.Profile) []backlog.Subject {
	out := backlog.Clone(subjects)
	for i := range out {
		out[i].PressureScore = PressureScore(out[i], profile)
	}

	order := descendingByPressure(out)
	n := float64(len(out))
	for pos, idx := range order {
		out[idx].PressureCategory = pressureCategory(float64(pos) / n)
	}
	return out
}

func pressureCategory(percentile float64) backlog.PressureCategory {
	switch {
	case percentile < 0.25:
		return backlog.PressureCritical
	case percentile < 0.50:
		return backlog.PressureHigh
	case percentile < 0.75:
		return backlog.PressureModerate
	default:
		return backlog.PressureLow
	}
}

// descendingByPressure returns subject indices ordered by pressure, highest
// first. Ties keep insertion order.
func descendingByPressure(subjects []backlog.Subject) []int {
	order := make([]int, len(subjects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return subjects[order[a]].PressureScore > subjects[order[b]].PressureScore
	})
	return order
}
