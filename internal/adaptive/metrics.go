package adaptive

import (
	"math"
	"time"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/recovery"
	"github.com/abhisek/studyplan/internal/weekplan"
)

// Trend describes how stress moved relative to the previous cycle.
type Trend string

const (
	TrendIncreasing Trend = "Increasing"
	TrendStable     Trend = "Stable"
	TrendDecreasing Trend = "Decreasing"
)

// Load adjustment factors fed back into allocation.
const (
	FactorBurnout          = 0.85
	FactorLowCompletion    = 0.90
	FactorNeutral          = 1.0
	FactorHighCompletion   = 1.05
	RebalancePenaltyFactor = 0.95
)

const (
	highCompletion    = 90
	lowCompletion     = 60
	burnoutCompletion = 50
	burnoutDifficulty = 70
	fallbackVelocity  = 0.8
)

// Metrics is the adaptive view of progress through the current plan.
type Metrics struct {
	CompletionRate         float64   `json:"completion_rate"`
	StressTrend            Trend     `json:"stress_trend"`
	BurnoutRisk            bool      `json:"burnout_risk"`
	ProjectedRecoveryDate  time.Time `json:"projected_recovery_date"`
	LoadAdjustmentFactor   float64   `json:"load_adjustment_factor"`
	MostChallengingSubject string    `json:"most_challenging_subject,omitempty"`
	RebalanceAvailable     bool      `json:"rebalance_available"`

	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	MissedTasks    int `json:"missed_tasks"`
	PartialTasks   int `json:"partial_tasks"`
}

// ComputeMetrics derives adaptive metrics from the plan's task statuses.
// Subjects must carry pressure scores; history supplies the previous stress
// level for the trend.
func ComputeMetrics(plan weekplan.Plan, subjects []backlog.Subject, profile backlog.Profile, history History, today time.Time) Metrics {
	var m Metrics
	var completedMinutes int
	missedBySubject := map[string]int{}

	for _, t := range plan.Tasks() {
		if t.IsBuffer() {
			continue
		}
		m.TotalTasks++
		switch t.Status {
		case weekplan.StatusCompleted:
			m.CompletedTasks++
			completedMinutes += t.Minutes
		case weekplan.StatusMissed:
			m.MissedTasks++
			missedBySubject[t.SubjectID]++
			if !t.Rescheduled {
				m.RebalanceAvailable = true
			}
		case weekplan.StatusPartiallyCompleted:
			m.PartialTasks++
		}
	}
	if m.TotalTasks > 0 {
		m.CompletionRate = float64(m.CompletedTasks) / float64(m.TotalTasks) * 100
	}

	m.StressTrend = stressTrend(profile.Stress.Value(), history)

	difficulty := recovery.ComputeRecoveryMetrics(subjects, profile).DifficultyScore
	m.BurnoutRisk = profile.Stress == backlog.StressHigh &&
		m.CompletionRate < burnoutCompletion &&
		difficulty > burnoutDifficulty
	m.LoadAdjustmentFactor = LoadFactor(m.CompletionRate, m.BurnoutRisk)

	m.ProjectedRecoveryDate = projectRecovery(subjects, profile, m.CompletionRate, completedMinutes, today)
	m.MostChallengingSubject = mostChallenging(subjects, missedBySubject)
	return m
}

// LoadFactor maps completion and burnout to the next allocation factor.
// Burnout takes precedence over completion.
func LoadFactor(completionRate float64, burnout bool) float64 {
	switch {
	case burnout:
		return FactorBurnout
	case completionRate > highCompletion:
		return FactorHighCompletion
	case completionRate < lowCompletion:
		return FactorLowCompletion
	default:
		return FactorNeutral
	}
}

func stressTrend(current int, history History) Trend {
	last, ok := history.LastStress()
	switch {
	case !ok || current == last:
		return TrendStable
	case current > last:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}

func projectRecovery(subjects []backlog.Subject, profile backlog.Profile, completionRate float64, completedMinutes int, today time.Time) time.Time {
	start := backlog.Midnight(today)

	var chapters int
	for _, s := range subjects {
		chapters += s.BacklogChapters
	}
	completedHours := float64(completedMinutes) / 60
	remaining := math.Max(0, float64(chapters)-completedHours/weekplan.HoursPerChapter)

	velocity := completionRate / 100
	if velocity == 0 {
		velocity = fallbackVelocity
	}
	perDay := profile.DailyHours * velocity
	if perDay <= 0 {
		return start
	}
	days := int(math.Ceil(remaining * weekplan.HoursPerChapter / perDay))
	return start.AddDate(0, 0, days)
}

// mostChallenging picks the subject with the most missed tasks, breaking
// ties by pressure. With nothing missed it falls back to pressure alone.
func mostChallenging(subjects []backlog.Subject, missed map[string]int) string {
	best := -1
	for i, s := range subjects {
		if best < 0 {
			best = i
			continue
		}
		b := subjects[best]
		if missed[s.ID] > missed[b.ID] ||
			(missed[s.ID] == missed[b.ID] && s.PressureScore > b.PressureScore) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return subjects[best].Name
}
