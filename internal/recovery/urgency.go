package recovery

import (
	"math"
	"time"

	"github.com/abhisek/studyplan/internal/backlog"
)

// DefaultDaysRemaining is assumed for subjects without a deadline.
const DefaultDaysRemaining = 30

// Urgency scores by label.
const (
	UrgencyScoreCritical = 1.0
	UrgencyScoreHigh     = 0.8
	UrgencyScoreModerate = 0.5
	UrgencyScoreLow      = 0.2
)

// DaysRemaining returns whole days from today until deadline, never negative.
func DaysRemaining(deadline *time.Time, today time.Time) int {
	if deadline == nil {
		return DefaultDaysRemaining
	}
	start := backlog.Midnight(today)
	end := backlog.Midnight(deadline.In(today.Location()))
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// UrgencyFor maps days remaining onto a label and score.
func UrgencyFor(days int) (backlog.UrgencyLabel, float64) {
	switch {
	case days <= 3:
		return backlog.UrgencyCritical, UrgencyScoreCritical
	case days <= 7:
		return backlog.UrgencyHigh, UrgencyScoreHigh
	case days <= 14:
		return backlog.UrgencyModerate, UrgencyScoreModerate
	default:
		return backlog.UrgencyLow, UrgencyScoreLow
	}
}

// ComputeUrgency annotates each subject with days remaining and urgency.
func ComputeUrgency(subjects []backlog.Subject, today time.Time) []backlog.Subject {
	out := backlog.Clone(subjects)
	for i := range out {
		days := DaysRemaining(out[i].Deadline, today)
		label, score := UrgencyFor(days)
		out[i].DaysRemaining = days
		out[i].UrgencyLabel = label
		out[i].UrgencyScore = score
	}
	return out
}
