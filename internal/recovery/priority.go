package recovery

import (
	"github.com/abhisek/studyplan/internal/backlog"
)

// Thresholds feeding the explanation table.
const (
	highUrgencyThreshold = 0.8
	highBacklogThreshold = 8
)

type reasonKey struct {
	tier        backlog.PriorityTier
	urgencyHigh bool
	backlogHigh bool
}

var priorityReasons = map[reasonKey]string{
	{backlog.TierCritical, true, true}:   "Deadline is close and a large backlog remains; start here every day.",
	{backlog.TierCritical, true, false}:  "Deadline is close; finish the remaining chapters before anything else.",
	{backlog.TierCritical, false, true}:  "Large, heavy backlog; steady daily sessions keep it from snowballing.",
	{backlog.TierCritical, false, false}: "Highest combined pressure in your set; keep it at the top of each day.",

	{backlog.TierHigh, true, true}:   "Urgent with many chapters left; give it long focused blocks.",
	{backlog.TierHigh, true, false}:  "Deadline approaching; a few focused sessions will clear it.",
	{backlog.TierHigh, false, true}:  "Big backlog with some time to spare; chip away at it consistently.",
	{backlog.TierHigh, false, false}: "Above-average pressure; schedule it right after your critical subjects.",

	{backlog.TierMedium, true, true}:   "Urgent but outweighed by heavier subjects; use shorter sessions to stay on track.",
	{backlog.TierMedium, true, false}:  "Deadline is near but the workload is light; quick practice sessions suffice.",
	{backlog.TierMedium, false, true}:  "Sizeable backlog without immediate pressure; plan regular revision.",
	{backlog.TierMedium, false, false}: "Moderate pressure; maintain momentum with regular sessions.",

	{backlog.TierLow, true, true}:   "Lower relative pressure despite its deadline; revisit once urgent subjects ease.",
	{backlog.TierLow, true, false}:  "Small and due soon; fit a short session in before the deadline.",
	{backlog.TierLow, false, true}:  "Plenty of time remains; light weekly touch-points are enough for now.",
	{backlog.TierLow, false, false}: "Lowest pressure; keep it warm with occasional practice.",
}

// Prioritize ranks subjects by pressure score, highest first, and returns
// them in rank order. Equal scores keep their original order.
func Prioritize(subjects []backlog.Subject) []backlog.Subject {
	order := descendingByPressure(subjects)
	out := make([]backlog.Subject, 0, len(subjects))
	n := float64(len(subjects))
	for pos, idx := range order {
		s := subjects[idx]
		s.PriorityRank = pos + 1
		s.PriorityTier = priorityTier(float64(pos) / n)
		s.PriorityReason = PriorityReason(s)
		out = append(out, s)
	}
	return out
}

func priorityTier(percentile float64) backlog.PriorityTier {
	switch {
	case percentile < 0.30:
		return backlog.TierCritical
	case percentile < 0.60:
		return backlog.TierHigh
	case percentile < 0.85:
		return backlog.TierMedium
	default:
		return backlog.TierLow
	}
}

// PriorityReason explains a subject's tier from its urgency and backlog.
func PriorityReason(s backlog.Subject) string {
	return priorityReasons[reasonKey{
		tier:        s.PriorityTier,
		urgencyHigh: s.UrgencyScore >= highUrgencyThreshold,
		backlogHigh: s.BacklogChapters >= highBacklogThreshold,
	}]
}
