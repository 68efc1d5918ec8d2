package coach

import (
	"fmt"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
)

const maxFallbackTips = 3

func (c *Coach) fallback(res planner.Results) Advice {
	return Advice{
		Summary:     fallbackSummary(res),
		FocusTips:   fallbackTips(res),
		Warning:     fallbackWarning(res.Adaptive),
		Source:      SourceFallback,
		GeneratedAt: c.now(),
	}
}

func fallbackSummary(res planner.Results) string {
	r := res.Recovery
	a := res.Adaptive
	s := fmt.Sprintf("Recovery difficulty is %d/100 (%s). %s", r.DifficultyScore, r.Category, r.Message)
	if a.TotalTasks > 0 {
		s += fmt.Sprintf(" You have completed %d of %d tasks (%.0f%%)", a.CompletedTasks, a.TotalTasks, a.CompletionRate)
		if !a.ProjectedRecoveryDate.IsZero() {
			s += fmt.Sprintf("; at this pace the backlog clears by %s", a.ProjectedRecoveryDate.Format(backlog.DateLayout))
		}
		s += "."
	}
	return s
}

func fallbackTips(res planner.Results) []string {
	var tips []string
	for _, s := range byRank(res.Subjects) {
		if len(tips) == maxFallbackTips {
			break
		}
		if s.PriorityRank == 0 {
			continue
		}
		tip := fmt.Sprintf("%s: %.2fh/day (%s).", s.Name, s.AllocatedHours, s.PriorityTier)
		if s.PriorityReason != "" {
			tip += " " + s.PriorityReason
		}
		tips = append(tips, tip)
	}
	if name := res.Adaptive.MostChallengingSubject; name != "" && res.Adaptive.MissedTasks > 0 {
		tips = append(tips, fmt.Sprintf("%s has the most missed sessions; start your next study block with it.", name))
	}
	if res.Adaptive.RebalanceAvailable {
		tips = append(tips, "Rebalance the plan to move missed sessions into the coming days.")
	}
	return tips
}

func fallbackWarning(a adaptive.Metrics) string {
	switch {
	case a.BurnoutRisk:
		return "Burnout risk: completion is low while stress is high. Your daily load has been cut by 15%; rest before pushing harder."
	case a.TotalTasks > 0 && a.CompletedTasks+a.MissedTasks+a.PartialTasks > 0 && a.CompletionRate < 50:
		return "Less than half of this week's tasks are done. Focus on the top priority subject before anything else."
	}
	return ""
}
