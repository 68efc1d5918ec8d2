package coach

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
)

const systemPrompt = `You are a calm, practical study coach helping a student recover from a backlog of unfinished chapters before their exams. You are given the output of a planning engine. Do not recompute its numbers; explain them and turn them into concrete next steps.`

func buildUserMessage(res planner.Results, maxSubjects int) string {
	var b strings.Builder

	p := res.Profile
	b.WriteString(fmt.Sprintf("Profile: %.1f study hours/day, %s pace, %s stress\n", p.DailyHours, p.Pace, p.Stress))
	b.WriteString(fmt.Sprintf("Recovery difficulty: %d/100 (%s)\n", res.Recovery.DifficultyScore, res.Recovery.Category))
	b.WriteString(fmt.Sprintf("Load ratio: %.2f\n", res.Recovery.LoadRatio))

	b.WriteString("\nSubjects by priority:\n")
	for i, s := range byRank(res.Subjects) {
		if maxSubjects > 0 && i >= maxSubjects {
			b.WriteString(fmt.Sprintf("- ... and %d more\n", len(res.Subjects)-maxSubjects))
			break
		}
		b.WriteString(fmt.Sprintf("- #%d %s: %d chapters, %s difficulty, %d days left, %s, %.2fh/day\n",
			s.PriorityRank, s.Name, s.BacklogChapters, s.Difficulty, s.DaysRemaining, s.PriorityTier, s.AllocatedHours))
	}

	a := res.Adaptive
	b.WriteString("\nProgress this week:\n")
	b.WriteString(fmt.Sprintf("- %d of %d tasks completed (%.0f%%), %d missed, %d partial\n",
		a.CompletedTasks, a.TotalTasks, a.CompletionRate, a.MissedTasks, a.PartialTasks))
	b.WriteString(fmt.Sprintf("- Stress trend: %s\n", a.StressTrend))
	if a.BurnoutRisk {
		b.WriteString("- Burnout risk detected\n")
	}
	if a.MostChallengingSubject != "" {
		b.WriteString(fmt.Sprintf("- Most challenging subject: %s\n", a.MostChallengingSubject))
	}
	b.WriteString(fmt.Sprintf("- Projected recovery date: %s\n", a.ProjectedRecoveryDate.Format(backlog.DateLayout)))

	b.WriteString(`
Instructions:
1. Summarize the student's situation in 2-3 sentences. Mention the difficulty score and the projected recovery date.
2. Give 1-5 focus tips for this week. Each tip names a subject or a habit and is specific enough to act on today.
3. If burnout risk is detected or completion is below 50%, put the most important risk in "warning". Otherwise return an empty string.
4. Plain text only. No markdown.`)

	return b.String()
}

// byRank returns subjects ordered by priority rank, unranked last.
func byRank(subjects []backlog.Subject) []backlog.Subject {
	out := backlog.Clone(subjects)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PriorityRank, out[j].PriorityRank
		if a == 0 {
			return false
		}
		return b == 0 || a < b
	})
	return out
}
