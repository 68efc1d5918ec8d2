package adaptive

import (
	"errors"

	"github.com/google/uuid"

	"github.com/abhisek/studyplan/internal/weekplan"
)

var (
	ErrDayNotFound  = errors.New("adaptive: day not found")
	ErrTaskNotFound = errors.New("adaptive: task not found")
)

// ReschedulePrefix marks the label of a task moved by Rebalance.
const ReschedulePrefix = "(Rescheduled) "

// ToggleTaskStatus advances one task to its next status. The input plan is
// left untouched.
func ToggleTaskStatus(plan weekplan.Plan, dayID, taskID string) (weekplan.Plan, error) {
	di := plan.DayIndex(dayID)
	if di < 0 {
		return plan, ErrDayNotFound
	}
	for ti, t := range plan.Days[di].Tasks {
		if t.ID != taskID {
			continue
		}
		out := plan.Clone()
		out.Days[di].Tasks[ti].Status = t.Status.Next()
		return out, nil
	}
	return plan, ErrTaskNotFound
}

type missedRef struct {
	day, task int
}

// Rebalance copies every outstanding missed study task into a later day as
// a fresh pending task and returns the new plan with the number moved.
//
// Targets rotate over days 1..n-1, avoiding the task's own day when another
// choice exists. Target capacity is not checked, so a day may end up over
// its nominal capacity.
func Rebalance(plan weekplan.Plan) (weekplan.Plan, int) {
	var missed []missedRef
	for di, d := range plan.Days {
		for ti, t := range d.Tasks {
			if t.Status == weekplan.StatusMissed && !t.Rescheduled && !t.IsBuffer() {
				missed = append(missed, missedRef{di, ti})
			}
		}
	}
	if len(missed) == 0 {
		return plan, 0
	}

	out := plan.Clone()
	targets := targetDays(len(out.Days))
	cursor := 0
	for _, ref := range missed {
		target := targets[cursor%len(targets)]
		if target == ref.day && len(targets) > 1 {
			cursor++
			target = targets[cursor%len(targets)]
		}
		cursor++

		orig := &out.Days[ref.day].Tasks[ref.task]
		clone := *orig
		clone.ID = uuid.NewString()
		clone.Label = ReschedulePrefix + orig.Label
		clone.Status = weekplan.StatusPending
		clone.Rescheduled = false
		clone.RescheduledFrom = orig.ID
		orig.Rescheduled = true

		day := &out.Days[target]
		day.Tasks = append(day.Tasks, clone)
		day.TotalMinutes += clone.Minutes
	}
	return out, len(missed)
}

func targetDays(n int) []int {
	if n <= 1 {
		return []int{0}
	}
	out := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, i)
	}
	return out
}
