package weekplan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studyplan/internal/backlog"
)

// DaysPerPlan is the length of a generated plan.
const DaysPerPlan = 7

// HoursPerChapter converts backlog chapters to study hours for forecasts.
const HoursPerChapter = 1.5

const (
	minSessionMinutes  = 15
	splitThreshold     = 90
	deepWorkShare      = 0.6
	practiceThreshold  = 40
	minBufferMinutes   = 20
	forecastVelocity   = 0.6
	minSessionsPerWeek = 3
	bufferLabel        = "Catch-up / flexible time"
)

var sessionsByTier = map[backlog.PriorityTier]int{
	backlog.TierCritical: 6,
	backlog.TierHigh:     5,
	backlog.TierMedium:   4,
	backlog.TierLow:      3,
}

// Day indices (0 = tomorrow) used for each weekly session count.
var sessionDays = map[int][]int{
	3: {0, 2, 4},
	4: {0, 1, 3, 5},
	5: {0, 1, 2, 4, 5},
	6: {0, 1, 2, 3, 4, 5},
	7: {0, 1, 2, 3, 4, 5, 6},
}

var taskNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studyplan/task"))

// SessionsPerWeek returns how many sessions a subject gets for its tier.
func SessionsPerWeek(tier backlog.PriorityTier, stress backlog.StressLevel) int {
	n, ok := sessionsByTier[tier]
	if !ok {
		n = minSessionsPerWeek
	}
	if stress == backlog.StressHigh {
		n--
	}
	if n < minSessionsPerWeek {
		n = minSessionsPerWeek
	}
	return n
}

// Generate expands allocated subjects into a seven-day plan starting the day
// after today. Subjects are placed in priority order so later subjects see
// the capacity left by earlier ones. The result depends only on its inputs.
func Generate(subjects []backlog.Subject, profile backlog.Profile, today time.Time) Plan {
	start := backlog.Midnight(today).AddDate(0, 0, 1)
	plan := Plan{StartDate: start, Days: make([]Day, DaysPerPlan)}

	remaining := make([]int, DaysPerPlan)
	for i := range plan.Days {
		date := start.AddDate(0, 0, i)
		intensity, mult := IntensityFor(date.Weekday())
		capacity := int(math.Floor(profile.DailyHours * mult * 60))
		plan.Days[i] = Day{
			ID:              date.Format(backlog.DateLayout),
			Date:            date,
			Weekday:         date.Weekday(),
			Intensity:       intensity,
			Multiplier:      mult,
			CapacityMinutes: capacity,
		}
		remaining[i] = capacity
	}

	for _, s := range byRank(subjects) {
		freq := SessionsPerWeek(s.PriorityTier, profile.Stress)
		perSession := int(math.Floor(s.AllocatedHours * DaysPerPlan * 60 / float64(freq)))

		for _, idx := range sessionDays[freq] {
			day := &plan.Days[idx]
			if afterDeadline(day.Date, s.Deadline) {
				continue
			}
			if remaining[idx] < minSessionMinutes {
				continue
			}
			minutes := perSession
			if minutes > remaining[idx] {
				minutes = remaining[idx]
			}
			if minutes < minSessionMinutes {
				continue
			}
			for _, t := range sessionBlocks(s, minutes) {
				appendTask(day, t)
			}
			day.TotalMinutes += minutes
			remaining[idx] -= minutes
		}
	}

	for i := range plan.Days {
		if left := remaining[i]; left > minBufferMinutes {
			appendTask(&plan.Days[i], Task{Type: TaskBuffer, Label: bufferLabel, Minutes: left})
			plan.Days[i].BufferMinutes += left
		}
	}

	plan.EstimatedRecoveryDays = EstimateRecoveryDays(subjects, plan)
	return plan
}

// sessionBlocks turns one session into typed blocks. Long sessions are
// split into deep work followed by revision.
func sessionBlocks(s backlog.Subject, minutes int) []Task {
	if minutes > splitThreshold {
		deep := int(math.Floor(float64(minutes) * deepWorkShare))
		return []Task{
			studyTask(s, TaskDeepWork, deep),
			studyTask(s, TaskRevision, minutes-deep),
		}
	}
	typ := TaskDeepWork
	if minutes < practiceThreshold {
		typ = TaskPractice
	}
	return []Task{studyTask(s, typ, minutes)}
}

func studyTask(s backlog.Subject, typ TaskType, minutes int) Task {
	return Task{
		SubjectID:   s.ID,
		SubjectName: s.Name,
		Type:        typ,
		Label:       fmt.Sprintf("%s: %s", typ, s.Name),
		Minutes:     minutes,
		Status:      StatusPending,
	}
}

// appendTask assigns a stable ID derived from the day and position.
func appendTask(day *Day, t Task) {
	name := fmt.Sprintf("%s/%d/%s/%s", day.ID, len(day.Tasks), t.SubjectID, t.Type)
	t.ID = uuid.NewSHA1(taskNamespace, []byte(name)).String()
	day.Tasks = append(day.Tasks, t)
}

func afterDeadline(date time.Time, deadline *time.Time) bool {
	if deadline == nil {
		return false
	}
	return date.After(backlog.Midnight(deadline.In(date.Location())))
}

func byRank(subjects []backlog.Subject) []backlog.Subject {
	out := backlog.Clone(subjects)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].PriorityRank, out[j].PriorityRank
		if ri == 0 || rj == 0 {
			return ri != 0 && rj == 0
		}
		return ri < rj
	})
	return out
}

// EstimateRecoveryDays is a rough forecast assuming 60% of scheduled time
// turns into backlog progress. Returns 0 when nothing is scheduled.
func EstimateRecoveryDays(subjects []backlog.Subject, plan Plan) int {
	var chapters int
	for _, s := range subjects {
		chapters += s.BacklogChapters
	}
	var scheduled int
	for _, d := range plan.Days {
		scheduled += d.StudyMinutes()
	}
	if scheduled == 0 || chapters == 0 {
		return 0
	}
	perDay := float64(scheduled) / 60 * forecastVelocity / DaysPerPlan
	return int(math.Ceil(float64(chapters) * HoursPerChapter / perDay))
}
