package weekplan

import (
	"time"
)

// TaskType classifies a block of study time.
type TaskType string

const (
	TaskDeepWork TaskType = "Deep Work"
	TaskRevision TaskType = "Revision"
	TaskPractice TaskType = "Practice"
	TaskBuffer   TaskType = "Buffer"
)

// Intensity is the energy profile assumed for a weekday.
type Intensity string

const (
	IntensityRecovery Intensity = "Recovery"
	IntensityLight    Intensity = "Light"
	IntensityModerate Intensity = "Moderate"
	IntensityHigh     Intensity = "High"
)

// Task is one block of time in a day.
type Task struct {
	ID          string   `json:"id"`
	SubjectID   string   `json:"subject_id,omitempty"`
	SubjectName string   `json:"subject_name,omitempty"`
	Type        TaskType `json:"type"`
	Label       string   `json:"label"`
	Minutes     int      `json:"minutes"`
	Status      Status   `json:"status"`

	// Rescheduled marks a missed task whose copy has been placed elsewhere.
	Rescheduled bool `json:"rescheduled,omitempty"`
	// RescheduledFrom is the ID of the missed task this one replaces.
	RescheduledFrom string `json:"rescheduled_from,omitempty"`
}

// IsBuffer reports whether the task is slack rather than study.
func (t Task) IsBuffer() bool {
	return t.Type == TaskBuffer
}

// Day is one calendar day of the plan.
type Day struct {
	ID              string       `json:"id"`
	Date            time.Time    `json:"date"`
	Weekday         time.Weekday `json:"weekday"`
	Intensity       Intensity    `json:"intensity"`
	Multiplier      float64      `json:"multiplier"`
	CapacityMinutes int          `json:"capacity_minutes"`
	// TotalMinutes counts study tasks only; buffer time is tracked separately.
	TotalMinutes  int    `json:"total_minutes"`
	BufferMinutes int    `json:"buffer_minutes"`
	Tasks         []Task `json:"tasks"`
}

// StudyMinutes sums the non-buffer task minutes in the day.
func (d Day) StudyMinutes() int {
	var total int
	for _, t := range d.Tasks {
		if !t.IsBuffer() {
			total += t.Minutes
		}
	}
	return total
}

// Plan is a seven-day schedule.
type Plan struct {
	StartDate             time.Time `json:"start_date"`
	Days                  []Day     `json:"days"`
	EstimatedRecoveryDays int       `json:"estimated_recovery_days"`
}

// Clone returns a deep copy so callers can edit without aliasing.
func (p Plan) Clone() Plan {
	out := p
	out.Days = make([]Day, len(p.Days))
	for i, d := range p.Days {
		d.Tasks = append([]Task(nil), d.Tasks...)
		out.Days[i] = d
	}
	return out
}

// DayIndex returns the index of the day with the given ID, or -1.
func (p Plan) DayIndex(dayID string) int {
	for i, d := range p.Days {
		if d.ID == dayID {
			return i
		}
	}
	return -1
}

// Tasks returns every task in day order.
func (p Plan) Tasks() []Task {
	var out []Task
	for _, d := range p.Days {
		out = append(out, d.Tasks...)
	}
	return out
}
