package backlog

import (
	"time"

	"github.com/google/uuid"
)

// UrgencyLabel buckets days-until-deadline.
type UrgencyLabel string

const (
	UrgencyCritical UrgencyLabel = "Critical"
	UrgencyHigh     UrgencyLabel = "High"
	UrgencyModerate UrgencyLabel = "Moderate"
	UrgencyLow      UrgencyLabel = "Low"
)

// PressureCategory is a subject's pressure relative to the rest of the set.
type PressureCategory string

const (
	PressureCritical PressureCategory = "Critical"
	PressureHigh     PressureCategory = "High"
	PressureModerate PressureCategory = "Moderate"
	PressureLow      PressureCategory = "Low"
)

// PriorityTier is the coarse bucket assigned from a subject's rank.
type PriorityTier string

const (
	TierCritical PriorityTier = "Critical Priority"
	TierHigh     PriorityTier = "High Priority"
	TierMedium   PriorityTier = "Medium Priority"
	TierLow      PriorityTier = "Low Priority"
)

// Subject is one backlog unit. The fields below the user-supplied block are
// derived by the planning stages and are overwritten on every run.
type Subject struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	BacklogChapters int        `json:"backlog_chapters"`
	Difficulty      Difficulty `json:"difficulty"`
	Deadline        *time.Time `json:"deadline,omitempty"`

	DaysRemaining     int              `json:"days_remaining"`
	UrgencyScore      float64          `json:"urgency_score"`
	UrgencyLabel      UrgencyLabel     `json:"urgency_label,omitempty"`
	PressureScore     float64          `json:"pressure_score"`
	PressureCategory  PressureCategory `json:"pressure_category,omitempty"`
	PriorityRank      int              `json:"priority_rank"`
	PriorityTier      PriorityTier     `json:"priority_tier,omitempty"`
	PriorityReason    string           `json:"priority_reason,omitempty"`
	AllocatedHours    float64          `json:"allocated_hours"`
	AllocationPercent int              `json:"allocation_percent"`
}

// NewSubject creates a subject with a fresh identifier.
// The deadline, when set, is truncated to its calendar date.
func NewSubject(name string, chapters int, difficulty Difficulty, deadline *time.Time) Subject {
	s := Subject{
		ID:              uuid.NewString(),
		Name:            name,
		BacklogChapters: chapters,
		Difficulty:      difficulty,
	}
	if deadline != nil {
		d := Midnight(*deadline)
		s.Deadline = &d
	}
	return s
}

// ClearDerived returns a copy with every engine-owned field reset.
func (s Subject) ClearDerived() Subject {
	return Subject{
		ID:              s.ID,
		Name:            s.Name,
		BacklogChapters: s.BacklogChapters,
		Difficulty:      s.Difficulty,
		Deadline:        s.Deadline,
	}
}

// Clone copies a subject slice so stages never alias their input.
func Clone(subjects []Subject) []Subject {
	if subjects == nil {
		return nil
	}
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// Midnight returns t truncated to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD calendar date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// DateLayout is the calendar date format used across the planner.
const DateLayout = "2006-01-02"
