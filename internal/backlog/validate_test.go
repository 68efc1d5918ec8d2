package backlog

import (
	"errors"
	"testing"
	"time"
)

func deadlineIn(days int) *time.Time {
	d := Midnight(time.Now()).AddDate(0, 0, days)
	return &d
}

func TestValidate(t *testing.T) {
	good := NewSubject("Physics", 10, DifficultyHigh, deadlineIn(5))

	tests := []struct {
		name     string
		subjects []Subject
		profile  Profile
		want     error
	}{
		{"valid", []Subject{good}, DefaultProfile(), nil},
		{"no subjects", nil, DefaultProfile(), ErrNoSubjects},
		{"missing name", []Subject{NewSubject("  ", 3, DifficultyLow, deadlineIn(3))}, DefaultProfile(), ErrMissingName},
		{"zero backlog", []Subject{NewSubject("Chem", 0, DifficultyLow, deadlineIn(3))}, DefaultProfile(), ErrInvalidBacklog},
		{"missing deadline", []Subject{NewSubject("Bio", 2, DifficultyLow, nil)}, DefaultProfile(), ErrMissingDeadline},
		{"bad difficulty", []Subject{NewSubject("Bio", 2, Difficulty("Extreme"), deadlineIn(3))}, DefaultProfile(), ErrInvalidDifficulty},
		{"zero hours", []Subject{good}, Profile{DailyHours: 0, Pace: PaceFast, Stress: StressLow}, ErrInvalidDailyHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.subjects, tt.profile)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClampDailyHours(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-3, 1},
		{0, 1},
		{0.5, 1},
		{6, 6},
		{24, 24},
		{30, 24},
	}
	for _, tt := range tests {
		if got := ClampDailyHours(tt.in); got != tt.want {
			t.Errorf("ClampDailyHours(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLevels(t *testing.T) {
	if d, err := ParseDifficulty(" HIGH "); err != nil || d != DifficultyHigh {
		t.Errorf("ParseDifficulty(HIGH) = %q, %v", d, err)
	}
	if d, err := ParseDifficulty("medium"); err != nil || d != DifficultyModerate {
		t.Errorf("ParseDifficulty(medium) = %q, %v", d, err)
	}
	if _, err := ParsePace("warp"); err == nil {
		t.Error("expected error for unknown pace")
	}
	if s, err := ParseStress("low"); err != nil || s != StressLow {
		t.Errorf("ParseStress(low) = %q, %v", s, err)
	}
}

func TestStressValue(t *testing.T) {
	if StressLow.Value() != 1 || StressModerate.Value() != 2 || StressHigh.Value() != 3 {
		t.Errorf("unexpected stress values %d/%d/%d",
			StressLow.Value(), StressModerate.Value(), StressHigh.Value())
	}
}

func TestNewSubject_TruncatesDeadline(t *testing.T) {
	d := time.Date(2026, 11, 2, 17, 45, 0, 0, time.Local)
	s := NewSubject("Maths", 4, DifficultyModerate, &d)
	if s.ID == "" {
		t.Fatal("expected generated ID")
	}
	if s.Deadline.Hour() != 0 || s.Deadline.Minute() != 0 {
		t.Errorf("Deadline = %v, want midnight", s.Deadline)
	}
}

func TestClearDerived(t *testing.T) {
	s := NewSubject("Maths", 4, DifficultyModerate, deadlineIn(2))
	s.PressureScore = 12
	s.PriorityRank = 1
	s.AllocatedHours = 2.5

	c := s.ClearDerived()
	if c.PressureScore != 0 || c.PriorityRank != 0 || c.AllocatedHours != 0 {
		t.Errorf("derived fields not cleared: %+v", c)
	}
	if c.ID != s.ID || c.Name != s.Name {
		t.Errorf("identity changed: %+v", c)
	}
}
