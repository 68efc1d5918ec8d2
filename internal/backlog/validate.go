package backlog

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Use errors.Is to check the cause.
var (
	ErrNoSubjects        = errors.New("backlog: no subjects")
	ErrMissingName       = errors.New("backlog: subject name is required")
	ErrMissingDeadline   = errors.New("backlog: subject deadline is required")
	ErrInvalidBacklog    = errors.New("backlog: backlog chapters must be at least 1")
	ErrInvalidDifficulty = errors.New("backlog: unknown difficulty")
	ErrInvalidDailyHours = errors.New("backlog: daily hours must be positive")
	ErrInvalidPace       = errors.New("backlog: unknown pace")
	ErrInvalidStress     = errors.New("backlog: unknown stress level")
)

// ValidateSubject checks a single subject as entered by the student.
func ValidateSubject(s Subject) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	if s.BacklogChapters < 1 {
		return fmt.Errorf("%w: %q has %d", ErrInvalidBacklog, s.Name, s.BacklogChapters)
	}
	switch s.Difficulty {
	case DifficultyLow, DifficultyModerate, DifficultyHigh:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, s.Difficulty)
	}
	if s.Deadline == nil {
		return fmt.Errorf("%w: %q", ErrMissingDeadline, s.Name)
	}
	return nil
}

// Validate reports whether a plan can be generated from the given input.
func Validate(subjects []Subject, profile Profile) error {
	if len(subjects) == 0 {
		return ErrNoSubjects
	}
	for _, s := range subjects {
		if err := ValidateSubject(s); err != nil {
			return err
		}
	}
	if profile.DailyHours <= 0 {
		return ErrInvalidDailyHours
	}
	return nil
}
