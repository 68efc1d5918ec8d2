package backlog

import (
	"fmt"
	"strings"
)

// Difficulty is the self-reported difficulty of a subject's remaining material.
type Difficulty string

const (
	DifficultyLow      Difficulty = "Low"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHigh     Difficulty = "High"
)

// Pace is the student's learning pace.
type Pace string

const (
	PaceSlow     Pace = "Slow"
	PaceModerate Pace = "Moderate"
	PaceFast     Pace = "Fast"
)

// StressLevel is the student's self-reported stress.
type StressLevel string

const (
	StressLow      StressLevel = "Low"
	StressModerate StressLevel = "Moderate"
	StressHigh     StressLevel = "High"
)

// Value maps the stress level onto the 1..3 scale used for trend tracking.
func (s StressLevel) Value() int {
	switch s {
	case StressLow:
		return 1
	case StressHigh:
		return 3
	default:
		return 2
	}
}

// ParseDifficulty accepts any casing of Low, Moderate or High.
// "medium" is accepted as an alias for Moderate.
func ParseDifficulty(s string) (Difficulty, error) {
	switch normalizeLevel(s) {
	case "low":
		return DifficultyLow, nil
	case "moderate", "medium":
		return DifficultyModerate, nil
	case "high":
		return DifficultyHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// ParsePace accepts any casing of Slow, Moderate or Fast.
func ParsePace(s string) (Pace, error) {
	switch normalizeLevel(s) {
	case "slow":
		return PaceSlow, nil
	case "moderate", "medium":
		return PaceModerate, nil
	case "fast":
		return PaceFast, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPace, s)
}

// ParseStress accepts any casing of Low, Moderate or High.
func ParseStress(s string) (StressLevel, error) {
	switch normalizeLevel(s) {
	case "low":
		return StressLow, nil
	case "moderate", "medium":
		return StressModerate, nil
	case "high":
		return StressHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStress, s)
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
