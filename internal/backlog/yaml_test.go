package backlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBacklog = `
profile:
  daily_hours: 30
  pace: fast
  stress: high
subjects:
  - name: Physics
    chapters: 10
    difficulty: high
    deadline: "2026-11-02"
  - name: History
    chapters: 3
    deadline: "2026-12-01"
`

func TestParse(t *testing.T) {
	imp, err := Parse(strings.NewReader(sampleBacklog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if imp.Profile == nil {
		t.Fatal("expected profile")
	}
	if imp.Profile.DailyHours != MaxDailyHours {
		t.Errorf("DailyHours = %v, want clamped %v", imp.Profile.DailyHours, MaxDailyHours)
	}
	if imp.Profile.Pace != PaceFast || imp.Profile.Stress != StressHigh {
		t.Errorf("profile = %+v", *imp.Profile)
	}

	if len(imp.Subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(imp.Subjects))
	}
	if imp.Subjects[1].Difficulty != DifficultyModerate {
		t.Errorf("default difficulty = %q, want Moderate", imp.Subjects[1].Difficulty)
	}
	if got := imp.Subjects[0].Deadline.Format(DateLayout); got != "2026-11-02" {
		t.Errorf("deadline = %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", ErrNoSubjects},
		{"no subjects", "profile:\n  daily_hours: 3\n", ErrNoSubjects},
		{"missing deadline", "subjects:\n  - name: Bio\n    chapters: 2\n", ErrMissingDeadline},
		{"zero chapters", "subjects:\n  - name: Bio\n    chapters: 0\n    deadline: \"2026-11-02\"\n", ErrInvalidBacklog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("subjects:\n  - name: Bio\n    colour: red\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlog.yaml")
	if err := os.WriteFile(path, []byte(sampleBacklog), 0o644); err != nil {
		t.Fatal(err)
	}
	imp, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(imp.Subjects) != 2 {
		t.Errorf("subjects = %d, want 2", len(imp.Subjects))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
