package backlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Import is a backlog declared in a YAML document.
type Import struct {
	Subjects []Subject
	// Profile is nil when the document does not declare one.
	Profile *Profile
}

type yamlDocument struct {
	Profile  *yamlProfile  `yaml:"profile"`
	Subjects []yamlSubject `yaml:"subjects"`
}

type yamlProfile struct {
	DailyHours float64 `yaml:"daily_hours"`
	Pace       string  `yaml:"pace"`
	Stress     string  `yaml:"stress"`
}

type yamlSubject struct {
	Name       string `yaml:"name"`
	Chapters   int    `yaml:"chapters"`
	Difficulty string `yaml:"difficulty"`
	Deadline   string `yaml:"deadline"`
}

// LoadFile reads a backlog document from path.
func LoadFile(path string) (*Import, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backlog file: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

// Parse decodes a backlog document. Every subject is validated and daily
// hours are clamped to the supported range.
//
//	profile:
//	  daily_hours: 4
//	  pace: fast
//	  stress: high
//	subjects:
//	  - name: Physics
//	    chapters: 10
//	    difficulty: high
//	    deadline: "2026-11-02"
func Parse(r io.Reader) (*Import, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSubjects
		}
		return nil, fmt.Errorf("decode backlog yaml: %w", err)
	}

	out := &Import{}
	if doc.Profile != nil {
		p, err := doc.Profile.toProfile()
		if err != nil {
			return nil, err
		}
		out.Profile = &p
	}

	for i, ys := range doc.Subjects {
		s, err := ys.toSubject()
		if err != nil {
			return nil, fmt.Errorf("subject %d: %w", i+1, err)
		}
		out.Subjects = append(out.Subjects, s)
	}
	if len(out.Subjects) == 0 {
		return nil, ErrNoSubjects
	}
	return out, nil
}

func (y yamlProfile) toProfile() (Profile, error) {
	p := DefaultProfile()
	if y.DailyHours != 0 {
		p.DailyHours = ClampDailyHours(y.DailyHours)
	}
	if y.Pace != "" {
		pace, err := ParsePace(y.Pace)
		if err != nil {
			return Profile{}, err
		}
		p.Pace = pace
	}
	if y.Stress != "" {
		stress, err := ParseStress(y.Stress)
		if err != nil {
			return Profile{}, err
		}
		p.Stress = stress
	}
	return p, nil
}

func (y yamlSubject) toSubject() (Subject, error) {
	difficulty := DifficultyModerate
	if y.Difficulty != "" {
		d, err := ParseDifficulty(y.Difficulty)
		if err != nil {
			return Subject{}, err
		}
		difficulty = d
	}

	var deadline *time.Time
	if y.Deadline != "" {
		d, err := ParseDate(y.Deadline)
		if err != nil {
			return Subject{}, fmt.Errorf("parse deadline %q: %w", y.Deadline, err)
		}
		deadline = &d
	}

	s := NewSubject(y.Name, y.Chapters, difficulty, deadline)
	if err := ValidateSubject(s); err != nil {
		return Subject{}, err
	}
	return s, nil
}
