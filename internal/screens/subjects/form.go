package subjects

import (
	"errors"
	"strconv"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/ui/components"
)

const (
	fieldName = iota
	fieldChapters
	fieldDifficulty
	fieldDeadline
)

const (
	fieldDailyHours = iota
	fieldPace
	fieldStress
)

// subjectForm edits one subject. id is empty when adding.
type subjectForm struct {
	id   string
	form components.Form
}

func newSubjectForm(s *backlog.Subject) subjectForm {
	f := subjectForm{form: components.NewForm(
		components.NewTextInput("Name", "Physics", components.InputText, 60),
		components.NewTextInput("Backlog chapters", "10", components.InputInteger, 4),
		components.NewTextInput("Difficulty", "low / moderate / high", components.InputText, 10),
		components.NewTextInput("Deadline", backlog.DateLayout, components.InputDate, 10),
	)}
	if s != nil {
		f.id = s.ID
		f.form.Fields[fieldName].SetValue(s.Name)
		f.form.Fields[fieldChapters].SetValue(strconv.Itoa(s.BacklogChapters))
		f.form.Fields[fieldDifficulty].SetValue(string(s.Difficulty))
		if s.Deadline != nil {
			f.form.Fields[fieldDeadline].SetValue(s.Deadline.Format(backlog.DateLayout))
		}
	}
	return f
}

// subject parses the form. On failure it returns the offending field.
func (f subjectForm) subject() (backlog.Subject, int, error) {
	fields := f.form.Fields
	s := backlog.Subject{ID: f.id, Name: fields[fieldName].Value()}
	if s.Name == "" {
		return s, fieldName, backlog.ErrMissingName
	}

	n, err := fields[fieldChapters].IntValue()
	if err != nil || n < 1 {
		return s, fieldChapters, backlog.ErrInvalidBacklog
	}
	s.BacklogChapters = n

	s.Difficulty = backlog.DifficultyModerate
	if v := fields[fieldDifficulty].Value(); v != "" {
		d, err := backlog.ParseDifficulty(v)
		if err != nil {
			return s, fieldDifficulty, err
		}
		s.Difficulty = d
	}

	v := fields[fieldDeadline].Value()
	if v == "" {
		return s, fieldDeadline, backlog.ErrMissingDeadline
	}
	d, err := backlog.ParseDate(v)
	if err != nil {
		return s, fieldDeadline, errors.New("use YYYY-MM-DD")
	}
	s.Deadline = &d
	return s, 0, nil
}

func newProfileForm(p backlog.Profile) components.Form {
	f := components.NewForm(
		components.NewTextInput("Daily hours", "4", components.InputDecimal, 5),
		components.NewTextInput("Pace", "slow / moderate / fast", components.InputText, 10),
		components.NewTextInput("Stress", "low / moderate / high", components.InputText, 10),
	)
	f.Fields[fieldDailyHours].SetValue(strconv.FormatFloat(p.DailyHours, 'f', -1, 64))
	f.Fields[fieldPace].SetValue(string(p.Pace))
	f.Fields[fieldStress].SetValue(string(p.Stress))
	return f
}

// parseProfile reads the profile form, clamping daily hours.
func parseProfile(f components.Form) (backlog.Profile, int, error) {
	var p backlog.Profile
	h, err := f.Fields[fieldDailyHours].FloatValue()
	if err != nil || h <= 0 {
		return p, fieldDailyHours, backlog.ErrInvalidDailyHours
	}
	p.DailyHours = backlog.ClampDailyHours(h)

	if p.Pace, err = backlog.ParsePace(f.Fields[fieldPace].Value()); err != nil {
		return p, fieldPace, err
	}
	if p.Stress, err = backlog.ParseStress(f.Fields[fieldStress].Value()); err != nil {
		return p, fieldStress, err
	}
	return p, 0, nil
}
