// Package subjects is the TUI screen for managing the backlog and profile.
package subjects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/ui/components"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

type mode int

const (
	modeList mode = iota
	modeSubjectForm
	modeProfileForm
	modeConfirmDelete
)

// savedMsg reports the outcome of a service call made from this screen.
type savedMsg struct {
	status string
	err    error
	// field is the form field to blame for err, or -1.
	field int
}

// SubjectsScreen lists subjects and hosts the add/edit and profile forms.
type SubjectsScreen struct {
	ctx      context.Context
	svc      *planner.Service
	sess     planner.Session
	selected int
	mode     mode
	subject  subjectForm
	profile  components.Form
	status   string
	errMsg   string
}

var _ screen.Screen = (*SubjectsScreen)(nil)
var _ screen.KeyHintProvider = (*SubjectsScreen)(nil)
var _ screen.EscapeHandler = (*SubjectsScreen)(nil)

// New creates a new SubjectsScreen.
func New(ctx context.Context, svc *planner.Service) *SubjectsScreen {
	s := &SubjectsScreen{ctx: ctx, svc: svc}
	s.reload()
	return s
}

func (s *SubjectsScreen) reload() {
	s.sess = s.svc.Session()
	if s.selected >= len(s.sess.Subjects) {
		s.selected = max(0, len(s.sess.Subjects)-1)
	}
}

func (s *SubjectsScreen) Init() tea.Cmd {
	s.reload()
	return nil
}

func (s *SubjectsScreen) Title() string {
	return "Subjects"
}

func (s *SubjectsScreen) CapturesEscape() bool {
	return s.mode != modeList
}

func (s *SubjectsScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeSubjectForm, modeProfileForm:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "a", Description: "Add"},
		{Key: "e", Description: "Edit"},
		{Key: "d", Description: "Delete"},
		{Key: "p", Description: "Profile"},
		{Key: "g", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SubjectsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(savedMsg); ok {
		return s, s.handleSaved(msg)
	}
	kmsg, ok := msg.(tea.KeyMsg)
	switch s.mode {
	case modeSubjectForm:
		return s, s.updateSubjectForm(msg, kmsg, ok)
	case modeProfileForm:
		return s, s.updateProfileForm(msg, kmsg, ok)
	case modeConfirmDelete:
		if ok {
			return s, s.updateConfirm(kmsg)
		}
		return s, nil
	}
	if !ok {
		return s, nil
	}

	s.status, s.errMsg = "", ""
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.sess.Subjects)-1 {
			s.selected++
		}
	case "a":
		s.subject = newSubjectForm(nil)
		s.mode = modeSubjectForm
	case "e", "enter":
		if sub, ok := s.current(); ok {
			s.subject = newSubjectForm(&sub)
			s.mode = modeSubjectForm
		}
	case "d", "x":
		if _, ok := s.current(); ok {
			s.mode = modeConfirmDelete
		}
	case "p":
		s.profile = newProfileForm(s.sess.Profile)
		s.mode = modeProfileForm
	case "g":
		return s, s.generate()
	}
	return s, nil
}

func (s *SubjectsScreen) current() (backlog.Subject, bool) {
	if s.selected < 0 || s.selected >= len(s.sess.Subjects) {
		return backlog.Subject{}, false
	}
	return s.sess.Subjects[s.selected], true
}

func (s *SubjectsScreen) updateSubjectForm(msg tea.Msg, kmsg tea.KeyMsg, isKey bool) tea.Cmd {
	if isKey {
		switch kmsg.String() {
		case "esc":
			s.mode = modeList
			return nil
		case "enter":
			if !s.subject.form.OnLast() {
				return s.subject.form.FocusField(s.subject.form.Focused() + 1)
			}
			return s.saveSubject()
		}
	}
	var cmd tea.Cmd
	s.subject.form, cmd = s.subject.form.Update(msg)
	return cmd
}

func (s *SubjectsScreen) saveSubject() tea.Cmd {
	sub, field, err := s.subject.subject()
	if err != nil {
		return s.subject.form.SetError(field, displayErr(err))
	}
	ctx, svc := s.ctx, s.svc
	return func() tea.Msg {
		if sub.ID == "" {
			added, err := svc.AddSubject(ctx, sub)
			return savedMsg{status: fmt.Sprintf("Added %s.", added.Name), err: err, field: fieldFor(err)}
		}
		updated, err := svc.UpdateSubject(ctx, sub)
		return savedMsg{status: fmt.Sprintf("Updated %s.", updated.Name), err: err, field: fieldFor(err)}
	}
}

// fieldFor picks the subject form field a validation error belongs to.
func fieldFor(err error) int {
	switch {
	case errors.Is(err, backlog.ErrMissingName):
		return fieldName
	case errors.Is(err, backlog.ErrInvalidBacklog):
		return fieldChapters
	case errors.Is(err, backlog.ErrInvalidDifficulty):
		return fieldDifficulty
	case errors.Is(err, backlog.ErrMissingDeadline):
		return fieldDeadline
	}
	return -1
}

func (s *SubjectsScreen) updateProfileForm(msg tea.Msg, kmsg tea.KeyMsg, isKey bool) tea.Cmd {
	if isKey {
		switch kmsg.String() {
		case "esc":
			s.mode = modeList
			return nil
		case "enter":
			if !s.profile.OnLast() {
				return s.profile.FocusField(s.profile.Focused() + 1)
			}
			p, field, err := parseProfile(s.profile)
			if err != nil {
				return s.profile.SetError(field, displayErr(err))
			}
			ctx, svc := s.ctx, s.svc
			return func() tea.Msg {
				p, err := svc.SetProfile(ctx, p)
				return savedMsg{status: fmt.Sprintf("Profile saved: %.1fh/day.", p.DailyHours), err: err, field: -1}
			}
		}
	}
	var cmd tea.Cmd
	s.profile, cmd = s.profile.Update(msg)
	return cmd
}

func (s *SubjectsScreen) updateConfirm(kmsg tea.KeyMsg) tea.Cmd {
	switch kmsg.String() {
	case "y", "enter":
		sub, ok := s.current()
		s.mode = modeList
		if !ok {
			return nil
		}
		ctx, svc := s.ctx, s.svc
		return func() tea.Msg {
			err := svc.RemoveSubject(ctx, sub.ID)
			return savedMsg{status: fmt.Sprintf("Removed %s.", sub.Name), err: err, field: -1}
		}
	case "n", "esc":
		s.mode = modeList
	}
	return nil
}

func (s *SubjectsScreen) generate() tea.Cmd {
	ctx, svc := s.ctx, s.svc
	return func() tea.Msg {
		res, err := svc.Generate(ctx)
		if err != nil {
			return savedMsg{err: err, field: -1}
		}
		return savedMsg{
			status: fmt.Sprintf("Plan generated: difficulty %d/100, %d tasks this week.",
				res.Recovery.DifficultyScore, len(res.Plan.Tasks())),
			field: -1,
		}
	}
}

func (s *SubjectsScreen) handleSaved(msg savedMsg) tea.Cmd {
	if msg.err != nil {
		if s.mode == modeSubjectForm && msg.field >= 0 {
			return s.subject.form.SetError(msg.field, displayErr(msg.err))
		}
		s.errMsg = displayErr(msg.err)
		return nil
	}
	s.mode = modeList
	s.status, s.errMsg = msg.status, ""
	s.reload()
	return nil
}

func displayErr(err error) string {
	return strings.TrimPrefix(strings.TrimPrefix(err.Error(), "planner: "), "backlog: ")
}

func (s *SubjectsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch s.mode {
	case modeSubjectForm:
		title := "Add subject"
		if s.subject.id != "" {
			title = "Edit subject"
		}
		b.WriteString(theme.Title.Render(title) + "\n\n")
		b.WriteString(s.subject.form.View())
	case modeProfileForm:
		b.WriteString(theme.Title.Render("Study profile") + "\n\n")
		b.WriteString(s.profile.View())
		b.WriteString("\n\n" + theme.Hint.Render(fmt.Sprintf("Daily hours are clamped to %.0f-%.0f.", backlog.MinDailyHours, backlog.MaxDailyHours)))
	default:
		b.WriteString(s.listView(width))
	}

	if s.mode == modeConfirmDelete {
		if sub, ok := s.current(); ok {
			b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).
				Render(fmt.Sprintf("Delete %s? (y/n)", sub.Name)))
		}
	}
	if s.errMsg != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(s.errMsg))
	} else if s.status != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Success).Render(s.status))
	}

	return lipgloss.NewStyle().Padding(0, 2).Width(width).MaxHeight(height).Render(b.String())
}

func (s *SubjectsScreen) listView(width int) string {
	p := s.sess.Profile
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Profile: %.1fh/day · %s pace · %s stress", p.DailyHours, p.Pace, p.Stress)))
	b.WriteString("\n\n")

	if len(s.sess.Subjects) == 0 {
		b.WriteString(theme.Hint.Render("No subjects yet. Press a to add your first backlog subject."))
		return b.String()
	}

	nameWidth := max(12, min(30, width-50))
	header := fmt.Sprintf("  %-*s %8s  %-10s %-10s", nameWidth, "Subject", "Chapters", "Difficulty", "Deadline")
	b.WriteString(theme.Subtitle.Render(header) + "\n")

	for i, sub := range s.sess.Subjects {
		deadline := "-"
		if sub.Deadline != nil {
			deadline = sub.Deadline.Format(backlog.DateLayout)
		}
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%-*s %8d  %-10s %-10s", prefix, nameWidth,
			layout.Truncate(sub.Name, nameWidth), sub.BacklogChapters, sub.Difficulty, deadline)
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
