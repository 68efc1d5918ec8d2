package subjects

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestScreen(t *testing.T) (*SubjectsScreen, *planner.Service) {
	t.Helper()
	svc, err := planner.New(context.Background(), store.NewMemorySessionRepo(), "tui",
		planner.WithClock(func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }))
	if err != nil {
		t.Fatal(err)
	}
	s := New(context.Background(), svc)
	s.Init()
	return s, svc
}

func typeText(scr screen.Screen, text string) screen.Screen {
	for _, r := range text {
		scr, _ = scr.Update(keyPress(r))
	}
	return scr
}

// run executes cmd and feeds its message back into the screen.
func run(t *testing.T, scr screen.Screen, cmd tea.Cmd) screen.Screen {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	scr, _ = scr.Update(cmd())
	return scr
}

func TestAddSubjectForm(t *testing.T) {
	s, svc := newTestScreen(t)
	var scr screen.Screen = s

	scr, _ = scr.Update(keyPress('a'))
	if s.mode != modeSubjectForm || !s.CapturesEscape() {
		t.Fatal("expected add form to open and capture Esc")
	}

	scr = typeText(scr, "Physics")
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr = typeText(scr, "10")
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr = typeText(scr, "high")
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr = typeText(scr, "2026-11-02")
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))
	run(t, scr, cmd)

	if s.mode != modeList {
		t.Errorf("mode = %v, want list after save", s.mode)
	}
	subs := svc.Session().Subjects
	if len(subs) != 1 {
		t.Fatalf("subjects = %d, want 1", len(subs))
	}
	if subs[0].Name != "Physics" || subs[0].BacklogChapters != 10 || subs[0].Difficulty != backlog.DifficultyHigh {
		t.Errorf("subject = %+v", subs[0])
	}
	if s.status != "Added Physics." {
		t.Errorf("status = %q", s.status)
	}
}

func TestAddSubjectForm_Validation(t *testing.T) {
	s, svc := newTestScreen(t)
	var scr screen.Screen = s

	scr, _ = scr.Update(keyPress('a'))
	scr = typeText(scr, "Chemistry")
	for i := 0; i < 3; i++ {
		scr, _ = scr.Update(specialKey(tea.KeyTab))
	}
	scr = typeText(scr, "2026-11-02")
	scr.Update(specialKey(tea.KeyEnter))

	if got := s.subject.form.Fields[fieldChapters].Err(); got == "" {
		t.Error("expected an error on the chapters field")
	}
	if s.subject.form.Focused() != fieldChapters {
		t.Errorf("focused = %d, want chapters field", s.subject.form.Focused())
	}
	if len(svc.Session().Subjects) != 0 {
		t.Error("invalid subject was saved")
	}

	scr.Update(specialKey(tea.KeyEscape))
	if s.mode != modeList {
		t.Error("Esc should close the form")
	}
}

func TestDeleteAndGenerate(t *testing.T) {
	s, svc := newTestScreen(t)
	ctx := context.Background()
	deadline := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"Physics", "History"} {
		if _, err := svc.AddSubject(ctx, backlog.Subject{Name: name, BacklogChapters: 4, Difficulty: backlog.DifficultyLow, Deadline: &deadline}); err != nil {
			t.Fatal(err)
		}
	}
	var scr screen.Screen = s
	s.Init()

	scr, cmd := scr.Update(keyPress('g'))
	scr = run(t, scr, cmd)
	if svc.Session().Results == nil {
		t.Fatal("g did not generate a plan")
	}
	if s.errMsg != "" {
		t.Errorf("errMsg = %q", s.errMsg)
	}

	scr, _ = scr.Update(keyPress('j'))
	scr, _ = scr.Update(keyPress('d'))
	if s.mode != modeConfirmDelete {
		t.Fatal("expected delete confirmation")
	}
	scr, cmd = scr.Update(keyPress('y'))
	run(t, scr, cmd)

	subs := svc.Session().Subjects
	if len(subs) != 1 || subs[0].Name != "Physics" {
		t.Errorf("subjects = %+v, want only Physics", subs)
	}
	if !svc.Session().Results.Stale {
		t.Error("deleting a subject should mark the plan stale")
	}
}

func TestProfileForm_Clamps(t *testing.T) {
	s, svc := newTestScreen(t)
	var scr screen.Screen = s

	scr, _ = scr.Update(keyPress('p'))
	for range 5 {
		scr, _ = scr.Update(specialKey(tea.KeyBackspace))
	}
	scr = typeText(scr, "30")
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	scr, cmd := scr.Update(specialKey(tea.KeyEnter))
	run(t, scr, cmd)

	if got := svc.Session().Profile.DailyHours; got != backlog.MaxDailyHours {
		t.Errorf("DailyHours = %v, want %v", got, backlog.MaxDailyHours)
	}
}
