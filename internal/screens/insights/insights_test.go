package insights

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/coach"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/store"
)

func newTestService(t *testing.T, generate bool) *planner.Service {
	t.Helper()
	ctx := context.Background()
	today := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	svc, err := planner.New(ctx, store.NewMemorySessionRepo(), "tui",
		planner.WithClock(func() time.Time { return today }))
	if err != nil {
		t.Fatal(err)
	}
	deadline := today.AddDate(0, 0, 10)
	if _, err := svc.AddSubject(ctx, backlog.Subject{Name: "Chemistry", BacklogChapters: 5, Difficulty: backlog.DifficultyModerate, Deadline: &deadline}); err != nil {
		t.Fatal(err)
	}
	if generate {
		if _, err := svc.Generate(ctx); err != nil {
			t.Fatal(err)
		}
	}
	return svc
}

func TestInsights_NoPlan(t *testing.T) {
	s := New(context.Background(), newTestService(t, false), coach.New(nil, coach.DefaultConfig(), logger.Nop()))
	if cmd := s.Init(); cmd != nil {
		t.Error("no advice should be requested without a plan")
	}
	if !strings.Contains(s.View(100, 30), "No plan yet") {
		t.Error("expected empty state")
	}
}

func TestInsights_FallbackAdvice(t *testing.T) {
	s := New(context.Background(), newTestService(t, true), coach.New(nil, coach.DefaultConfig(), logger.Nop()))
	cmd := s.Init()
	if cmd == nil || !s.loading {
		t.Fatal("expected an advice request")
	}
	s.Update(cmd())
	if s.loading || s.advice == nil {
		t.Fatal("advice not stored")
	}
	if s.advice.Source != coach.SourceFallback {
		t.Errorf("Source = %q, want fallback", s.advice.Source)
	}

	view := s.View(120, 200)
	if !strings.Contains(view, "Chemistry") {
		t.Error("allocation table should list Chemistry")
	}

	// Refreshing while idle issues a new request; scrolling never goes negative.
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"}); cmd == nil {
		t.Error("c should request fresh advice")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.scroll != 0 {
		t.Errorf("scroll = %d, want 0", s.scroll)
	}
}

func TestInsights_NilCoach(t *testing.T) {
	s := New(context.Background(), newTestService(t, true), nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("nil coach should not request advice")
	}
}
