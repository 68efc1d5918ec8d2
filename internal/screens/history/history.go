package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

const historyLimit = 100

type historyLoadedMsg struct {
	Events []store.PlanEvent
	Err    error
}

// HistoryScreen lists recent planner actions for the session.
type HistoryScreen struct {
	ctx        context.Context
	eventRepo  store.EventRepo
	sessionKey string
	events     []store.PlanEvent
	selected   int
	expanded   map[int]bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctx context.Context, eventRepo store.EventRepo, sessionKey string) *HistoryScreen {
	return &HistoryScreen{
		ctx:        ctx,
		eventRepo:  eventRepo,
		sessionKey: sessionKey,
		expanded:   make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, repo, key := s.ctx, s.eventRepo, s.sessionKey
	return func() tea.Msg {
		events, err := repo.QueryPlanEvents(ctx, store.QueryOpts{Limit: historyLimit, SessionKey: key})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Activity"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading activity...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No activity yet. Generate a plan to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selected row on screen.
	rows := max(1, height-2)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	for i := start; i < len(s.events) && i < start+rows; i++ {
		e := s.events[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-10s %5.0f%% done  load ×%.2f",
			prefix, e.Timestamp.Local().Format("Jan 02 15:04"), e.Action, e.CompletionRate, e.LoadFactor)

		style := lipgloss.NewStyle().Foreground(actionColor(e.Action))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] && e.Detail != "" {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render("    "+layout.Truncate(e.Detail, width-8))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func actionColor(action string) color.Color {
	switch action {
	case store.ActionGenerate:
		return theme.Primary
	case store.ActionToggle:
		return theme.Text
	case store.ActionRebalance:
		return theme.Accent
	case store.ActionReset:
		return theme.Error
	case store.ActionImport:
		return theme.Secondary
	default:
		return theme.Text
	}
}
