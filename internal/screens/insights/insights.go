// Package insights shows the recovery analysis, adaptive metrics,
// allocation table and coach advice for the current plan.
package insights

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/coach"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/ui/components"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

type adviceMsg struct {
	advice coach.Advice
}

// InsightsScreen is a read-only dashboard over the current results.
type InsightsScreen struct {
	ctx     context.Context
	svc     *planner.Service
	coach   *coach.Coach
	results *planner.Results
	advice  *coach.Advice
	loading bool
	scroll  int
}

var _ screen.Screen = (*InsightsScreen)(nil)
var _ screen.KeyHintProvider = (*InsightsScreen)(nil)

// New creates a new InsightsScreen. c may be nil to hide advice.
func New(ctx context.Context, svc *planner.Service, c *coach.Coach) *InsightsScreen {
	return &InsightsScreen{ctx: ctx, svc: svc, coach: c}
}

func (s *InsightsScreen) Init() tea.Cmd {
	s.results = s.svc.Session().Results
	if s.advice == nil {
		return s.requestAdvice()
	}
	return nil
}

func (s *InsightsScreen) requestAdvice() tea.Cmd {
	if s.coach == nil || s.results == nil {
		return nil
	}
	s.loading = true
	ctx, c, res := s.ctx, s.coach, *s.results
	return func() tea.Msg {
		return adviceMsg{advice: c.Advise(ctx, res)}
	}
}

func (s *InsightsScreen) Title() string {
	return "Insights"
}

func (s *InsightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "c", Description: "Refresh advice"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *InsightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceMsg:
		s.advice = &msg.advice
		s.loading = false
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		case "c":
			if !s.loading {
				return s, s.requestAdvice()
			}
		}
	}
	return s, nil
}

func (s *InsightsScreen) View(width, height int) string {
	if s.results == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No plan yet. Generate one from the subjects screen.")
	}

	cw := min(width-4, 100)
	sections := []string{
		s.recoveryView(cw),
		s.adaptiveView(cw),
		s.allocationView(cw),
		s.adviceView(cw),
	}
	lines := strings.Split(strings.Join(sections, "\n\n"), "\n")

	maxScroll := max(0, len(lines)-height)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	lines = lines[s.scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func row(label, value string) string {
	return theme.Label.Render(label) + theme.Body.Render(value)
}

func (s *InsightsScreen) recoveryView(width int) string {
	r := s.results.Recovery
	a := s.results.Allocation
	lines := []string{
		theme.Title.Render("Recovery"),
		components.ProgressBar{
			Label:       "Difficulty",
			Percent:     float64(r.DifficultyScore),
			ShowPercent: true,
			Width:       min(width, 60),
			Fill:        theme.LevelColor(string(r.Category)),
		}.View(),
		row("Category", string(r.Category)),
		row("Load ratio", fmt.Sprintf("%.2f (pressure %.1f / capacity %.1fh)", r.LoadRatio, r.TotalPressure, r.WeeklyCapacity)),
		row("Daily capacity", fmt.Sprintf("%.2fh adjusted · %.2fh usable · %.2fh buffer", a.AdjustedCapacity, a.UsableHours, a.BufferHours)),
		theme.Hint.Width(width).Render(r.Message),
	}
	return strings.Join(lines, "\n")
}

func (s *InsightsScreen) adaptiveView(width int) string {
	a := s.results.Adaptive
	lines := []string{
		theme.Title.Render("This week"),
		components.NewProgressBar("Completion", a.CompletionRate, true, min(width, 60)).View(),
		row("Tasks", fmt.Sprintf("%d done · %d partial · %d missed · %d total", a.CompletedTasks, a.PartialTasks, a.MissedTasks, a.TotalTasks)),
		row("Stress trend", string(a.StressTrend)),
		row("Load adjustment", fmt.Sprintf("×%.2f", a.LoadAdjustmentFactor)),
	}
	if !a.ProjectedRecoveryDate.IsZero() {
		lines = append(lines, row("Projected recovery", a.ProjectedRecoveryDate.Format(backlog.DateLayout)))
	}
	if a.MostChallengingSubject != "" {
		lines = append(lines, row("Most challenging", a.MostChallengingSubject))
	}
	if a.BurnoutRisk {
		lines = append(lines, theme.ErrorText.Render("Burnout risk: next plan runs at reduced load."))
	}
	return strings.Join(lines, "\n")
}

func (s *InsightsScreen) allocationView(width int) string {
	nameWidth := max(10, min(24, width-60))
	lines := []string{
		theme.Title.Render("Allocation"),
		theme.Subtitle.Render(fmt.Sprintf("%-4s %-*s %-18s %7s %5s %6s", "#", nameWidth, "Subject", "Tier", "h/day", "%", "Days")),
	}
	// Subjects are stored in rank order.
	for _, sub := range s.results.Subjects {
		tier := lipgloss.NewStyle().Foreground(theme.LevelColor(string(sub.PriorityTier))).
			Render(fmt.Sprintf("%-18s", sub.PriorityTier))
		lines = append(lines, fmt.Sprintf("%-4d %-*s %s %7.2f %4d%% %6d",
			sub.PriorityRank, nameWidth, layout.Truncate(sub.Name, nameWidth), tier,
			sub.AllocatedHours, sub.AllocationPercent, sub.DaysRemaining))
		if sub.PriorityReason != "" {
			lines = append(lines, theme.Hint.Render("     "+layout.Truncate(sub.PriorityReason, width-5)))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *InsightsScreen) adviceView(width int) string {
	if s.coach == nil {
		return ""
	}
	lines := []string{theme.Title.Render("Coach")}
	switch {
	case s.loading:
		lines = append(lines, theme.Hint.Render("Thinking..."))
	case s.advice != nil:
		lines = append(lines, theme.Body.Width(width).Render(s.advice.Summary))
		for _, tip := range s.advice.FocusTips {
			lines = append(lines, theme.Body.Width(width).Render("• "+tip))
		}
		if s.advice.Warning != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Warning).Width(width).Render(s.advice.Warning))
		}
		if s.advice.Source == coach.SourceFallback {
			lines = append(lines, theme.Hint.Render("(rule-based advice)"))
		}
	}
	return strings.Join(lines, "\n")
}
