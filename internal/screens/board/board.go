// Package board is the weekly plan screen: seven days of tasks that can be
// toggled through their statuses and rebalanced.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/ui/components"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
	"github.com/abhisek/studyplan/internal/weekplan"
)

type actionMsg struct {
	status string
	err    error
}

// BoardScreen shows the current weekly plan.
type BoardScreen struct {
	ctx     context.Context
	svc     *planner.Service
	results *planner.Results
	day     int
	task    int
	status  string
	errMsg  string
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

// New creates a new BoardScreen.
func New(ctx context.Context, svc *planner.Service) *BoardScreen {
	b := &BoardScreen{ctx: ctx, svc: svc}
	b.reload()
	return b
}

func (b *BoardScreen) reload() {
	b.results = b.svc.Session().Results
	if b.results == nil {
		b.day, b.task = 0, 0
		return
	}
	days := b.results.Plan.Days
	b.day = min(b.day, max(0, len(days)-1))
	if len(days) > 0 {
		b.task = min(b.task, max(0, len(days[b.day].Tasks)-1))
	}
}

func (b *BoardScreen) Init() tea.Cmd {
	b.reload()
	return nil
}

func (b *BoardScreen) Title() string {
	return "Weekly Board"
}

func (b *BoardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Day"},
		{Key: "↑↓", Description: "Task"},
		{Key: "Space", Description: "Toggle"},
		{Key: "r", Description: "Rebalance"},
		{Key: "g", Description: "Regenerate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (b *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		if msg.err != nil {
			b.errMsg, b.status = describeErr(msg.err), ""
		} else {
			b.errMsg, b.status = "", msg.status
		}
		b.reload()
		return b, nil

	case tea.KeyMsg:
		if b.results == nil {
			if msg.String() == "g" {
				return b, b.generate()
			}
			return b, nil
		}
		days := b.results.Plan.Days
		switch msg.String() {
		case "left", "h":
			if b.day > 0 {
				b.day--
				b.task = 0
			}
		case "right", "l":
			if b.day < len(days)-1 {
				b.day++
				b.task = 0
			}
		case "up", "k":
			if b.task > 0 {
				b.task--
			}
		case "down", "j":
			if b.task < len(days[b.day].Tasks)-1 {
				b.task++
			}
		case "space", " ", "enter":
			return b, b.toggle()
		case "r":
			return b, b.rebalance()
		case "g":
			return b, b.generate()
		}
	}
	return b, nil
}

func (b *BoardScreen) selectedTask() (weekplan.Day, weekplan.Task, bool) {
	if b.results == nil || b.day >= len(b.results.Plan.Days) {
		return weekplan.Day{}, weekplan.Task{}, false
	}
	d := b.results.Plan.Days[b.day]
	if b.task >= len(d.Tasks) {
		return d, weekplan.Task{}, false
	}
	return d, d.Tasks[b.task], true
}

func (b *BoardScreen) toggle() tea.Cmd {
	d, t, ok := b.selectedTask()
	if !ok {
		return nil
	}
	if t.IsBuffer() {
		b.status, b.errMsg = "Buffer time is not tracked.", ""
		return nil
	}
	ctx, svc := b.ctx, b.svc
	return func() tea.Msg {
		task, m, err := svc.ToggleTask(ctx, d.ID, t.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("%s → %s · completion %.0f%%", task.Label, task.Status, m.CompletionRate)}
	}
}

func (b *BoardScreen) rebalance() tea.Cmd {
	ctx, svc := b.ctx, b.svc
	return func() tea.Msg {
		moved, _, err := svc.Rebalance(ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		if moved == 0 {
			return actionMsg{status: "Nothing to rebalance."}
		}
		return actionMsg{status: fmt.Sprintf("Moved %d missed task(s) into the coming days. Load reduced to %.0f%%.",
			moved, adaptive.RebalancePenaltyFactor*100)}
	}
}

func (b *BoardScreen) generate() tea.Cmd {
	ctx, svc := b.ctx, b.svc
	return func() tea.Msg {
		res, err := svc.Generate(ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("New plan generated: %d tasks, %.2fh/day usable.",
			len(res.Plan.Tasks()), res.Allocation.UsableHours)}
	}
}

func describeErr(err error) string {
	if errors.Is(err, planner.ErrStale) {
		return "Subjects or profile changed. Press g to regenerate the plan."
	}
	return strings.TrimPrefix(err.Error(), "planner: ")
}

func (b *BoardScreen) View(width, height int) string {
	if b.results == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No plan yet. Press g to generate one.")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(b.dayTabs(width))
	sb.WriteString("\n\n")
	sb.WriteString(b.dayView(width - 4))

	a := b.results.Adaptive
	sb.WriteString("\n\n")
	sb.WriteString(components.NewProgressBar("Week completion", a.CompletionRate, true, min(width-4, 70)).View())
	if a.RebalanceAvailable {
		sb.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).
			Render(fmt.Sprintf("%d missed task(s) can be rebalanced (r).", a.MissedTasks)))
	}
	if b.results.Stale {
		sb.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).
			Render("This plan is out of date. Press g to regenerate."))
	}
	if b.errMsg != "" {
		sb.WriteString("\n\n" + theme.ErrorText.Render(b.errMsg))
	} else if b.status != "" {
		sb.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Success).Render(b.status))
	}

	return lipgloss.NewStyle().Padding(0, 2).Width(width).MaxHeight(height).Render(sb.String())
}

func (b *BoardScreen) dayTabs(width int) string {
	days := b.results.Plan.Days
	tabs := make([]string, len(days))
	for i, d := range days {
		label := d.Date.Format("Mon 02")
		if layout.IsCompactWidth(width) {
			label = d.Date.Format("Mon")
		}
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.TextDim)
		if i == b.day {
			style = style.Foreground(theme.Text).Background(theme.Primary).Bold(true)
		}
		tabs[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (b *BoardScreen) dayView(width int) string {
	d := b.results.Plan.Days[b.day]
	var sb strings.Builder

	sb.WriteString(theme.Title.Render(d.Date.Format("Monday, Jan 2")))
	sb.WriteString(theme.Subtitle.Render(fmt.Sprintf("   %s intensity · %d/%d min planned · %d min buffer",
		d.Intensity, d.TotalMinutes, d.CapacityMinutes, d.BufferMinutes)))
	sb.WriteString("\n\n")

	if len(d.Tasks) == 0 {
		sb.WriteString(theme.Hint.Render("Nothing scheduled."))
		return sb.String()
	}

	labelWidth := max(20, width-32)
	for i, t := range d.Tasks {
		prefix := "  "
		labelStyle := theme.Unselected
		if i == b.task {
			prefix = "▸ "
			labelStyle = theme.Selected
		}
		if t.IsBuffer() {
			labelStyle = theme.Hint
		}

		status := ""
		if !t.IsBuffer() {
			status = t.Status.String()
			if t.Rescheduled {
				status = "Rescheduled ↷"
			}
		}
		line := labelStyle.Render(fmt.Sprintf("%s%-*s", prefix, labelWidth, layout.Truncate(t.Label, labelWidth))) +
			theme.Subtitle.Render(fmt.Sprintf(" %4d min  ", t.Minutes)) +
			lipgloss.NewStyle().Foreground(theme.StatusColor(status)).Render(status)
		sb.WriteString(line + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
