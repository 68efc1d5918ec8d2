package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/coach"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/screens/board"
	"github.com/abhisek/studyplan/internal/screens/history"
	"github.com/abhisek/studyplan/internal/screens/insights"
	"github.com/abhisek/studyplan/internal/screens/subjects"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/ui/components"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

// Deps are the services reachable from the home menu.
type Deps struct {
	Service   *planner.Service
	Coach     *coach.Coach
	EventRepo store.EventRepo
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	ctx  context.Context
	deps Deps
	menu components.Menu
	sess planner.Session
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctx context.Context, deps Deps) *HomeScreen {
	h := &HomeScreen{ctx: ctx, deps: deps}
	h.refresh()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// refresh reloads the session and rebuilds the menu, keeping the cursor.
func (h *HomeScreen) refresh() {
	h.sess = h.deps.Service.Session()
	hasPlan := h.sess.Results != nil

	planDetail := ""
	if !hasPlan {
		planDetail = "generate a plan from the subjects screen"
	}
	historyDetail := ""
	if h.deps.EventRepo == nil {
		historyDetail = "no event log"
	}

	items := []components.MenuItem{
		{Label: "Weekly board", Detail: planDetail, Disabled: !hasPlan, Action: func() tea.Cmd {
			return push(board.New(h.ctx, h.deps.Service))
		}},
		{Label: "Subjects", Detail: fmt.Sprintf("%d in backlog", len(h.sess.Subjects)), Action: func() tea.Cmd {
			return push(subjects.New(h.ctx, h.deps.Service))
		}},
		{Label: "Insights", Detail: planDetail, Disabled: !hasPlan, Action: func() tea.Cmd {
			return push(insights.New(h.ctx, h.deps.Service, h.deps.Coach))
		}},
		{Label: "Activity", Detail: historyDetail, Disabled: h.deps.EventRepo == nil, Action: func() tea.Cmd {
			return push(history.New(h.ctx, h.deps.EventRepo, h.deps.Service.Key()))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	prev := h.menu.Selected
	h.menu = components.NewMenu(items)
	if prev > 0 && prev < len(items) && !items[prev].Disabled {
		h.menu.Selected = prev
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 72)

	var sections []string
	sections = append(sections, theme.Title.Render("Backlog Recovery Planner"))
	sections = append(sections, theme.Card.Width(cw).Render(h.summary()))
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) summary() string {
	p := h.sess.Profile
	lines := []string{
		theme.Label.Render("Profile") + theme.Body.Render(fmt.Sprintf("%.1fh/day · %s pace · %s stress", p.DailyHours, p.Pace, p.Stress)),
		theme.Label.Render("Subjects") + theme.Body.Render(fmt.Sprintf("%d", len(h.sess.Subjects))),
	}

	res := h.sess.Results
	if res == nil {
		lines = append(lines, theme.Hint.Render("No plan yet. Add subjects, then press g to generate one."))
		return strings.Join(lines, "\n")
	}

	r := res.Recovery
	lines = append(lines,
		theme.Label.Render("Difficulty")+lipgloss.NewStyle().Foreground(theme.LevelColor(string(r.Category))).
			Render(fmt.Sprintf("%d/100 %s", r.DifficultyScore, r.Category)),
		components.NewProgressBar("Completion", res.Adaptive.CompletionRate, true, 50).View(),
	)
	if !res.Adaptive.ProjectedRecoveryDate.IsZero() {
		lines = append(lines, theme.Label.Render("Projected recovery")+
			theme.Body.Render(res.Adaptive.ProjectedRecoveryDate.Format("Mon Jan 2")))
	}
	if res.Stale {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Warning).
			Render("Subjects or profile changed since this plan was generated."))
	}
	return strings.Join(lines, "\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
