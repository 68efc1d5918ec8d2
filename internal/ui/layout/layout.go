package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Below this width day tabs and footer hints shorten.
	CompactWidthThreshold = 100
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is the plan summary shown on the right of the header.
// A nil value hides it.
type HeaderStats struct {
	CompletionRate  float64
	DifficultyScore int
	// Category is the recovery difficulty bucket, used for color.
	Category string
	Stale    bool
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	msg := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
	return msg
}

// RenderHeader renders the brand, the screen title and, when a plan
// exists, its completion and difficulty.
func RenderHeader(title string, stats *HeaderStats, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  studyplan")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := renderStats(stats)

	inner := max(0, width-4)
	// Center the title in the bar, not in the space left of the stats.
	leftGap := max(1, (inner-lipgloss.Width(center))/2-lipgloss.Width(brand))
	rightGap := max(1, inner-lipgloss.Width(brand)-leftGap-lipgloss.Width(center)-lipgloss.Width(right))

	return bar(width).Render(brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

func renderStats(stats *HeaderStats) string {
	if stats == nil {
		return ""
	}
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %.0f%%", stats.CompletionRate)),
		lipgloss.NewStyle().Foreground(theme.LevelColor(stats.Category)).
			Render(fmt.Sprintf("▲ %d/100", stats.DifficultyScore)),
	}
	if stats.Stale {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Warning).Render("stale"))
	}
	return strings.Join(parts, "   ")
}

// RenderFooter renders the key hints. Compact widths show keys only.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := keyStyle.Render(h.Key)
		if !IsCompactWidth(width) {
			part += " " + descStyle.Render(h.Description)
		}
		parts = append(parts, part)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// Truncate shortens s to at most n cells, marking the cut with "…".
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
