package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/ui/theme"
)

// InputKind restricts which characters a TextInput accepts.
type InputKind int

const (
	InputText InputKind = iota
	InputInteger
	InputDecimal
	// InputDate accepts digits and dashes for YYYY-MM-DD.
	InputDate
)

// TextInput wraps bubbles/textinput with a label and error state.
type TextInput struct {
	Model textinput.Model
	Label string
	Kind  InputKind
	err   string
}

// NewTextInput creates a new styled, blurred text input.
func NewTextInput(label, placeholder string, kind InputKind, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label, Kind: kind}
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages, dropping characters the kind does not allow.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && !t.accepts(key[0]) {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	t.err = ""
	return t, cmd
}

func (t TextInput) accepts(c byte) bool {
	isDigit := c >= '0' && c <= '9'
	switch t.Kind {
	case InputInteger:
		return isDigit
	case InputDecimal:
		return isDigit || (c == '.' && !strings.Contains(t.Model.Value(), "."))
	case InputDate:
		return isDigit || c == '-'
	}
	return true
}

// View renders the label, the input and any error.
func (t TextInput) View() string {
	label := theme.Label
	if t.Focused() {
		label = label.Foreground(theme.Primary).Bold(true)
	}
	view := label.Render(t.Label) + t.Model.View()
	if t.err != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err)
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// IntValue parses the input as an integer.
func (t TextInput) IntValue() (int, error) {
	return strconv.Atoi(t.Value())
}

// FloatValue parses the input as a decimal number.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(t.Value(), 64)
}

// SetError shows msg next to the input until it is edited again.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}

// Err returns the error currently shown.
func (t TextInput) Err() string {
	return t.err
}
