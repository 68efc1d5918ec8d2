package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Form is a vertical stack of text inputs with one focused at a time.
type Form struct {
	Fields  []TextInput
	focused int
}

// NewForm focuses the first field.
func NewForm(fields ...TextInput) Form {
	f := Form{Fields: fields}
	if len(f.Fields) > 0 {
		f.Fields[0].Focus()
	}
	return f
}

// Focused returns the index of the focused field.
func (f Form) Focused() int {
	return f.focused
}

// FocusField moves focus to field i.
func (f *Form) FocusField(i int) tea.Cmd {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	f.Fields[f.focused].Blur()
	f.focused = i
	return f.Fields[i].Focus()
}

// OnLast reports whether the last field has focus.
func (f Form) OnLast() bool {
	return f.focused == len(f.Fields)-1
}

// Update moves focus on tab/shift+tab/up/down and forwards everything else
// to the focused field.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			cmd := f.FocusField((f.focused + 1) % len(f.Fields))
			return f, cmd
		case "shift+tab", "up":
			cmd := f.FocusField((f.focused - 1 + len(f.Fields)) % len(f.Fields))
			return f, cmd
		}
	}
	var cmd tea.Cmd
	f.Fields[f.focused], cmd = f.Fields[f.focused].Update(msg)
	return f, cmd
}

// SetError marks field i and focuses it.
func (f *Form) SetError(i int, msg string) tea.Cmd {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	f.Fields[i].SetError(msg)
	return f.FocusField(i)
}

// View renders one field per line.
func (f Form) View() string {
	lines := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		lines[i] = field.View()
	}
	return strings.Join(lines, "\n")
}
