package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldSpec struct {
	name        string
	label       string
	placeholder string
	limit       int
	secret      bool
}

type field struct {
	name  string
	label string
	input textinput.Model
}

// form is a column of labelled text inputs. Keys reach the inputs only while
// the form is active.
type form struct {
	fields []field
	focus  int
	active bool
}

func newForm(specs ...fieldSpec) *form {
	f := &form{}
	for _, s := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = s.placeholder
		ti.Width = 32
		ti.Cursor.SetMode(cursor.CursorStatic)
		if s.limit > 0 {
			ti.CharLimit = s.limit
		}
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, field{name: s.name, label: s.label, input: ti})
	}
	return f
}

// Focus activates the form on its current field.
func (f *form) Focus() tea.Cmd {
	f.active = true
	return f.fields[f.focus].input.Focus()
}

// FocusField activates the form on the named field.
func (f *form) FocusField(name string) tea.Cmd {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[f.focus].input.Blur()
			f.focus = i
			break
		}
	}
	return f.Focus()
}

// Blur deactivates the form.
func (f *form) Blur() {
	f.active = false
	f.fields[f.focus].input.Blur()
}

func (f *form) Active() bool { return f.active }

// Value returns the text of a field; it satisfies dcf.Getter.
func (f *form) Value(name string) string {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) Set(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

// Reset clears every field and moves focus back to the first one.
func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].input.Reset()
		f.fields[i].input.Blur()
	}
	f.focus = 0
	if f.active {
		f.fields[0].input.Focus()
	}
}

// Focused returns the name of the focused field.
func (f *form) Focused() string {
	return f.fields[f.focus].name
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

// HandleKey moves between fields or types into the focused one. It reports
// whether the form was submitted.
func (f *form) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return true, nil
	case key.Matches(msg, keys.Back):
		f.Blur()
		return false, nil
	case key.Matches(msg, keys.Next):
		return false, f.move(1)
	case key.Matches(msg, keys.Prev):
		return false, f.move(-1)
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

// View renders the fields with their validation messages.
func (f *form) View(t Theme, errs map[string]string) string {
	labelWidth := 0
	for _, fl := range f.fields {
		if w := lipgloss.Width(fl.label); w > labelWidth {
			labelWidth = w
		}
	}

	label := t.muted().Width(labelWidth + 2)
	focused := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(labelWidth + 2)
	box := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(t.Border)

	lines := make([]string, 0, len(f.fields))
	for i, fl := range f.fields {
		l := label
		if f.active && i == f.focus {
			l = focused
		}
		row := lipgloss.JoinHorizontal(lipgloss.Bottom, l.Render(fl.label), box.Render(fl.input.View()))
		if msg, ok := errs[fl.name]; ok {
			row += "  " + t.errorStyle().Render(msg)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
