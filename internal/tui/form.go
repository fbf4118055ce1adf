package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormField describes one input line.
type FormField struct {
	Label       string
	Placeholder string
	Value       string
	Secret      bool
	CharLimit   int
	Width       int
}

// Form is a stack of text inputs with tab focus cycling. It does not
// handle enter or esc; the owning view decides what those mean.
type Form struct {
	labels  []string
	inputs  []textinput.Model
	focused int
}

// NewForm creates a form focused on its first field.
func NewForm(fields []FormField) Form {
	f := Form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.Placeholder
		in.SetValue(fd.Value)
		in.Prompt = "│ "
		in.CharLimit = 200
		if fd.CharLimit > 0 {
			in.CharLimit = fd.CharLimit
		}
		in.Width = 42
		if fd.Width > 0 {
			in.Width = fd.Width
		}
		if fd.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels[i] = fd.Label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Focused returns the index of the focused field.
func (f Form) Focused() int { return f.focused }

// Len is the number of fields.
func (f Form) Len() int { return len(f.inputs) }

// Value returns the trimmed text of field i.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// Values returns every field's trimmed text.
func (f Form) Values() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = f.Value(i)
	}
	return out
}

// SetValue replaces the text of field i.
func (f *Form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(v)
	}
}

// SetLabel replaces the label of field i.
func (f *Form) SetLabel(i int, label string) {
	if i >= 0 && i < len(f.labels) {
		f.labels[i] = label
	}
}

// FocusField moves focus to field i.
func (f *Form) FocusField(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	n := len(f.inputs)
	f.focused = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// Update moves focus on tab/shift+tab/up/down and forwards everything else
// to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f, f.FocusField(f.focused + 1)
		case "shift+tab", "up":
			return f, f.FocusField(f.focused - 1)
		}
	}
	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

var (
	formLabel = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(12).
			Align(lipgloss.Right).
			PaddingRight(1)
	formLabelActive = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true).
			Width(12).
			Align(lipgloss.Right).
			PaddingRight(1)
)

// View renders label/input pairs, one per line.
func (f Form) View() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := formLabel
		if i == f.focused {
			label = formLabelActive
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.labels[i]), in.View()))
		if i < len(f.inputs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
