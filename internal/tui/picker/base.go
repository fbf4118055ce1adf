// Package picker runs a single-choice list as its own bubbletea program.
package picker

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user leaves without choosing.
var ErrCanceled = errors.New("canceled by user")

// Config configures a picker.
type Config struct {
	List       list.Model
	QuitKeys   key.Binding
	SelectKeys key.Binding

	BorderStyle lipgloss.Style
	ShowBorder  bool
}

// Model is a tea.Model that quits once an item is chosen or the user
// cancels.
type Model struct {
	config   Config
	list     list.Model
	chosen   list.Item
	quitting bool
	err      error
}

// New creates a picker model.
func New(cfg Config) Model {
	return Model{config: cfg, list: cfg.List}
}

// Chosen returns the selected item, or ErrCanceled.
func (m Model) Chosen() (list.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chosen == nil {
		return nil, ErrCanceled
	}
	return m.chosen, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.config.QuitKeys):
			m.err = ErrCanceled
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.config.SelectKeys):
			if item := m.list.SelectedItem(); item != nil {
				m.chosen = item
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		if m.config.ShowBorder {
			h, v := m.config.BorderStyle.GetFrameSize()
			m.list.SetSize(msg.Width-h, msg.Height-v)
		} else {
			m.list.SetSize(msg.Width, msg.Height)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.config.ShowBorder {
		return m.config.BorderStyle.Render(m.list.View())
	}
	return m.list.View()
}

// Run executes the picker on the alternate screen.
func Run(cfg Config, opts ...tea.ProgramOption) (list.Item, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(New(cfg), opts...).Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(Model)
	if !ok {
		return nil, errors.New("picker: unexpected model type")
	}
	return fm.Chosen()
}
