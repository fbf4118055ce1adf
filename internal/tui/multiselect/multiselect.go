// Package multiselect adds checkbox selection on top of a bubbles list.
package multiselect

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// SelectableItem is a list item that can carry a checkbox.
type SelectableItem interface {
	list.Item
	// Key identifies the item across rebuilds.
	Key() string
	IsSelected() bool
	// WithSelected returns a copy with the given selection state.
	WithSelected(bool) SelectableItem
	// IsSelectable returns false for rows that never get a checkbox, such as
	// group headings.
	IsSelectable() bool
}

// Model wraps a bubbles/list.Model with multi-select capabilities.
type Model struct {
	List          list.Model
	selected      map[string]bool
	showCount     bool
	originalTitle string
}

// New creates a multi-select model wrapping l. Items already marked
// selected start selected.
func New(l list.Model) Model {
	m := Model{
		List:          l,
		selected:      make(map[string]bool),
		originalTitle: l.Title,
	}
	for _, it := range l.Items() {
		if s, ok := it.(SelectableItem); ok && s.IsSelected() {
			m.selected[s.Key()] = true
		}
	}
	m.updateTitle()
	return m
}

// SetShowCount controls whether the selection count appears in the title.
// It is off by default.
func (m *Model) SetShowCount(show bool) {
	m.showCount = show
	m.updateTitle()
}

// Toggle flips the item under the cursor. It returns false when that row
// is not selectable.
func (m *Model) Toggle() bool {
	item, ok := m.List.SelectedItem().(SelectableItem)
	if !ok || !item.IsSelectable() {
		return false
	}
	k := item.Key()
	if m.selected[k] {
		delete(m.selected, k)
	} else {
		m.selected[k] = true
	}
	m.rebuildItems()
	m.updateTitle()
	return true
}

// ClearSelection removes all selections.
func (m *Model) ClearSelection() {
	m.selected = make(map[string]bool)
	m.rebuildItems()
	m.updateTitle()
}

// Selected returns the selected items in list order.
func (m Model) Selected() []SelectableItem {
	var out []SelectableItem
	for _, it := range m.List.Items() {
		if s, ok := it.(SelectableItem); ok && m.selected[s.Key()] {
			out = append(out, s)
		}
	}
	return out
}

// SelectedCount returns the number of selected items.
func (m Model) SelectedCount() int {
	return len(m.selected)
}

func (m *Model) rebuildItems() {
	items := m.List.Items()
	out := make([]list.Item, len(items))
	for i, it := range items {
		if s, ok := it.(SelectableItem); ok {
			out[i] = s.WithSelected(m.selected[s.Key()])
		} else {
			out[i] = it
		}
	}
	m.List.SetItems(out)
}

func (m *Model) updateTitle() {
	if m.showCount {
		m.List.Title = fmt.Sprintf("%s（已選 %d）", m.originalTitle, m.SelectedCount())
	} else {
		m.List.Title = m.originalTitle
	}
}

// CheckboxPrefix returns the checkbox for an item, for use by delegates.
func CheckboxPrefix(item SelectableItem) string {
	if !item.IsSelectable() {
		return ""
	}
	if item.IsSelected() {
		return "[✓] "
	}
	return "[ ] "
}

// Update forwards messages to the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	return m.List.View()
}
