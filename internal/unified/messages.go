package unified

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/route"
)

// NavigateMsg is emitted when a view wants to move to another page.
type NavigateMsg struct {
	Event route.Event
}

// BackMsg returns to the previous page.
type BackMsg struct{}

// QuitAppMsg is emitted when the entire application should quit
type QuitAppMsg struct{}

func navigate(ev route.Event) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Event: ev} }
}

func back() tea.Msg { return BackMsg{} }

func quitApp() tea.Msg { return QuitAppMsg{} }

func resize(width, height int) tea.Cmd {
	if width == 0 && height == 0 {
		return nil
	}
	return func() tea.Msg { return tea.WindowSizeMsg{Width: width, Height: height} }
}
