package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

type homeFocus int

const (
	homeInput homeFocus = iota
	homeMenu
	homeTopics
)

// homeModel is the landing page: a search bar over the action menu.
type homeModel struct {
	deps   Deps
	input  textinput.Model
	menu   list.Model
	topics list.Model
	focus  homeFocus
	status string
}

func newHome(d Deps) homeModel {
	in := textinput.New()
	in.Placeholder = "書名、作者、主題或 ISBN"
	in.Prompt = "🔍 "
	in.CharLimit = 120
	in.Width = 48
	in.Focus()

	status := fmt.Sprintf("%d 冊館藏", len(d.Books))
	if u, ok := d.Session.User(); ok {
		status += " · 已登入 " + u.Email
	}
	if d.Client == nil {
		status += " · 離線"
	}

	return homeModel{
		deps:   d,
		input:  in,
		menu:   tui.NewMenuList(tui.HomeMenu),
		topics: tui.NewTopicList(route.Topics),
		status: status,
	}
}

func (m homeModel) Init() tea.Cmd { return textinput.Blink }

func (m homeModel) setFocus(f homeFocus) (homeModel, tea.Cmd) {
	m.focus = f
	if f == homeInput {
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

func (m homeModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := contentSize(msg.Width, msg.Height)
		m.menu.SetSize(w, max(h-6, 5))
		m.topics.SetSize(w, max(h-6, 5))
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case homeInput:
			return m.updateInput(msg)
		case homeMenu:
			return m.updateMenu(msg)
		case homeTopics:
			switch msg.String() {
			case "esc", "backspace":
				return m.setFocus(homeMenu)
			case "enter":
				if it, ok := m.topics.SelectedItem().(tui.MenuItem); ok {
					return m, navigate(route.PickTopic{Topic: it.Key})
				}
			}
			var cmd tea.Cmd
			m.topics, cmd = m.topics.Update(msg)
			return m, cmd
		}
	}

	if m.focus == homeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m homeModel) updateInput(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m.setFocus(homeMenu)
		}
		return m, navigate(route.SubmitSearch{
			Query:   search.Simple{Text: text},
			Filters: search.DefaultFilters(m.deps.Books),
		})
	case "tab", "down":
		return m.setFocus(homeMenu)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m homeModel) updateMenu(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "tab", "/":
		return m.setFocus(homeInput)
	case "q", "esc":
		return m, quitApp
	case "enter":
		it, ok := m.menu.SelectedItem().(tui.MenuItem)
		if !ok {
			return m, nil
		}
		switch it.Key {
		case tui.MenuSearch:
			return m.setFocus(homeInput)
		case tui.MenuTopics:
			return m.setFocus(homeTopics)
		case tui.MenuAdvanced:
			return m, navigate(route.OpenAdvanced{})
		case tui.MenuRecommend:
			return m, navigate(route.OpenRecommend{})
		case tui.MenuAccount:
			return m, navigate(route.OpenAccount{})
		case tui.MenuAssistant:
			return m, navigate(route.OpenAssistant{})
		case tui.MenuQuit:
			return m, quitApp
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m homeModel) View() string {
	var b strings.Builder
	b.WriteString(tui.StyleHelp.Render(m.status))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	var shortcuts []tui.ShortcutEntry
	switch m.focus {
	case homeTopics:
		b.WriteString(tui.StyleHeader.Render("主題瀏覽"))
		b.WriteString("\n")
		b.WriteString(m.topics.View())
		shortcuts = []tui.ShortcutEntry{{Label: "enter 瀏覽"}, {Label: "esc 返回"}}
	default:
		b.WriteString(m.menu.View())
		shortcuts = []tui.ShortcutEntry{{Label: "enter 查詢/選取"}, {Label: "tab 切換"}, {Label: "ctrl+c 離開"}}
	}
	return page("花蓮縣公共圖書館 · 館藏查詢", b.String(), shortcuts, "")
}
