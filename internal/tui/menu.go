package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"

	"github.com/blackwell-systems/opacctl/internal/tui/delegate"
)

// MenuItem represents an action on the home page
type MenuItem struct {
	Key         string
	Label       string
	Description string
}

// FilterValue implements list.Item
func (m MenuItem) FilterValue() string {
	return m.Label + " " + m.Description
}

// Home menu keys
const (
	MenuSearch    = "search"
	MenuAdvanced  = "advanced"
	MenuTopics    = "topics"
	MenuRecommend = "recommend"
	MenuAccount   = "account"
	MenuAssistant = "assistant"
	MenuQuit      = "quit"
)

// HomeMenu lists the home page actions in display order.
var HomeMenu = []MenuItem{
	{Key: MenuSearch, Label: "館藏查詢", Description: "Keyword search across the union catalog"},
	{Key: MenuAdvanced, Label: "進階查詢", Description: "Combine fields with AND / OR / NOT"},
	{Key: MenuTopics, Label: "主題瀏覽", Description: "Browse by topic"},
	{Key: MenuRecommend, Label: "為你推薦", Description: "Suggestions from your viewing history"},
	{Key: MenuAccount, Label: "我的帳戶", Description: "Sign in, loans and holds"},
	{Key: MenuAssistant, Label: "館藏小幫手", Description: "Ask in plain language"},
	{Key: MenuQuit, Label: "離開", Description: "Exit opacctl"},
}

// TopicItems wraps topic names as menu rows.
func TopicItems(topics []string) []list.Item {
	items := make([]list.Item, len(topics))
	for i, t := range topics {
		items[i] = MenuItem{Key: t, Label: t, Description: "主題"}
	}
	return items
}

// renderMenuItem renders a menu row; labels are padded by display width so
// CJK labels line up.
func renderMenuItem(w io.Writer, m list.Model, index int, item list.Item) {
	menuItem, ok := item.(MenuItem)
	if !ok {
		return
	}

	display := fmt.Sprintf("%s %s", Fit(menuItem.Label, 14), StyleHelp.Render(menuItem.Description))

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+display))
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(display))
	}
}

// NewMenuList builds the list model used for menus.
func NewMenuList(items []MenuItem) list.Model {
	rows := make([]list.Item, len(items))
	for i, it := range items {
		rows[i] = it
	}
	return newMenuList(rows)
}

// NewTopicList builds a menu list of topics.
func NewTopicList(topics []string) list.Model {
	return newMenuList(TopicItems(topics))
}

func newMenuList(rows []list.Item) list.Model {
	l := list.New(rows, delegate.NewWithSpacing(renderMenuItem, 1), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = StyleHelp
	sel := NewStandardKeys().Select
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{sel}
	}
	return l
}
