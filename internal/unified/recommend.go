package unified

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/logging"
	"github.com/blackwell-systems/opacctl/internal/recommend"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/tui/delegate"
)

// maxViewedShown limits the "recently viewed" line.
const maxViewedShown = 5

type recommendModel struct {
	deps  Deps
	rec   recommend.Recommendation
	books list.Model
}

func newRecommend(d Deps) recommendModel {
	l := list.New(nil, delegate.New(tui.RenderBookItem), 80, 14)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = tui.StyleHelp
	m := recommendModel{deps: d, books: l}
	m.refresh()
	return m
}

func (m *recommendModel) refresh() {
	m.rec = recommend.ForHistory(m.deps.Books, m.deps.Session.Views())
	m.books.SetItems(tui.BookItems(m.rec.Books))
}

func (m recommendModel) Init() tea.Cmd { return nil }

func (m recommendModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := contentSize(msg.Width, msg.Height)
		m.books.SetSize(w, max(h-8, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if it, ok := m.books.SelectedItem().(tui.BookItem); ok {
				return m, navigate(route.OpenBook{Book: it.Book})
			}
			return m, nil
		case "c":
			if err := m.deps.Session.ClearViews(); err != nil {
				log := logging.With("tui")
				log.Warn().Err(err).Msg("clearing view history")
			}
			m.refresh()
			return m, nil
		case "esc", "backspace":
			return m, back
		}
		var cmd tea.Cmd
		m.books, cmd = m.books.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m recommendModel) View() string {
	var intro []string
	if m.rec.Fallback {
		intro = append(intro, tui.StyleHelp.Render("還沒有瀏覽紀錄，先看看最新館藏。"))
	} else {
		if len(m.rec.Reasons) > 0 {
			intro = append(intro, "因為你常看："+tui.StyleTag.Render("#"+strings.Join(m.rec.Reasons, " #")))
		}
		titles := make([]string, 0, maxViewedShown)
		for _, b := range m.rec.Viewed[:min(maxViewedShown, len(m.rec.Viewed))] {
			titles = append(titles, b.Title)
		}
		intro = append(intro, tui.StyleHelp.Render("最近瀏覽："+strings.Join(titles, "、")))
	}
	body := strings.Join(intro, "\n") + "\n\n" + m.books.View()
	return page("為你推薦", body, []tui.ShortcutEntry{
		{Label: "enter 詳細"}, {Label: "c 清除紀錄"}, {Label: "esc 返回"},
	}, "")
}
