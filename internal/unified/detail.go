package unified

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/recommend"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/tui/delegate"
)

var errNoHoldings = errors.New("此書目前沒有可預約的館藏")

// detailModel shows one record, its branch copies and similar titles.
type detailModel struct {
	book    catalog.Book
	similar list.Model
	err     error
	width   int
}

func newDetail(d Deps, b catalog.Book) detailModel {
	sim := recommend.Similar(b, d.Books, recommend.DefaultLimit)
	l := list.New(tui.BookItems(sim), delegate.New(tui.RenderBookItem), 80, len(sim)+4)
	l.Title = "相似推薦"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = tui.StyleHeader
	return detailModel{book: b, similar: l, width: 80}
}

func (m detailModel) Init() tea.Cmd { return nil }

func (m detailModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, _ := contentSize(msg.Width, msg.Height)
		m.width = w
		m.similar.SetSize(w, len(m.similar.Items())+4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if len(m.book.Libraries()) == 0 {
				m.err = errNoHoldings
				return m, nil
			}
			return m, navigate(route.StartReserve{})
		case "enter":
			if it, ok := m.similar.SelectedItem().(tui.BookItem); ok {
				return m, navigate(route.OpenBook{Book: it.Book})
			}
			return m, nil
		case "esc", "backspace":
			return m, back
		case "H":
			return m, navigate(route.GoHome{})
		}
		var cmd tea.Cmd
		m.similar, cmd = m.similar.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m detailModel) header() string {
	b := m.book
	var meta []string
	for _, s := range []string{b.Author, yearLabel(b.Year), b.Language, b.Format} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	lines := []string{
		tui.StyleHighlight.Render(b.Title) + "  " + tui.AvailabilityBadge(b),
		tui.StyleHelp.Render(strings.Join(meta, " · ")),
	}
	if b.ISBN != "" {
		lines = append(lines, tui.StyleHelp.Render("ISBN "+b.ISBN))
	}
	if len(b.Subjects) > 0 {
		lines = append(lines, tui.StyleTag.Render("#"+strings.Join(b.Subjects, " #")))
	}
	if b.Description != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(max(m.width-2, 20)).Render(b.Description))
	}
	return strings.Join(lines, "\n")
}

func yearLabel(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// holdings renders the branch copy table.
func holdings(b catalog.Book) string {
	if len(b.Availability) == 0 {
		return tui.StyleHelp.Render("無館藏資料")
	}
	rows := []string{tui.StyleHeader.Render(tui.Fit("館別", 12) + " " + tui.Fit("索書號", 18) + " " + tui.Fit("位置", 8) + " 狀態")}
	for _, a := range b.Availability {
		status := tui.StatusStyle(a.Status).Render(string(a.Status))
		if a.Due != "" {
			status += tui.StyleHelp.Render(" 到期 " + a.Due)
		}
		rows = append(rows, tui.Fit(a.Library, 12)+" "+tui.Fit(a.CallNumber, 18)+" "+tui.Fit(a.Location, 8)+" "+status)
	}
	return strings.Join(rows, "\n")
}

func (m detailModel) View() string {
	parts := []string{m.header(), "", holdings(m.book)}
	if e := errorLine(m.err); e != "" {
		parts = append(parts, "", e)
	}
	if len(m.similar.Items()) > 0 {
		parts = append(parts, "", m.similar.View())
	}
	return page("館藏詳細資料", strings.Join(parts, "\n"), []tui.ShortcutEntry{
		{Label: "r 預約"}, {Label: "enter 開啟推薦"}, {Label: "esc 返回"}, {Label: "H 首頁"},
	}, "")
}
