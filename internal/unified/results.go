package unified

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/tui/multiselect"
)

var sortLabels = map[search.SortKey]string{
	search.SortRelevance: "相關度",
	search.SortYear:      "出版年",
	search.SortAvailable: "可借優先",
}

// resultsModel is one search with its facet panel, sort and paging.
type resultsModel struct {
	deps    Deps
	query   search.Query
	filters search.Filters
	facets  catalog.Facets
	sort    search.SortKey
	layout  search.Layout
	page    int
	cursor  int
	result  search.Result

	panel     multiselect.Model
	showPanel bool

	keys      tui.ResultKeys
	activeCmd string
	width     int
	height    int
}

func newResults(d Deps, q search.Query, f search.Filters) resultsModel {
	m := resultsModel{
		deps:    d,
		query:   q,
		filters: f,
		facets:  catalog.CollectFacets(d.Books),
		sort:    search.SortRelevance,
		layout:  d.Layout,
		page:    1,
		keys:    tui.NewResultKeys(),
		width:   80,
	}
	m.run()
	return m
}

func (m *resultsModel) run() {
	m.result = search.Search(m.deps.Books, search.Request{
		Query:    m.query,
		Filters:  m.filters,
		Sort:     m.sort,
		Page:     m.page,
		PageSize: m.layout.PageSize(),
		Locale:   m.deps.Locale,
	})
	m.cursor = max(0, min(m.cursor, len(m.result.Items)-1))
}

func (m resultsModel) Init() tea.Cmd { return nil }

func (m resultsModel) gridCols() int {
	if m.layout != search.LayoutGrid {
		return 1
	}
	w, _ := contentSize(m.width, m.height)
	return tui.GridColumns(w)
}

func (m resultsModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.showPanel {
			w, h := contentSize(msg.Width, msg.Height)
			m.panel.List.SetSize(w, max(h-4, 5))
		}
		return m, nil

	case tea.KeyMsg:
		if m.showPanel {
			return m.updatePanel(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m resultsModel) updateKeys(msg tea.KeyMsg) (view, tea.Cmd) {
	n := len(m.result.Items)
	cols := m.gridCols()
	switch {
	case key.Matches(msg, m.keys.Open):
		if n > 0 {
			return m, navigate(route.OpenBook{Book: m.result.Items[m.cursor]})
		}
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.page = search.Clamp(m.page+1, m.result.TotalPages)
		m.cursor = 0
		m.run()
		m.activeCmd = "n"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.PrevPage):
		m.page = search.Clamp(m.page-1, m.result.TotalPages)
		m.cursor = 0
		m.run()
		m.activeCmd = "p"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Sort):
		m.sort = m.sort.Next()
		m.page, m.cursor = 1, 0
		m.run()
		m.activeCmd = "s"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Layout):
		if m.layout == search.LayoutGrid {
			m.layout = search.LayoutList
		} else {
			m.layout = search.LayoutGrid
		}
		m.page, m.cursor = 1, 0
		m.run()
		m.activeCmd = "v"
		return m, tui.HighlightCmd()
	case key.Matches(msg, m.keys.Filters):
		m.panel = tui.NewFacetSelect(m.facets, m.filters)
		w, h := contentSize(m.width, m.height)
		m.panel.List.SetSize(w, max(h-4, 5))
		m.showPanel = true
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "right", "l":
		m.cursor = min(m.cursor+1, max(n-1, 0))
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case "a":
		return m, navigate(route.OpenAdvanced{})
	case "esc", "backspace":
		return m, back
	}
	return m, nil
}

func (m resultsModel) updatePanel(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case " ":
		m.panel.Toggle()
		return m, nil
	case "c":
		m.panel.ClearSelection()
		return m, nil
	case "enter":
		m.filters = tui.ApplyFacets(m.panel, m.filters)
		m.showPanel = false
		m.page, m.cursor = 1, 0
		m.run()
		return m, nil
	case "esc":
		m.showPanel = false
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

func (m resultsModel) summary() string {
	q := "全部館藏"
	if m.query != nil && strings.TrimSpace(m.query.String()) != "" {
		q = m.query.String()
	}
	bounds := search.YearRange{Min: m.facets.MinYear, Max: m.facets.MaxYear}
	parts := []string{
		tui.StyleHeader.Render("查詢：" + q),
		fmt.Sprintf("共 %d 筆", m.result.Total),
		"排序：" + sortLabels[m.sort],
		fmt.Sprintf("第 %d/%d 頁", m.result.Page, m.result.TotalPages),
	}
	if n := m.filters.Active(bounds); n > 0 {
		parts = append(parts, tui.StyleTag.Render(fmt.Sprintf("篩選 %d 項", n)))
	}
	return strings.Join(parts, tui.StyleHelp.Render(" · "))
}

func (m resultsModel) View() string {
	if m.showPanel {
		return page("篩選條件", m.panel.View(), []tui.ShortcutEntry{
			{Label: "space 勾選"}, {Label: "c 清除"}, {Label: "enter 套用"}, {Label: "esc 取消"},
		}, "")
	}

	w, _ := contentSize(m.width, m.height)
	var body string
	switch {
	case len(m.result.Items) == 0:
		body = tui.StyleHelp.Render("找不到符合的館藏。試試其他關鍵字，或按 f 調整篩選條件。")
	case m.layout == search.LayoutGrid:
		body = tui.RenderGrid(m.result.Items, m.cursor, w)
	default:
		rows := make([]string, len(m.result.Items))
		for i, b := range m.result.Items {
			rows[i] = tui.RenderBookRow(b, i == m.cursor, w)
		}
		body = strings.Join(rows, "\n")
	}

	return page("查詢結果", m.summary()+"\n\n"+body, []tui.ShortcutEntry{
		{Label: "enter 詳細"},
		{Key: "n", Label: "n 下一頁"},
		{Key: "p", Label: "p 上一頁"},
		{Key: "s", Label: "s 排序"},
		{Key: "v", Label: "v 版面"},
		{Label: "f 篩選"},
		{Label: "a 進階"},
		{Label: "esc 返回"},
	}, m.activeCmd)
}
