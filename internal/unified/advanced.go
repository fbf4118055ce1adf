package unified

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

const advancedRows = 3

var fieldLabels = map[search.Field]string{
	search.FieldAny:     "不限欄位",
	search.FieldTitle:   "書名",
	search.FieldAuthor:  "作者",
	search.FieldSubject: "主題",
	search.FieldISBN:    "ISBN",
}

var modeLabels = map[search.MatchMode]string{
	search.ModeAll:   "包含所有字詞",
	search.ModeExact: "完全相符",
	search.ModeAny:   "包含任一字詞",
}

var (
	ops   = []search.Op{search.OpAnd, search.OpOr, search.OpNot}
	modes = []search.MatchMode{search.ModeAll, search.ModeExact, search.ModeAny}
)

// advancedModel is the row-based query form.
type advancedModel struct {
	deps   Deps
	form   tui.Form
	fields [advancedRows]int // index into search.Fields
	ops    [advancedRows]int // index into ops; row 0 is unused
	mode   int
	err    error
}

func newAdvanced(d Deps) advancedModel {
	fields := make([]tui.FormField, 0, advancedRows+2)
	for range advancedRows {
		fields = append(fields, tui.FormField{Placeholder: "檢索詞"})
	}
	fields = append(fields,
		tui.FormField{Label: "出版年起", Placeholder: "1900", CharLimit: 4, Width: 6},
		tui.FormField{Label: "出版年迄", Placeholder: "2025", CharLimit: 4, Width: 6},
	)
	m := advancedModel{deps: d, form: tui.NewForm(fields)}
	m.fields = [advancedRows]int{1, 2, 3} // title, author, subject
	m.relabel()
	return m
}

func (m *advancedModel) relabel() {
	for i := range advancedRows {
		label := fieldLabels[search.Fields[m.fields[i]]]
		if i > 0 {
			label = string(ops[m.ops[i]]) + " " + label
		}
		m.form.SetLabel(i, label)
	}
}

func (m advancedModel) Init() tea.Cmd { return nil }

// rows returns the query rows as entered, blank rows included.
func (m advancedModel) rows() []search.Row {
	rows := make([]search.Row, advancedRows)
	for i := range rows {
		rows[i] = search.Row{
			Field: search.Fields[m.fields[i]],
			Term:  m.form.Value(i),
			Op:    ops[m.ops[i]],
		}
	}
	return rows
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0, fmt.Errorf("出版年必須是西元年份：%q", s)
	}
	return y, nil
}

// submit builds the SubmitSearch event. An open lower or upper year bound
// falls back to the catalog span.
func (m advancedModel) submit() (route.SubmitSearch, error) {
	f := search.DefaultFilters(m.deps.Books)
	lo, err := parseYear(m.form.Value(advancedRows))
	if err != nil {
		return route.SubmitSearch{}, err
	}
	hi, err := parseYear(m.form.Value(advancedRows + 1))
	if err != nil {
		return route.SubmitSearch{}, err
	}
	switch {
	case lo != 0 && hi != 0 && lo > hi:
		return route.SubmitSearch{}, fmt.Errorf("出版年起 %d 晚於出版年迄 %d", lo, hi)
	case lo != 0 && hi == 0:
		f.Years = search.YearRange{Min: lo, Max: math.MaxInt}
	case lo == 0 && hi != 0:
		f.Years = search.YearRange{Min: math.MinInt, Max: hi}
	case lo != 0:
		f.Years = search.YearRange{Min: lo, Max: hi}
	}
	return route.SubmitSearch{
		Query:   search.NewStructured(m.rows(), modes[m.mode]),
		Filters: f,
	}, nil
}

func (m advancedModel) Update(msg tea.Msg) (view, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		row := m.form.Focused()
		switch k.String() {
		case "esc":
			return m, back
		case "enter":
			ev, err := m.submit()
			if err != nil {
				m.err = err
				return m, nil
			}
			return m, navigate(ev)
		case "ctrl+f":
			if row < advancedRows {
				m.fields[row] = (m.fields[row] + 1) % len(search.Fields)
				m.relabel()
			}
			return m, nil
		case "ctrl+o":
			if row > 0 && row < advancedRows {
				m.ops[row] = (m.ops[row] + 1) % len(ops)
				m.relabel()
			}
			return m, nil
		case "ctrl+t":
			m.mode = (m.mode + 1) % len(modes)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m advancedModel) View() string {
	parts := []string{
		m.form.View(),
		"",
		"比對方式：" + tui.StyleHighlight.Render(modeLabels[modes[m.mode]]),
		tui.StyleHelp.Render("條件由上而下依序組合；第一列的運算子不使用。"),
	}
	if e := errorLine(m.err); e != "" {
		parts = append(parts, "", e)
	}
	return page("進階查詢", strings.Join(parts, "\n"), []tui.ShortcutEntry{
		{Label: "enter 查詢"}, {Label: "tab 下一欄"}, {Label: "ctrl+f 欄位"}, {Label: "ctrl+o 運算子"}, {Label: "ctrl+t 比對方式"}, {Label: "esc 返回"},
	}, "")
}
