package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/tui/delegate"
	"github.com/blackwell-systems/opacctl/internal/tui/multiselect"
)

// FacetGroup names one facet of the filter panel.
type FacetGroup string

const (
	FacetLibrary  FacetGroup = "館別"
	FacetStatus   FacetGroup = "狀態"
	FacetLanguage FacetGroup = "語言"
	FacetFormat   FacetGroup = "資料類型"
	FacetSubject  FacetGroup = "主題"
)

// FacetItem is one checkbox row, or a group heading when Value is empty.
type FacetItem struct {
	Group    FacetGroup
	Value    string
	selected bool
}

func (f FacetItem) FilterValue() string { return f.Value }
func (f FacetItem) Key() string         { return string(f.Group) + "\x00" + f.Value }
func (f FacetItem) IsSelected() bool    { return f.selected }
func (f FacetItem) IsSelectable() bool  { return f.Value != "" }

func (f FacetItem) WithSelected(sel bool) multiselect.SelectableItem {
	f.selected = sel
	return f
}

func renderFacetItem(w io.Writer, m list.Model, index int, item list.Item) {
	f, ok := item.(FacetItem)
	if !ok {
		return
	}
	if !f.IsSelectable() {
		_, _ = fmt.Fprint(w, StyleHeader.Render(string(f.Group)))
		return
	}
	row := "  " + multiselect.CheckboxPrefix(f) + f.Value
	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render(row))
	} else {
		_, _ = fmt.Fprint(w, StyleNormal.Render(row))
	}
}

// NewFacetSelect builds the filter panel from the catalog's facets, with
// the current filter values pre-checked.
func NewFacetSelect(facets catalog.Facets, cur search.Filters) multiselect.Model {
	var items []list.Item
	group := func(g FacetGroup, values []string, has func(string) bool) {
		if len(values) == 0 {
			return
		}
		items = append(items, FacetItem{Group: g})
		for _, v := range values {
			items = append(items, FacetItem{Group: g, Value: v, selected: has(v)})
		}
	}
	statuses := make([]string, len(facets.Statuses))
	for i, s := range facets.Statuses {
		statuses[i] = string(s)
	}
	group(FacetLibrary, facets.Libraries, cur.Libraries.Has)
	group(FacetStatus, statuses, func(v string) bool { return cur.Statuses.Has(catalog.Status(v)) })
	group(FacetLanguage, facets.Languages, cur.Languages.Has)
	group(FacetFormat, facets.Formats, cur.Formats.Has)
	group(FacetSubject, facets.Subjects, cur.Subjects.Has)

	l := list.New(items, delegate.New(renderFacetItem), 0, 0)
	l.Title = "篩選"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = StyleHeader
	l.Styles.HelpStyle = StyleHelp
	if len(items) > 1 {
		l.Select(1)
	}
	ms := multiselect.New(l)
	ms.SetShowCount(true)
	return ms
}

// ApplyFacets copies the checked rows into f, keeping f's year window.
func ApplyFacets(ms multiselect.Model, f search.Filters) search.Filters {
	out := search.Filters{
		Libraries: search.NewSet[string](),
		Statuses:  search.NewSet[catalog.Status](),
		Languages: search.NewSet[string](),
		Formats:   search.NewSet[string](),
		Subjects:  search.NewSet[string](),
		Years:     f.Years,
	}
	for _, it := range ms.Selected() {
		fi := it.(FacetItem)
		switch fi.Group {
		case FacetLibrary:
			out.Libraries[fi.Value] = struct{}{}
		case FacetStatus:
			out.Statuses[catalog.Status(fi.Value)] = struct{}{}
		case FacetLanguage:
			out.Languages[fi.Value] = struct{}{}
		case FacetFormat:
			out.Formats[fi.Value] = struct{}{}
		case FacetSubject:
			out.Subjects[fi.Value] = struct{}{}
		}
	}
	return out
}
