package tui_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/blackwell-systems/opacctl/internal/tui"
)

// --- layout helpers ---

func TestFit_WideCharacters(t *testing.T) {
	got := tui.Fit("三體", 6)
	if w := xansi.StringWidth(got); w != 6 {
		t.Errorf("width = %d, want 6 (%q)", w, got)
	}
	if !strings.HasPrefix(got, "三體") {
		t.Errorf("Fit lost content: %q", got)
	}

	got = tui.Fit("解憂雜貨店", 6)
	if w := xansi.StringWidth(got); w != 6 {
		t.Errorf("truncated width = %d, want 6 (%q)", w, got)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("truncation marker missing: %q", got)
	}
	if tui.Fit("abc", 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestGridColumns(t *testing.T) {
	tests := []struct{ width, want int }{
		{10, 1}, {48, 2}, {80, 3}, {200, 4},
	}
	for _, tt := range tests {
		if got := tui.GridColumns(tt.width); got != tt.want {
			t.Errorf("GridColumns(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestRenderBookRow_TwoLines(t *testing.T) {
	b := catalog.Seed()[2]
	row := tui.RenderBookRow(b, false, 80)
	if n := strings.Count(row, "\n"); n != 1 {
		t.Fatalf("row has %d newlines, want 1", n)
	}
	plain := xansi.Strip(row)
	if !strings.Contains(plain, "三體") || !strings.Contains(plain, "花蓮總館") {
		t.Errorf("row = %q", plain)
	}
}

func TestLibraryOptions_Distinct(t *testing.T) {
	b := catalog.Book{Availability: []catalog.Availability{
		{Library: "花蓮總館", Status: catalog.StatusAvailable},
		{Library: "花蓮總館", Status: catalog.StatusCheckedOut},
		{Library: "吉安分館", Status: catalog.StatusOnHold},
		{Status: catalog.StatusAvailable},
	}}
	opts := tui.LibraryOptions(b)
	if len(opts) != 2 || opts[0].Name != "花蓮總館" || opts[0].Status != catalog.StatusAvailable || opts[1].Name != "吉安分館" {
		t.Errorf("LibraryOptions = %+v", opts)
	}
}

func TestRunLibraryPicker_SingleBranchSkipsPrompt(t *testing.T) {
	b := catalog.Book{Title: "x", Availability: []catalog.Availability{{Library: "新城分館"}}}
	got, err := tui.RunLibraryPicker(b)
	if err != nil || got != "新城分館" {
		t.Errorf("RunLibraryPicker = %q, %v", got, err)
	}
	if _, err := tui.RunLibraryPicker(catalog.Book{Title: "none"}); err == nil {
		t.Error("expected error for a book without holdings")
	}
}

// --- facet panel ---

func TestFacetSelect_PrecheckedAndApply(t *testing.T) {
	books := catalog.Seed()
	cur := search.Filters{
		Languages: search.NewSet("English"),
		Years:     search.YearRange{Min: 2000, Max: 2010},
	}
	ms := tui.NewFacetSelect(catalog.CollectFacets(books), cur)
	if ms.SelectedCount() != 1 {
		t.Fatalf("SelectedCount = %d, want 1", ms.SelectedCount())
	}

	// row 0 is the library heading, row 2 the second library
	ms.List.Select(0)
	if ms.Toggle() {
		t.Error("heading rows must not toggle")
	}
	ms.List.Select(2)
	if !ms.Toggle() {
		t.Fatal("library row did not toggle")
	}
	if ms.List.Title != "篩選（已選 2）" {
		t.Errorf("title = %q", ms.List.Title)
	}

	f := tui.ApplyFacets(ms, cur)
	if !f.Libraries.Has("吉安分館") || len(f.Libraries) != 1 {
		t.Errorf("Libraries = %v", f.Libraries)
	}
	if !f.Languages.Has("English") {
		t.Errorf("Languages = %v", f.Languages)
	}
	if f.Years != cur.Years {
		t.Errorf("Years = %+v, want %+v", f.Years, cur.Years)
	}

	ms.ClearSelection()
	if f := tui.ApplyFacets(ms, cur); len(f.Languages) != 0 || len(f.Libraries) != 0 {
		t.Errorf("cleared filters = %+v", f)
	}
}

// --- form ---

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestForm_FocusCyclesAndTypes(t *testing.T) {
	f := tui.NewForm([]tui.FormField{
		{Label: "帳號"},
		{Label: "密碼", Secret: true},
	})
	f, _ = f.Update(key("reader"))
	f, _ = f.Update(key("tab"))
	if f.Focused() != 1 {
		t.Fatalf("Focused = %d, want 1", f.Focused())
	}
	f, _ = f.Update(key("pw123456"))
	f, _ = f.Update(key("tab"))
	if f.Focused() != 0 {
		t.Errorf("focus did not wrap: %d", f.Focused())
	}
	f, _ = f.Update(key("shift+tab"))
	if f.Focused() != 1 {
		t.Errorf("shift+tab focus = %d", f.Focused())
	}

	vals := f.Values()
	if vals[0] != "reader" || vals[1] != "pw123456" {
		t.Errorf("Values = %q", vals)
	}
	if strings.Contains(f.View(), "pw123456") {
		t.Error("secret field echoed its value")
	}
	if f.Value(5) != "" {
		t.Error("out-of-range Value should be empty")
	}
}

func TestAvailabilityBadge(t *testing.T) {
	seed := catalog.Seed()
	if got := xansi.Strip(tui.AvailabilityBadge(seed[0])); !strings.Contains(got, "可借") {
		t.Errorf("badge = %q", got)
	}
	if got := xansi.Strip(tui.AvailabilityBadge(catalog.Book{})); !strings.Contains(got, "無館藏") {
		t.Errorf("badge = %q", got)
	}
}
