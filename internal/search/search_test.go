package search_test

import (
	"fmt"
	"testing"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
	"golang.org/x/text/language"
)

func ids(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func sameIDs(t *testing.T, got []catalog.Book, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
}

func run(books []catalog.Book, q search.Query, f search.Filters, key search.SortKey) []catalog.Book {
	return search.Run(books, q, f, key, language.Und)
}

// --- Tokenize / Score ---

func TestTokenize(t *testing.T) {
	got := search.Tokenize("  Clean   CODE\tbook ")
	if len(got) != 3 || got[0] != "clean" || got[1] != "code" || got[2] != "book" {
		t.Errorf("Tokenize = %q", got)
	}
	if len(search.Tokenize("   ")) != 0 {
		t.Error("blank text should have no tokens")
	}
}

func TestScore_NoTokens(t *testing.T) {
	for _, b := range catalog.Seed() {
		if s := search.Score(b, nil); s != 0 {
			t.Errorf("Score(%s, nil) = %d, want 0", b.ID, s)
		}
		if s := search.Score(b, []string{}); s != 0 {
			t.Errorf("Score(%s, []) = %d, want 0", b.ID, s)
		}
	}
}

func TestScore_Weights(t *testing.T) {
	b := catalog.Book{
		Title:       "go tour",
		Author:      "go team",
		Subjects:    []string{"golang", "go tools"},
		Description: "learn go",
		ISBN:        "go-123",
	}
	// title 5 + author 3 + subject once 3 + description 2 + isbn 2
	if got := search.Score(b, []string{"go"}); got != 15 {
		t.Errorf("Score = %d, want 15", got)
	}
	if got := search.Score(b, []string{"go", "tour"}); got != 20 {
		t.Errorf("Score with two tokens = %d, want 20", got)
	}
}

// --- Matcher ---

func TestMatches_EmptyAnyRow(t *testing.T) {
	q := search.Structured{Rows: []search.Row{{Field: search.FieldAny, Term: ""}}}
	for _, b := range catalog.Seed() {
		if !search.Matches(b, q) {
			t.Errorf("empty any-row should match %s", b.ID)
		}
	}
}

func TestMatches_EmptySimple(t *testing.T) {
	for _, b := range catalog.Seed() {
		if !search.Matches(b, search.Simple{Text: "   "}) {
			t.Errorf("blank simple query should match %s", b.ID)
		}
	}
}

func TestMatches_CaseInsensitive(t *testing.T) {
	b := *catalog.ByID(catalog.Seed(), "bk-004")
	upper := search.Structured{Rows: []search.Row{{Field: search.FieldTitle, Term: "CLEAN CODE"}}}
	lower := search.Structured{Rows: []search.Row{{Field: search.FieldTitle, Term: "clean code"}}}
	if !search.Matches(b, upper) || !search.Matches(b, lower) {
		t.Error("title match should ignore case")
	}
}

func TestMatches_LeftToRight(t *testing.T) {
	b := *catalog.ByID(catalog.Seed(), "bk-004")
	// A true, B false, C true: ((A)|B) & !C is false; A | (B & !C) would be true.
	q := search.Structured{Rows: []search.Row{
		{Field: search.FieldTitle, Term: "clean", Op: search.OpAnd},
		{Field: search.FieldAuthor, Term: "nobody", Op: search.OpOr},
		{Field: search.FieldSubject, Term: "software", Op: search.OpNot},
	}}
	if search.Matches(b, q) {
		t.Error("NOT must apply to the accumulated result, not bind to the OR operand")
	}

	// OR recovers a failed first row.
	q = search.Structured{Rows: []search.Row{
		{Field: search.FieldTitle, Term: "nothing-here"},
		{Field: search.FieldAuthor, Term: "martin", Op: search.OpOr},
	}}
	if !search.Matches(b, q) {
		t.Error("OR row should rescue a failing first row")
	}
}

func TestMatches_FirstRowOpIgnored(t *testing.T) {
	b := *catalog.ByID(catalog.Seed(), "bk-004")
	q := search.Structured{Rows: []search.Row{{Field: search.FieldTitle, Term: "clean", Op: search.OpNot}}}
	if !search.Matches(b, q) {
		t.Error("the first row's operator must be ignored")
	}
}

func TestMatchTerm_Modes(t *testing.T) {
	const text = "Clean Code"
	cases := []struct {
		term string
		mode search.MatchMode
		want bool
	}{
		{"code clean", search.ModeAll, true},
		{"code zzz", search.ModeAll, false},
		{"code clean", search.ModeExact, false},
		{"clean code", search.ModeExact, true},
		{"code zzz", search.ModeAny, true},
		{"yyy zzz", search.ModeAny, false},
		{"", search.ModeAll, true},
	}
	for _, c := range cases {
		if got := search.MatchTerm(text, c.term, c.mode); got != c.want {
			t.Errorf("MatchTerm(%q, %s) = %v, want %v", c.term, c.mode, got, c.want)
		}
	}
}

func TestFieldText_Any(t *testing.T) {
	b := *catalog.ByID(catalog.Seed(), "bk-004")
	got := search.FieldText(b, search.FieldAny)
	want := "Clean Code Robert C. Martin Programming Software 9780132350884 A handbook of agile software craftsmanship."
	if got != want {
		t.Errorf("FieldText(any) = %q", got)
	}
	if search.FieldText(catalog.Book{}, search.FieldSubject) != "" {
		t.Error("missing subjects should extract as empty text")
	}
}

func TestParseField(t *testing.T) {
	if f, err := search.ParseField("Author"); err != nil || f != search.FieldAuthor {
		t.Errorf("ParseField(Author) = %q, %v", f, err)
	}
	if f, _ := search.ParseField(""); f != search.FieldAny {
		t.Errorf("empty field should default to any, got %q", f)
	}
	if _, err := search.ParseField("publisher"); err == nil {
		t.Error("unknown field should error")
	}
}

func TestNewStructured_NormalizesEmptyForm(t *testing.T) {
	q := search.NewStructured([]search.Row{{Field: search.FieldTitle, Term: "  "}}, "")
	if len(q.Rows) != 1 || q.Rows[0].Field != search.FieldAny || q.Rows[0].Term != "" {
		t.Errorf("rows = %+v", q.Rows)
	}
	if q.Mode != search.ModeAll {
		t.Errorf("mode = %q", q.Mode)
	}
}

func TestStructured_Tokens(t *testing.T) {
	q := search.NewStructured([]search.Row{
		{Field: search.FieldTitle, Term: "Clean"},
		{Field: search.FieldAuthor, Term: "Robert Martin", Op: search.OpOr},
	}, search.ModeAll)
	got := q.Tokens()
	if len(got) != 3 || got[0] != "clean" || got[2] != "martin" {
		t.Errorf("Tokens = %q", got)
	}
}

// --- Seed scenarios ---

func TestScenario_SimpleThreeBody(t *testing.T) {
	books := catalog.Seed()
	q := search.Simple{Text: "三體"}
	got := run(books, q, search.Filters{}, search.SortRelevance)
	sameIDs(t, got, "bk-003")
	if search.Score(got[0], q.Tokens()) <= 0 {
		t.Error("三體 should score above zero")
	}
	for _, b := range books {
		if b.ID != "bk-003" && search.Score(b, q.Tokens()) != 0 {
			t.Errorf("%s scored %d, want 0", b.ID, search.Score(b, q.Tokens()))
		}
	}
}

func TestScenario_SubjectSciFi(t *testing.T) {
	q := search.Structured{Rows: []search.Row{{Field: search.FieldSubject, Term: "科幻", Op: search.OpAnd}}}
	got := run(catalog.Seed(), q, search.Filters{}, search.SortRelevance)
	sameIDs(t, got, "bk-003")
}

func TestScenario_YearWindow(t *testing.T) {
	f := search.Filters{Years: search.YearRange{Min: 2008, Max: 2011}}
	got := run(catalog.Seed(), search.Simple{}, f, search.SortYear)
	// year desc, ties keep catalog order
	sameIDs(t, got, "bk-002", "bk-003", "bk-004")
}

func TestScenario_AvailableFirst(t *testing.T) {
	books := []catalog.Book{
		{ID: "x", Title: "go go go", Availability: []catalog.Availability{{Library: "A", Status: catalog.StatusCheckedOut}}},
		{ID: "y", Title: "go", Availability: []catalog.Availability{{Library: "A", Status: catalog.StatusOnShelf}}},
	}
	q := search.Simple{Text: "go"}
	if search.Score(books[0], q.Tokens()) < search.Score(books[1], q.Tokens()) {
		t.Fatal("fixture: x should not score below y")
	}
	got := run(books, q, search.Filters{}, search.SortAvailable)
	sameIDs(t, got, "y", "x")
}

// --- Filters ---

func TestFilters_OpenWhenEmpty(t *testing.T) {
	f := search.Filters{
		Libraries: search.NewSet[string](),
		Statuses:  search.NewSet[catalog.Status](),
		Languages: search.NewSet[string](),
		Formats:   search.NewSet[string](),
		Subjects:  search.NewSet[string](),
	}
	got := run(catalog.Seed(), search.Simple{}, f, search.SortYear)
	if len(got) != 5 {
		t.Errorf("open filters kept %d of 5", len(got))
	}
}

func TestFilters_Facets(t *testing.T) {
	books := catalog.Seed()
	cases := []struct {
		name string
		f    search.Filters
		want []string
	}{
		{"library", search.Filters{Libraries: search.NewSet("新城分館")}, []string{"bk-001"}},
		{"status", search.Filters{Statuses: search.NewSet(catalog.StatusOnHold)}, []string{"bk-001", "bk-005"}},
		{"language", search.Filters{Languages: search.NewSet("English")}, []string{"bk-004"}},
		{"format", search.Filters{Formats: search.NewSet("有聲書", "eBook")}, []string{"bk-004", "bk-005"}},
		{"subject", search.Filters{Subjects: search.NewSet("科幻", "文學")}, []string{"bk-003", "bk-005"}},
		{"combined", search.Filters{Libraries: search.NewSet("花蓮總館"), Languages: search.NewSet("English")}, []string{"bk-004"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got []catalog.Book
			for _, b := range books {
				if c.f.Allows(b) {
					got = append(got, b)
				}
			}
			sameIDs(t, got, c.want...)
		})
	}
}

func TestDefaultFilters_SpanCatalog(t *testing.T) {
	f := search.DefaultFilters(catalog.Seed())
	if f.Years.Min != 1943 || f.Years.Max != 2011 {
		t.Errorf("Years = %+v", f.Years)
	}
	if f.Active(f.Years) != 0 {
		t.Errorf("default filters should be inactive, got %d", f.Active(f.Years))
	}
	f.Languages = search.NewSet("English")
	f.Years.Min = 2000
	if got := f.Active(search.YearRange{Min: 1943, Max: 2011}); got != 2 {
		t.Errorf("Active = %d, want 2", got)
	}
}

func TestSet_Toggle(t *testing.T) {
	s := search.NewSet("a")
	s.Toggle("b")
	s.Toggle("a")
	if s.Has("a") || !s.Has("b") {
		t.Errorf("set = %v", search.Sorted(s))
	}
}

// --- Sorting ---

func TestSort_RelevanceThenTitle(t *testing.T) {
	books := []catalog.Book{
		{ID: "1", Title: "b"},
		{ID: "2", Title: "go a"},
		{ID: "3", Title: "a"},
		{ID: "4", Title: "C"},
	}
	got := run(books, search.Structured{Rows: []search.Row{{Field: search.FieldAny}}}, search.Filters{}, search.SortRelevance)
	// no tokens: all zero, titles collated
	sameIDs(t, got, "3", "1", "4", "2")

	got = run(books, search.Simple{Text: "go"}, search.Filters{}, search.SortRelevance)
	sameIDs(t, got, "2")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	books := catalog.Seed()
	_ = run(books, search.Simple{}, search.Filters{}, search.SortYear)
	if books[0].ID != "bk-001" {
		t.Error("Run must not reorder the catalog")
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := search.ParseSortKey(""); err != nil || k != search.SortRelevance {
		t.Errorf("default sort = %q, %v", k, err)
	}
	if _, err := search.ParseSortKey("price"); err == nil {
		t.Error("unknown sort should error")
	}
	if search.SortAvailable.Next() != search.SortRelevance {
		t.Error("Next should wrap around")
	}
}

// --- Pagination ---

func bigCatalog(n int) []catalog.Book {
	books := make([]catalog.Book, n)
	for i := range books {
		books[i] = catalog.Book{ID: fmt.Sprintf("b%02d", i), Title: fmt.Sprintf("Title %02d", i), Year: 1990 + i%7}
	}
	return books
}

func TestSearch_PagesReconstructList(t *testing.T) {
	books := bigCatalog(23)
	for _, layout := range []search.Layout{search.LayoutGrid, search.LayoutList} {
		size := layout.PageSize()
		full := run(books, search.Simple{}, search.Filters{}, search.SortYear)
		first := search.Search(books, search.Request{Query: search.Simple{}, Sort: search.SortYear, Page: 1, PageSize: size})

		var joined []catalog.Book
		seen := map[string]bool{}
		for p := 1; p <= first.TotalPages; p++ {
			res := search.Search(books, search.Request{Query: search.Simple{}, Sort: search.SortYear, Page: p, PageSize: size})
			if len(res.Items) > size {
				t.Fatalf("%s page %d has %d items > %d", layout, p, len(res.Items), size)
			}
			for _, b := range res.Items {
				if seen[b.ID] {
					t.Fatalf("%s: duplicate %s across pages", layout, b.ID)
				}
				seen[b.ID] = true
			}
			joined = append(joined, res.Items...)
		}
		if first.Total != 23 {
			t.Errorf("%s: Total = %d", layout, first.Total)
		}
		sameIDs(t, joined, ids(full)...)
	}
}

func TestSearch_TotalPages(t *testing.T) {
	res := search.Search(bigCatalog(23), search.Request{Page: 1, PageSize: 8})
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
	res = search.Search(nil, search.Request{Page: 1, PageSize: 10})
	if res.TotalPages != 1 || res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("empty search = %+v", res)
	}
}

func TestSearch_OutOfRangePageNotClamped(t *testing.T) {
	res := search.Search(catalog.Seed(), search.Request{Query: search.Simple{}, Page: 4, PageSize: 8})
	if len(res.Items) != 0 || res.Page != 4 {
		t.Errorf("page 4 of 1 = %+v", res)
	}
	if search.Clamp(4, res.TotalPages) != 1 || search.Clamp(0, 3) != 1 {
		t.Error("Clamp should keep page within range")
	}
}

func TestSearch_DefaultPageSize(t *testing.T) {
	res := search.Search(bigCatalog(12), search.Request{Page: 1})
	if res.PageSize != 8 || len(res.Items) != 8 {
		t.Errorf("default page size = %d, items %d", res.PageSize, len(res.Items))
	}
}

func TestParseLayout(t *testing.T) {
	if l, _ := search.ParseLayout("LIST"); l.PageSize() != 10 {
		t.Errorf("list page size = %d", l.PageSize())
	}
	if _, err := search.ParseLayout("carousel"); err == nil {
		t.Error("unknown layout should error")
	}
}
