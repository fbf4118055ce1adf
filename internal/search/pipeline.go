package search

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"golang.org/x/text/language"
)

// Layout is how results are presented; it fixes the page size.
type Layout string

const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// ParseLayout converts a user-supplied layout; empty means grid.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutGrid, nil
	case LayoutGrid, LayoutList:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want grid or list)", s)
	}
}

// PageSize returns the number of results shown per page.
func (l Layout) PageSize() int {
	if l == LayoutList {
		return 10
	}
	return 8
}

// Request is one search interaction.
type Request struct {
	Query    Query
	Filters  Filters
	Sort     SortKey
	Page     int // 1-based; not clamped
	PageSize int // <1 means LayoutGrid.PageSize()
	Locale   language.Tag
}

// Result is one page of a search.
type Result struct {
	Items      []catalog.Book
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// Run filters books by q and f and returns them sorted by key. The input
// slice is not modified.
func Run(books []catalog.Book, q Query, f Filters, key SortKey, locale language.Tag) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if !Matches(b, q) || !f.Allows(b) {
			continue
		}
		out = append(out, b)
	}
	var tokens []string
	if q != nil {
		tokens = q.Tokens()
	}
	if locale == language.Und {
		locale = DefaultLocale
	}
	Sort(out, key, tokens, locale)
	return out
}

// Search runs the pipeline and slices out the requested page.
func Search(books []catalog.Book, req Request) Result {
	all := Run(books, req.Query, req.Filters, req.Sort, req.Locale)
	size := req.PageSize
	if size < 1 {
		size = LayoutGrid.PageSize()
	}
	return Result{
		Items:      Paginate(all, req.Page, size),
		Total:      len(all),
		TotalPages: TotalPages(len(all), size),
		Page:       req.Page,
		PageSize:   size,
	}
}

// TotalPages is ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size < 1 || total <= size {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate returns the 1-based page of items. Pages outside the list yield
// an empty slice; callers clamp.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// Clamp keeps page within 1..totalPages.
func Clamp(page, totalPages int) int {
	return max(1, min(page, totalPages))
}
