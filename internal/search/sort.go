package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey orders a result list.
type SortKey string

const (
	// SortRelevance ranks by Score, then title.
	SortRelevance SortKey = "relevance"
	// SortYear ranks newest first and keeps catalog order among equals.
	SortYear SortKey = "year"
	// SortAvailable lists borrowable books first, then by title.
	SortAvailable SortKey = "available"
)

// SortKeys lists every key in menu order.
var SortKeys = []SortKey{SortRelevance, SortYear, SortAvailable}

// ParseSortKey converts a user-supplied key; empty means relevance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortYear, SortAvailable:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want relevance, year or available)", s)
	}
}

// Next cycles to the following key, used by the results view.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// DefaultLocale is the collation used for title ordering.
var DefaultLocale = language.TraditionalChinese

// Sort orders books in place. tokens are the query tokens for relevance.
// A Collator is not safe for concurrent use, so one is built per call.
func Sort(books []catalog.Book, key SortKey, tokens []string, locale language.Tag) {
	col := collate.New(locale)
	byTitle := func(a, b catalog.Book) int {
		return col.CompareString(a.Title, b.Title)
	}

	switch key {
	case SortYear:
		slices.SortStableFunc(books, func(a, b catalog.Book) int {
			return b.Year - a.Year
		})
	case SortAvailable:
		slices.SortStableFunc(books, func(a, b catalog.Book) int {
			if av, bv := a.Available(), b.Available(); av != bv {
				if av {
					return -1
				}
				return 1
			}
			return byTitle(a, b)
		})
	default:
		slices.SortStableFunc(books, func(a, b catalog.Book) int {
			if d := Score(b, tokens) - Score(a, tokens); d != 0 {
				return d
			}
			return byTitle(a, b)
		})
	}
}
