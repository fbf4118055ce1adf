// Package recommend ranks catalog records against a reference book or a
// patron's view history.
package recommend

import (
	"slices"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// DefaultLimit caps similar-book and history recommendation lists.
const DefaultLimit = 8

const (
	weightSameAuthor    = 5
	weightSharedSubject = 3
	weightSameLanguage  = 1
	weightAvailable     = 1
)

// Similarity scores how close cand is to ref.
func Similarity(ref, cand catalog.Book) int {
	score := 0
	if cand.Author != "" && cand.Author == ref.Author {
		score += weightSameAuthor
	}
	for _, s := range cand.Subjects {
		if ref.HasSubject(s) {
			score += weightSharedSubject
		}
	}
	if cand.Language != "" && cand.Language == ref.Language {
		score += weightSameLanguage
	}
	if cand.Available() {
		score += weightAvailable
	}
	return score
}

type scored struct {
	book  catalog.Book
	score int
}

// Similar returns up to limit books resembling ref, best first. The pool
// is books without ref itself. When nothing in the pool scores, the first
// limit books of the pool are returned in catalog order, so the list is
// non-empty whenever another book exists.
func Similar(ref catalog.Book, books []catalog.Book, limit int) []catalog.Book {
	if limit < 1 {
		limit = DefaultLimit
	}
	pool := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		if b.ID != ref.ID {
			pool = append(pool, b)
		}
	}

	var ranked []scored
	for _, b := range pool {
		if s := Similarity(ref, b); s > 0 {
			ranked = append(ranked, scored{b, s})
		}
	}
	if len(ranked) == 0 {
		return pool[:min(limit, len(pool))]
	}
	return top(ranked, limit)
}

// top sorts by score desc then year desc and keeps limit books.
func top(ranked []scored, limit int) []catalog.Book {
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return b.book.Year - a.book.Year
	})
	out := make([]catalog.Book, 0, min(limit, len(ranked)))
	for _, r := range ranked[:min(limit, len(ranked))] {
		out = append(out, r.book)
	}
	return out
}
