package recommend

import (
	"slices"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

const (
	weightSubjectTally  = 3
	weightLanguageTally = 2
	maxReasons          = 3
)

// Recommendation is the personalised page for one patron.
type Recommendation struct {
	Books    []catalog.Book `json:"books"`
	Reasons  []string       `json:"reasons,omitempty"`
	Viewed   []catalog.Book `json:"viewed,omitempty"`
	Fallback bool           `json:"fallback"`
}

// tally counts occurrences and remembers first-seen order for ties.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally { return &tally{counts: make(map[string]int)} }

func (t *tally) add(v string) {
	if v == "" {
		return
	}
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

// ranked returns keys by count desc, ties in first-seen order.
func (t *tally) ranked() []string {
	out := slices.Clone(t.order)
	slices.SortStableFunc(out, func(a, b string) int {
		return t.counts[b] - t.counts[a]
	})
	return out
}

// ForHistory recommends books from the patron's viewed ids, most recent
// first. Viewed books are not recommended again; ids not in the catalog
// are ignored.
func ForHistory(books []catalog.Book, viewedIDs []string) Recommendation {
	viewed := catalog.ByIDs(books, viewedIDs)
	if len(viewed) == 0 {
		return Recommendation{Books: newest(books, DefaultLimit), Fallback: true}
	}

	seen := make(map[string]bool, len(viewed))
	subjects, langs := newTally(), newTally()
	for _, b := range viewed {
		seen[b.ID] = true
		for _, s := range b.Subjects {
			subjects.add(s)
		}
		langs.add(b.Language)
	}

	var candidates []scored
	for _, b := range books {
		if seen[b.ID] {
			continue
		}
		score := 0
		for _, s := range b.Subjects {
			score += subjects.counts[s] * weightSubjectTally
		}
		score += langs.counts[b.Language] * weightLanguageTally
		if b.Available() {
			score += weightAvailable
		}
		if score > 0 {
			candidates = append(candidates, scored{b, score})
		}
	}

	reasons := subjects.ranked()
	reasons = reasons[:min(maxReasons, len(reasons))]

	if len(candidates) == 0 {
		return Recommendation{Books: newest(books, DefaultLimit), Reasons: reasons, Viewed: viewed, Fallback: true}
	}
	return Recommendation{
		Books:   top(candidates, DefaultLimit),
		Reasons: reasons,
		Viewed:  viewed,
	}
}

// newest returns up to limit books, newest publication year first.
func newest(books []catalog.Book, limit int) []catalog.Book {
	out := slices.Clone(books)
	slices.SortStableFunc(out, func(a, b catalog.Book) int { return b.Year - a.Year })
	return out[:min(limit, len(out))]
}
