package search

import (
	"sort"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// Set is a facet selection. An empty Set places no constraint.
type Set[T comparable] map[T]struct{}

// NewSet builds a set from values, ignoring zero values.
func NewSet[T comparable](values ...T) Set[T] {
	var zero T
	s := make(Set[T], len(values))
	for _, v := range values {
		if v != zero {
			s[v] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Toggle adds v if absent and removes it otherwise.
func (s Set[T]) Toggle(v T) {
	if s.Has(v) {
		delete(s, v)
		return
	}
	s[v] = struct{}{}
}

// YearRange is an inclusive publication-year window. The zero value is
// unbounded.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IsZero reports whether the range is unset.
func (r YearRange) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Contains reports whether year lies in the window.
func (r YearRange) Contains(year int) bool {
	if r.IsZero() {
		return true
	}
	return year >= r.Min && year <= r.Max
}

// Filters is the facet panel state.
type Filters struct {
	Libraries Set[string]
	Statuses  Set[catalog.Status]
	Languages Set[string]
	Formats   Set[string]
	Subjects  Set[string]
	Years     YearRange
}

// DefaultFilters returns open facets with the year window spanning the
// catalog, as the results page starts out.
func DefaultFilters(books []catalog.Book) Filters {
	f := catalog.CollectFacets(books)
	return Filters{Years: YearRange{Min: f.MinYear, Max: f.MaxYear}}
}

// Allows reports whether b passes every facet.
func (f Filters) Allows(b catalog.Book) bool {
	if len(f.Libraries) > 0 && !anyAvailability(b, func(a catalog.Availability) bool { return f.Libraries.Has(a.Library) }) {
		return false
	}
	if len(f.Statuses) > 0 && !anyAvailability(b, func(a catalog.Availability) bool { return f.Statuses.Has(a.Status) }) {
		return false
	}
	if len(f.Languages) > 0 && !f.Languages.Has(b.Language) {
		return false
	}
	if len(f.Formats) > 0 && !f.Formats.Has(b.Format) {
		return false
	}
	if len(f.Subjects) > 0 {
		found := false
		for _, s := range b.Subjects {
			if f.Subjects.Has(s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return f.Years.Contains(b.Year)
}

// Active counts facets that currently constrain results. The year window
// counts when it is narrower than bounds.
func (f Filters) Active(bounds YearRange) int {
	n := 0
	for _, l := range []int{len(f.Libraries), len(f.Statuses), len(f.Languages), len(f.Formats), len(f.Subjects)} {
		if l > 0 {
			n++
		}
	}
	if !f.Years.IsZero() && (f.Years.Min > bounds.Min || f.Years.Max < bounds.Max) {
		n++
	}
	return n
}

// Sorted returns the members of s in ascending order, for stable display.
func Sorted(s Set[string]) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func anyAvailability(b catalog.Book, pred func(catalog.Availability) bool) bool {
	for _, a := range b.Availability {
		if pred(a) {
			return true
		}
	}
	return false
}
