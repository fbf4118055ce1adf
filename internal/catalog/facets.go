package catalog

import "time"

// FallbackMinYear is the lower year bound used when no book carries a year.
const FallbackMinYear = 1900

// Facets lists the filterable values present in a catalog.
type Facets struct {
	Libraries []string `json:"libraries"`
	Statuses  []Status `json:"statuses"`
	Languages []string `json:"languages"`
	Formats   []string `json:"formats"`
	Subjects  []string `json:"subjects"`
	MinYear   int      `json:"min_year"`
	MaxYear   int      `json:"max_year"`
}

// CollectFacets gathers distinct facet values in first-seen order. Books
// without a year do not contribute to the year bounds; an empty catalog
// spans FallbackMinYear to the current year.
func CollectFacets(books []Book) Facets {
	f := Facets{Statuses: append([]Status(nil), Statuses...)}
	libs := newOrderedSet()
	langs := newOrderedSet()
	formats := newOrderedSet()
	subjects := newOrderedSet()

	haveYear := false
	for _, b := range books {
		for _, a := range b.Availability {
			libs.add(a.Library)
		}
		langs.add(b.Language)
		formats.add(b.Format)
		for _, s := range b.Subjects {
			subjects.add(s)
		}
		if b.Year == 0 {
			continue
		}
		if !haveYear || b.Year < f.MinYear {
			f.MinYear = b.Year
		}
		if !haveYear || b.Year > f.MaxYear {
			f.MaxYear = b.Year
		}
		haveYear = true
	}
	if !haveYear {
		f.MinYear = FallbackMinYear
		f.MaxYear = time.Now().Year()
	}

	f.Libraries = libs.values
	f.Languages = langs.values
	f.Formats = formats.values
	f.Subjects = subjects.values
	return f
}

type orderedSet struct {
	seen   map[string]bool
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}
