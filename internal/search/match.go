package search

import (
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// extractors maps every Field to the text it searches. FieldAny spans
// title, author, subjects, isbn and description.
var extractors = map[Field]func(catalog.Book) string{
	FieldAny: func(b catalog.Book) string {
		return strings.Join([]string{
			b.Title,
			b.Author,
			strings.Join(b.Subjects, " "),
			b.ISBN,
			b.Description,
		}, " ")
	},
	FieldTitle:   func(b catalog.Book) string { return b.Title },
	FieldAuthor:  func(b catalog.Book) string { return b.Author },
	FieldSubject: func(b catalog.Book) string { return strings.Join(b.Subjects, " ") },
	FieldISBN:    func(b catalog.Book) string { return b.ISBN },
}

// FieldText returns the searchable text of b for field. Unknown fields
// search everything.
func FieldText(b catalog.Book, field Field) string {
	if fn, ok := extractors[field]; ok {
		return fn(b)
	}
	return extractors[FieldAny](b)
}

// MatchTerm reports whether term occurs in text, case-insensitively.
// A blank term always matches.
func MatchTerm(text, term string, mode MatchMode) bool {
	t := strings.ToLower(text)
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return true
	}
	switch mode {
	case ModeExact:
		return strings.Contains(t, q)
	case ModeAny:
		for _, p := range strings.Fields(q) {
			if strings.Contains(t, p) {
				return true
			}
		}
		return false
	default:
		for _, p := range strings.Fields(q) {
			if !strings.Contains(t, p) {
				return false
			}
		}
		return true
	}
}

// MatchRow evaluates a single row against b.
func MatchRow(b catalog.Book, r Row, mode MatchMode) bool {
	return MatchTerm(FieldText(b, r.Field), r.Term, mode)
}

// Matches reports whether b satisfies q. Structured rows are folded
// strictly left to right: NOT negates only its own row.
func Matches(b catalog.Book, q Query) bool {
	switch q := q.(type) {
	case nil:
		return true
	case Simple:
		tokens := q.Tokens()
		return len(tokens) == 0 || Score(b, tokens) > 0
	case Structured:
		if len(q.Rows) == 0 {
			return true
		}
		acc := MatchRow(b, q.Rows[0], q.Mode)
		for _, r := range q.Rows[1:] {
			m := MatchRow(b, r, q.Mode)
			switch r.Op {
			case OpOr:
				acc = acc || m
			case OpNot:
				acc = acc && !m
			default:
				acc = acc && m
			}
		}
		return acc
	default:
		panic("search: unhandled query type")
	}
}
