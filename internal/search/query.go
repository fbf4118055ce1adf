package search

import (
	"fmt"
	"strings"
)

// Field selects which part of a record a structured row is matched against.
type Field string

const (
	FieldAny     Field = "any"
	FieldTitle   Field = "title"
	FieldAuthor  Field = "author"
	FieldSubject Field = "subject"
	FieldISBN    Field = "isbn"
)

// Fields lists every selector in form order.
var Fields = []Field{FieldAny, FieldTitle, FieldAuthor, FieldSubject, FieldISBN}

// ParseField converts a user-supplied selector name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FieldAny, nil
	}
	if _, ok := extractors[f]; !ok {
		return "", fmt.Errorf("unknown field %q (want any, title, author, subject or isbn)", s)
	}
	return f, nil
}

// Op joins a row onto the rows before it.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
	OpNot Op = "NOT"
)

// ParseOp converts a user-supplied operator; empty means AND.
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToUpper(strings.TrimSpace(s))); op {
	case "":
		return OpAnd, nil
	case OpAnd, OpOr, OpNot:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operator %q (want AND, OR or NOT)", s)
	}
}

// MatchMode decides how the words of a multi-word term must appear.
type MatchMode string

const (
	// ModeAll requires every word of the term to be contained.
	ModeAll MatchMode = "all"
	// ModeExact requires the whole trimmed term as one substring.
	ModeExact MatchMode = "exact"
	// ModeAny requires at least one word of the term.
	ModeAny MatchMode = "any"
)

// ParseMatchMode converts a user-supplied mode; empty means ModeAll.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeExact, ModeAny:
		return m, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want all, exact or any)", s)
	}
}

// Row is one line of an advanced query.
type Row struct {
	Field Field  `json:"field"`
	Term  string `json:"term"`
	Op    Op     `json:"op,omitempty"` // ignored on the first row
}

// Query is either a Simple free-text query or a Structured row query.
type Query interface {
	// Tokens returns the lowercase words used for relevance ranking.
	Tokens() []string
	String() string
	isQuery()
}

// Simple is a free-text query from the search bar or a topic shortcut.
type Simple struct {
	Text string
}

func (Simple) isQuery() {}

func (q Simple) Tokens() []string { return Tokenize(q.Text) }

func (q Simple) String() string { return q.Text }

// Structured is an advanced query. Callers must supply at least one row;
// NewStructured normalizes an empty form to a single match-all row.
type Structured struct {
	Rows []Row
	Mode MatchMode
}

func (Structured) isQuery() {}

// NewStructured drops rows with blank terms and guarantees one row remains.
func NewStructured(rows []Row, mode MatchMode) Structured {
	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Term) == "" {
			continue
		}
		if r.Field == "" {
			r.Field = FieldAny
		}
		if r.Op == "" {
			r.Op = OpAnd
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		kept = []Row{{Field: FieldAny, Op: OpAnd}}
	}
	if mode == "" {
		mode = ModeAll
	}
	return Structured{Rows: kept, Mode: mode}
}

func (q Structured) Tokens() []string {
	terms := make([]string, len(q.Rows))
	for i, r := range q.Rows {
		terms[i] = r.Term
	}
	return Tokenize(strings.Join(terms, " "))
}

func (q Structured) String() string {
	var sb strings.Builder
	for i, r := range q.Rows {
		if i > 0 {
			sb.WriteString(" " + string(r.Op) + " ")
		}
		fmt.Fprintf(&sb, "%s:%q", r.Field, r.Term)
	}
	return sb.String()
}

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
