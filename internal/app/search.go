package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type searchOutput struct {
	Query      string         `json:"query"`
	Sort       search.SortKey `json:"sort"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Items      []catalog.Book `json:"items"`
}

// filterFlags are the facet, sort and paging flags shared by search and
// advanced.
type filterFlags struct {
	libraries []string
	statuses  []string
	languages []string
	formats   []string
	topics    []string
	yearMin   int
	yearMax   int
	sort      string
	layout    string
	page      int
	jsonOut   bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.libraries, "lib", nil, "Only books held at these branches")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "Only copies in these states (available, on-shelf, on-hold, checked-out)")
	cmd.Flags().StringSliceVar(&f.languages, "lang", nil, "Only these languages")
	cmd.Flags().StringSliceVar(&f.formats, "format", nil, "Only these material types")
	cmd.Flags().StringSliceVar(&f.topics, "topic", nil, "Only books tagged with these subjects")
	cmd.Flags().IntVar(&f.yearMin, "year-min", 0, "Earliest publication year")
	cmd.Flags().IntVar(&f.yearMax, "year-max", 0, "Latest publication year")
	cmd.Flags().StringVar(&f.sort, "sort", "relevance", "Sort by relevance, year or available")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Page size preset: grid (8) or list (10); defaults to display.layout")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Output as JSON")
}

// yearRange turns the year flags into a window. A single bound leaves the
// other side open.
func yearRange(lo, hi int) (search.YearRange, error) {
	switch {
	case lo != 0 && hi != 0 && lo > hi:
		return search.YearRange{}, fmt.Errorf("--year-min %d is after --year-max %d", lo, hi)
	case lo != 0 && hi == 0:
		return search.YearRange{Min: lo, Max: math.MaxInt}, nil
	case lo == 0 && hi != 0:
		return search.YearRange{Min: math.MinInt, Max: hi}, nil
	default:
		return search.YearRange{Min: lo, Max: hi}, nil
	}
}

func (f filterFlags) request(q search.Query) (search.Request, error) {
	req := search.Request{Query: q, Page: f.page, Locale: cfg.Display.Language()}

	statuses := make([]catalog.Status, 0, len(f.statuses))
	for _, s := range f.statuses {
		st, err := catalog.ParseStatus(s)
		if err != nil {
			return req, err
		}
		statuses = append(statuses, st)
	}
	years, err := yearRange(f.yearMin, f.yearMax)
	if err != nil {
		return req, err
	}
	req.Filters = search.Filters{
		Libraries: search.NewSet(f.libraries...),
		Statuses:  search.NewSet(statuses...),
		Languages: search.NewSet(f.languages...),
		Formats:   search.NewSet(f.formats...),
		Subjects:  search.NewSet(f.topics...),
		Years:     years,
	}

	if req.Sort, err = search.ParseSortKey(f.sort); err != nil {
		return req, err
	}
	layout := cfg.Display.ParsedLayout()
	if f.layout != "" {
		if layout, err = search.ParseLayout(f.layout); err != nil {
			return req, err
		}
	}
	req.PageSize = layout.PageSize()
	return req, nil
}

// runSearch executes req against the session catalog and prints one page.
func runSearch(cmd *cobra.Command, f filterFlags, q search.Query) error {
	req, err := f.request(q)
	if err != nil {
		return err
	}
	books, err := loadBooks(cmd.Context())
	if err != nil {
		return err
	}
	res := search.Search(books, req)
	if p := search.Clamp(req.Page, res.TotalPages); p != req.Page {
		req.Page = p
		res = search.Search(books, req)
	}

	if f.jsonOut {
		return printJSON(searchOutput{
			Query:      q.String(),
			Sort:       req.Sort,
			Total:      res.Total,
			Page:       res.Page,
			TotalPages: res.TotalPages,
			Items:      res.Items,
		})
	}

	label := q.String()
	if label == "" {
		label = "all books"
	}
	header("── %s  (%d result(s), sorted by %s)", label, res.Total, req.Sort)
	if res.Total == 0 {
		fmt.Println("No books found.")
		return nil
	}
	printBooks(res.Items)
	if res.TotalPages > 1 {
		fmt.Printf("\npage %d/%d", res.Page, res.TotalPages)
		if res.Page < res.TotalPages {
			fmt.Print(color.HiBlackString("  (--page %d for more)", res.Page+1))
		}
		fmt.Println()
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Keyword search across title, author, subjects and ISBN",
		Long: `Search the union catalog with a free-text query. Every word must appear
somewhere in the record (case-insensitive). With no query every book is
listed, narrowed by the facet flags.

Examples:
  opacctl search 三體
  opacctl search "little prince" --status available
  opacctl search --topic 科幻 --year-min 2000 --sort year
  opacctl search 村上 --lib 吉安分館 --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, f, search.Simple{Text: strings.Join(args, " ")})
		},
	}
	f.register(cmd)
	return cmd
}

// rowFlags collect the structured query of the advanced command.
type rowFlags struct {
	byField map[search.Field]*[]string
	rows    []string
	mode    string
}

func (r *rowFlags) register(cmd *cobra.Command) {
	r.byField = make(map[search.Field]*[]string, len(search.Fields))
	for _, field := range search.Fields {
		terms := new([]string)
		r.byField[field] = terms
		cmd.Flags().StringArrayVar(terms, string(field), nil, fmt.Sprintf("AND a row matching %s", field))
	}
	cmd.Flags().StringArrayVar(&r.rows, "row", nil, "Row as OP:field:term, e.g. OR:author:東野圭吾 or NOT:subject:科幻")
	cmd.Flags().StringVar(&r.mode, "mode", "all", "Term match mode: all, exact or any")
}

// query builds the rows: per-field flags first (ANDed, in field order),
// then --row values in the order given.
func (r rowFlags) query() (search.Structured, error) {
	var rows []search.Row
	for _, field := range search.Fields {
		for _, term := range *r.byField[field] {
			rows = append(rows, search.Row{Field: field, Term: term, Op: search.OpAnd})
		}
	}
	for _, raw := range r.rows {
		row, err := parseRow(raw)
		if err != nil {
			return search.Structured{}, err
		}
		rows = append(rows, row)
	}
	mode, err := search.ParseMatchMode(r.mode)
	if err != nil {
		return search.Structured{}, err
	}
	return search.NewStructured(rows, mode), nil
}

// parseRow reads OP:field:term. The term may itself contain colons.
func parseRow(raw string) (search.Row, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return search.Row{}, fmt.Errorf("row %q: want OP:field:term", raw)
	}
	op, err := search.ParseOp(parts[0])
	if err != nil {
		return search.Row{}, fmt.Errorf("row %q: %w", raw, err)
	}
	field, err := search.ParseField(parts[1])
	if err != nil {
		return search.Row{}, fmt.Errorf("row %q: %w", raw, err)
	}
	return search.Row{Field: field, Term: parts[2], Op: op}, nil
}

func newAdvancedCmd() *cobra.Command {
	var (
		f filterFlags
		r rowFlags
	)

	cmd := &cobra.Command{
		Use:   "advanced",
		Short: "Field search combined with AND / OR / NOT",
		Long: `Advanced search builds a list of rows, each matching one field. Rows
combine strictly left to right: ((row1 op2 row2) op3 row3) ...
The operator of the first row is ignored.

Examples:
  opacctl advanced --author 東野圭吾
  opacctl advanced --title 森林 --row OR:author:劉慈欣
  opacctl advanced --any 小說 --row NOT:subject:科幻 --mode any
  opacctl advanced --title "clean code" --mode exact --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := r.query()
			if err != nil {
				return err
			}
			return runSearch(cmd, f, q)
		},
	}
	r.register(cmd)
	f.register(cmd)
	return cmd
}
