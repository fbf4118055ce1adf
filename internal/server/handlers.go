package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/blackwell-systems/opacctl/internal/assistant"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/recommend"
	"github.com/blackwell-systems/opacctl/internal/search"
)

// pageResponse is one page of search results.
type pageResponse struct {
	Items      []catalog.Book `json:"items"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "books": len(s.books)})
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	req.Locale = s.locale
	res := search.Search(s.books, req)
	s.respondJSON(w, http.StatusOK, pageResponse{
		Items:      res.Items,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   res.PageSize,
	})
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	b := catalog.ByID(s.books, chi.URLParam(r, "id"))
	if b == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "no such book")
		return
	}
	s.respondJSON(w, http.StatusOK, b)
}

func (s *Server) similar(w http.ResponseWriter, r *http.Request) {
	b := catalog.ByID(s.books, chi.URLParam(r, "id"))
	if b == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "no such book")
		return
	}
	limit, err := intParam(r.URL.Query(), "limit", recommend.DefaultLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, recommend.Similar(*b, s.books, limit))
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, recommend.ForHistory(s.books, splitList(r.URL.Query()["viewed"])))
}

func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.facets)
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_BODY", "expected {\"question\": \"...\"}")
		return
	}
	s.respondJSON(w, http.StatusOK, assistant.New(s.books).Ask(body.Question))
}

// ParseRequest builds a search request from query parameters:
//
//	q                          simple free text
//	any, title, author,        structured rows, ANDed in parameter order
//	subject, isbn
//	row=OP:field:term          structured row with an explicit operator
//	mode                       all | exact | any
//	lib, status, lang,         facet filters, comma separated or repeated
//	format, topic
//	year_min, year_max         inclusive year window
//	sort                       relevance | year | available
//	page, layout, page_size    pagination
func ParseRequest(v url.Values) (search.Request, error) {
	var req search.Request

	rows, err := parseRows(v)
	if err != nil {
		return req, err
	}
	if len(rows) > 0 {
		mode, err := search.ParseMatchMode(v.Get("mode"))
		if err != nil {
			return req, err
		}
		req.Query = search.NewStructured(rows, mode)
	} else {
		req.Query = search.Simple{Text: v.Get("q")}
	}

	req.Filters = search.Filters{
		Libraries: search.NewSet(splitList(v["lib"])...),
		Languages: search.NewSet(splitList(v["lang"])...),
		Formats:   search.NewSet(splitList(v["format"])...),
		Subjects:  search.NewSet(splitList(v["topic"])...),
	}
	statuses := make([]catalog.Status, 0)
	for _, raw := range splitList(v["status"]) {
		st, err := catalog.ParseStatus(raw)
		if err != nil {
			return req, err
		}
		statuses = append(statuses, st)
	}
	req.Filters.Statuses = search.NewSet(statuses...)

	if req.Filters.Years.Min, err = intParam(v, "year_min", 0); err != nil {
		return req, err
	}
	if req.Filters.Years.Max, err = intParam(v, "year_max", 0); err != nil {
		return req, err
	}
	if req.Filters.Years.Min != 0 && req.Filters.Years.Max == 0 {
		req.Filters.Years.Max = int(^uint(0) >> 1)
	}

	if req.Sort, err = search.ParseSortKey(v.Get("sort")); err != nil {
		return req, err
	}
	if req.Page, err = intParam(v, "page", 1); err != nil {
		return req, err
	}
	layout, err := search.ParseLayout(v.Get("layout"))
	if err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(v, "page_size", layout.PageSize()); err != nil {
		return req, err
	}
	return req, nil
}

func parseRows(v url.Values) ([]search.Row, error) {
	var rows []search.Row
	for _, f := range search.Fields {
		for _, term := range v[string(f)] {
			rows = append(rows, search.Row{Field: f, Term: term, Op: search.OpAnd})
		}
	}
	for _, raw := range v["row"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("row %q: want OP:field:term", raw)
		}
		op, err := search.ParseOp(parts[0])
		if err != nil {
			return nil, err
		}
		field, err := search.ParseField(parts[1])
		if err != nil {
			return nil, err
		}
		rows = append(rows, search.Row{Field: field, Term: parts[2], Op: op})
	}
	return rows, nil
}

func intParam(v url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, s)
	}
	return n, nil
}

// splitList flattens repeated and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
