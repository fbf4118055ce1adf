package app

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/blackwell-systems/opacctl/internal/assistant"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/config"
	"github.com/blackwell-systems/opacctl/internal/search"
)

// --- flag parsing ---

func TestYearRange(t *testing.T) {
	r, err := yearRange(0, 0)
	if err != nil || !r.IsZero() {
		t.Errorf("yearRange(0, 0) = %+v, %v; want open", r, err)
	}
	r, _ = yearRange(2008, 0)
	if r.Min != 2008 || r.Max != math.MaxInt {
		t.Errorf("min only = %+v", r)
	}
	r, _ = yearRange(0, 2011)
	if r.Min != math.MinInt || r.Max != 2011 {
		t.Errorf("max only = %+v", r)
	}
	if _, err := yearRange(2020, 2000); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestParseRow(t *testing.T) {
	row, err := parseRow("or:Author:東野圭吾")
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	if row.Op != search.OpOr || row.Field != search.FieldAuthor || row.Term != "東野圭吾" {
		t.Errorf("row = %+v", row)
	}

	row, err = parseRow("NOT:title:a:b")
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	if row.Term != "a:b" {
		t.Errorf("term = %q, want %q", row.Term, "a:b")
	}

	for _, bad := range []string{"title:x", "XOR:title:x", "AND:shelf:x"} {
		if _, err := parseRow(bad); err == nil {
			t.Errorf("parseRow(%q): expected error", bad)
		}
	}
}

func TestRowFlags_Query(t *testing.T) {
	var r rowFlags
	cmd := &cobra.Command{Use: "x"}
	r.register(cmd)
	if err := cmd.ParseFlags([]string{
		"--row", "NOT:subject:科幻",
		"--author", "劉慈欣",
		"--title", "三體",
		"--mode", "exact",
	}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	q, err := r.query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Mode != search.ModeExact {
		t.Errorf("mode = %q", q.Mode)
	}
	// field flags in field order, then --row
	want := []search.Field{search.FieldTitle, search.FieldAuthor, search.FieldSubject}
	if len(q.Rows) != len(want) {
		t.Fatalf("rows = %+v", q.Rows)
	}
	for i, f := range want {
		if q.Rows[i].Field != f {
			t.Errorf("row %d field = %q, want %q", i, q.Rows[i].Field, f)
		}
	}
	if q.Rows[2].Op != search.OpNot {
		t.Errorf("last op = %q, want NOT", q.Rows[2].Op)
	}
}

func TestFilterFlags_Request(t *testing.T) {
	cfg = &config.Config{Display: config.DisplayConfig{Layout: "list", Locale: "zh-Hant"}}
	t.Cleanup(func() { cfg = nil })

	f := filterFlags{
		libraries: []string{"吉安分館"},
		statuses:  []string{"available"},
		yearMin:   2000,
		sort:      "year",
		page:      2,
	}
	req, err := f.request(search.Simple{Text: "x"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.PageSize != 10 {
		t.Errorf("page size = %d, want list layout 10", req.PageSize)
	}
	if req.Sort != search.SortYear || req.Page != 2 {
		t.Errorf("sort/page = %q/%d", req.Sort, req.Page)
	}
	if !req.Filters.Libraries.Has("吉安分館") || !req.Filters.Statuses.Has(catalog.StatusAvailable) {
		t.Errorf("filters = %+v", req.Filters)
	}
	if req.Filters.Years.Max != math.MaxInt {
		t.Errorf("years = %+v", req.Filters.Years)
	}

	f.layout = "grid"
	if req, _ = f.request(search.Simple{}); req.PageSize != 8 {
		t.Errorf("--layout grid page size = %d", req.PageSize)
	}
	f.sort = "title"
	if _, err := f.request(search.Simple{}); err == nil {
		t.Error("expected error for unknown sort")
	}
	f.sort = "year"
	f.statuses = []string{"lost"}
	if _, err := f.request(search.Simple{}); err == nil {
		t.Error("expected error for unknown status")
	}
}

// --- helpers ---

func TestBookCompletions(t *testing.T) {
	got := bookCompletions(catalog.Seed(), "bk-00")
	if len(got) != len(catalog.Seed()) {
		t.Fatalf("completions = %v", got)
	}
	if !strings.HasPrefix(got[2], "bk-003\t") || !strings.Contains(got[2], "三體") {
		t.Errorf("completion = %q", got[2])
	}
	if got := bookCompletions(catalog.Seed(), "zz"); len(got) != 0 {
		t.Errorf("unexpected completions %v", got)
	}
}

func TestConverse(t *testing.T) {
	bot := assistant.New(catalog.Seed())
	in := bufio.NewReader(strings.NewReader("我想找三體\nexit\n我想找村上春樹\n"))
	var out bytes.Buffer

	if err := converse(bot, in, &out); err != nil {
		t.Fatalf("converse: %v", err)
	}
	if !strings.Contains(out.String(), "《三體》") {
		t.Errorf("output:\n%s", out.String())
	}
	// exit stops before the third question
	if n := len(bot.Transcript()); n != 2 {
		t.Errorf("transcript has %d messages, want 2", n)
	}
}

// --- commands ---

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command offline against a fresh session dir and
// returns what it printed to stdout.
func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	t.Setenv("OPACCTL_SESSION_DIR", filepath.Join(dir, "session"))
	t.Setenv("OPACCTL_SESSION_BACKEND", "file")
	resetFlags(rootCmd)
	t.Cleanup(func() { cfg, sess, client = nil, nil, nil })

	rootCmd.SetArgs(append(args, "--offline", "--no-color", "--config", filepath.Join(dir, "config.yml")))

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	runErr := rootCmd.Execute()
	w.Close()
	os.Stdout = stdout

	out, _ := io.ReadAll(r)
	if runErr != nil {
		t.Fatalf("opacctl %v: %v\n%s", args, runErr, out)
	}
	return string(out)
}

func resultIDs(t *testing.T, out string) []string {
	t.Helper()
	var res searchOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	ids := make([]string, len(res.Items))
	for i, b := range res.Items {
		ids[i] = b.ID
	}
	return ids
}

func TestSearchCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	ids := resultIDs(t, execute(t, dir, "search", "三體", "--json"))
	if len(ids) != 1 || ids[0] != "bk-003" {
		t.Errorf("三體 = %v, want [bk-003]", ids)
	}

	ids = resultIDs(t, execute(t, dir, "search", "--year-min", "2008", "--year-max", "2011", "--json"))
	sort.Strings(ids)
	if strings.Join(ids, ",") != "bk-002,bk-003,bk-004" {
		t.Errorf("years 2008-2011 = %v", ids)
	}
}

func TestAdvancedCmd_JSON(t *testing.T) {
	ids := resultIDs(t, execute(t, t.TempDir(), "advanced", "--subject", "科幻", "--json"))
	if len(ids) != 1 || ids[0] != "bk-003" {
		t.Errorf("subject 科幻 = %v, want [bk-003]", ids)
	}
}

func TestShowRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, dir, "show", "bk-005", "--json")
	var b catalog.Book
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decoding show: %v", err)
	}
	if b.ID != "bk-005" {
		t.Errorf("show returned %q", b.ID)
	}

	out = execute(t, dir, "history", "--json")
	var viewed []catalog.Book
	if err := json.Unmarshal([]byte(out), &viewed); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(viewed) != 1 || viewed[0].ID != "bk-005" {
		t.Errorf("history = %+v", viewed)
	}

	execute(t, dir, "history", "--clear")
	if out := execute(t, dir, "history"); !strings.Contains(out, "No books viewed yet.") {
		t.Errorf("history after clear:\n%s", out)
	}
}
