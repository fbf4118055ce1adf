package recommend_test

import (
	"fmt"
	"testing"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/recommend"
)

func ids(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func wantIDs(t *testing.T, got []catalog.Book, want ...string) {
	t.Helper()
	g := ids(got)
	if fmt.Sprint(g) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
}

func seedBook(id string) catalog.Book {
	return *catalog.ByID(catalog.Seed(), id)
}

// --- Similarity ---

func TestSimilarity_Weights(t *testing.T) {
	ref := catalog.Book{Author: "A", Subjects: []string{"x", "y"}, Language: "en"}
	cand := catalog.Book{
		Author:       "A",
		Subjects:     []string{"y", "x", "z"},
		Language:     "en",
		Availability: []catalog.Availability{{Library: "L", Status: catalog.StatusOnShelf}},
	}
	// author 5 + two shared subjects 6 + language 1 + available 1
	if got := recommend.Similarity(ref, cand); got != 13 {
		t.Errorf("Similarity = %d, want 13", got)
	}
	if got := recommend.Similarity(catalog.Book{}, catalog.Book{}); got != 0 {
		t.Errorf("empty books should not match on blank author, got %d", got)
	}
}

// --- Similar ---

func TestSimilar_ExcludesReference(t *testing.T) {
	books := catalog.Seed()
	for _, ref := range books {
		for _, b := range recommend.Similar(ref, books, 8) {
			if b.ID == ref.ID {
				t.Errorf("%s recommended as similar to itself", ref.ID)
			}
		}
	}
}

func TestSimilar_RanksScoreThenYear(t *testing.T) {
	got := recommend.Similar(seedBook("bk-003"), catalog.Seed(), 8)
	wantIDs(t, got, "bk-002", "bk-005", "bk-001", "bk-004")
}

func TestSimilar_Limit(t *testing.T) {
	got := recommend.Similar(seedBook("bk-003"), catalog.Seed(), 2)
	wantIDs(t, got, "bk-002", "bk-005")
	if got := recommend.Similar(seedBook("bk-003"), catalog.Seed(), 0); len(got) != 4 {
		t.Errorf("limit 0 should use the default, got %d", len(got))
	}
}

func TestSimilar_FallbackKeepsCatalogOrder(t *testing.T) {
	books := []catalog.Book{
		{ID: "ref", Author: "R", Language: "en"},
		{ID: "c", Year: 2020},
		{ID: "a", Year: 1990},
		{ID: "b", Year: 2000},
	}
	got := recommend.Similar(books[0], books, 2)
	wantIDs(t, got, "c", "a")
}

func TestSimilar_EmptyPool(t *testing.T) {
	books := catalog.Seed()[:1]
	if got := recommend.Similar(books[0], books, 8); len(got) != 0 {
		t.Errorf("got %v, want none", ids(got))
	}
}

// --- ForHistory ---

func TestForHistory_NoHistory(t *testing.T) {
	rec := recommend.ForHistory(catalog.Seed(), nil)
	if !rec.Fallback {
		t.Error("empty history should fall back")
	}
	wantIDs(t, rec.Books, "bk-002", "bk-003", "bk-004", "bk-005", "bk-001")
	if len(rec.Reasons) != 0 || len(rec.Viewed) != 0 {
		t.Errorf("fallback carries reasons %v viewed %v", rec.Reasons, ids(rec.Viewed))
	}
}

func TestForHistory_UnknownIDs(t *testing.T) {
	rec := recommend.ForHistory(catalog.Seed(), []string{"bk-999"})
	if !rec.Fallback {
		t.Error("history of unknown ids should fall back")
	}
}

func TestForHistory_SingleView(t *testing.T) {
	rec := recommend.ForHistory(catalog.Seed(), []string{"bk-003"})
	if rec.Fallback {
		t.Fatal("unexpected fallback")
	}
	wantIDs(t, rec.Books, "bk-002", "bk-005", "bk-001", "bk-004")
	if fmt.Sprint(rec.Reasons) != "[科幻 宇宙]" {
		t.Errorf("Reasons = %v", rec.Reasons)
	}
	wantIDs(t, rec.Viewed, "bk-003")
}

func TestForHistory_TalliesAcrossViews(t *testing.T) {
	rec := recommend.ForHistory(catalog.Seed(), []string{"bk-005", "bk-001"})
	wantIDs(t, rec.Books, "bk-002", "bk-003", "bk-004")
	if fmt.Sprint(rec.Reasons) != "[文學 青春 童話]" {
		t.Errorf("Reasons = %v, want top three in first-seen order", rec.Reasons)
	}
	wantIDs(t, rec.Viewed, "bk-005", "bk-001")
}

func TestForHistory_ReasonsByFrequency(t *testing.T) {
	books := []catalog.Book{
		{ID: "v1", Subjects: []string{"a", "b"}},
		{ID: "v2", Subjects: []string{"b", "c"}},
		{ID: "v3", Subjects: []string{"c", "b", "d"}},
		{ID: "x", Subjects: []string{"d"}},
	}
	rec := recommend.ForHistory(books, []string{"v1", "v2", "v3"})
	if fmt.Sprint(rec.Reasons) != "[b c a]" {
		t.Errorf("Reasons = %v, want [b c a]", rec.Reasons)
	}
	wantIDs(t, rec.Books, "x")
}

func TestForHistory_Cap(t *testing.T) {
	books := make([]catalog.Book, 12)
	for i := range books {
		books[i] = catalog.Book{ID: fmt.Sprintf("b%02d", i), Subjects: []string{"s"}, Year: 2000 + i}
	}
	rec := recommend.ForHistory(books, []string{"b00"})
	if len(rec.Books) != recommend.DefaultLimit {
		t.Fatalf("got %d books, want %d", len(rec.Books), recommend.DefaultLimit)
	}
	if rec.Books[0].ID != "b11" {
		t.Errorf("equal scores should rank newest first, got %s", rec.Books[0].ID)
	}
}
