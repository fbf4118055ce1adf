package session_test

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/session"
)

func stores(t *testing.T) map[string]session.Store {
	t.Helper()
	b, err := session.OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return map[string]session.Store{
		"file":   session.NewFileStore(t.TempDir()),
		"badger": b,
		"memory": session.NewMemoryStore(),
	}
}

// --- Store contract ---

func TestStore_GetSetDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("k"); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
			}
			if err := s.Set("k", []byte("v1")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set("k", []byte("v2")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := s.Get("k")
			if err != nil || string(got) != "v2" {
				t.Fatalf("Get = %q, %v", got, err)
			}
			if err := s.Delete("k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete("k"); err != nil {
				t.Fatalf("Delete twice: %v", err)
			}
			if _, err := s.Get("k"); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("Get after delete: err = %v", err)
			}
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	if err := session.NewFileStore(dir).Set(session.KeyViews, []byte(`["bk-001"]`)); err != nil {
		t.Fatal(err)
	}
	s := session.New(session.NewFileStore(dir))
	if got := s.Views(); len(got) != 1 || got[0] != "bk-001" {
		t.Errorf("Views = %v", got)
	}
	if _, err := os.Stat(session.NewFileStore(dir).Path(session.KeyViews)); err != nil {
		t.Errorf("backing file missing: %v", err)
	}
}

func TestBadgerStore_InMemory(t *testing.T) {
	b, err := session.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer b.Close()
	if err := b.Set("x", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if v, err := b.Get("x"); err != nil || string(v) != "1" {
		t.Errorf("Get = %q, %v", v, err)
	}
}

func TestOpen_Backends(t *testing.T) {
	for _, backend := range []session.Backend{"", session.BackendFile, session.BackendMemory} {
		s, err := session.Open(backend, t.TempDir())
		if err != nil {
			t.Errorf("Open(%q): %v", backend, err)
			continue
		}
		_ = s.Close()
	}
	if _, err := session.Open("redis", t.TempDir()); err == nil {
		t.Error("unknown backend should error")
	}
}

// --- Typed access ---

func TestRead_FallsBackToDefault(t *testing.T) {
	s := session.NewMemoryStore()
	if got := session.Read(s, "missing", 7); got != 7 {
		t.Errorf("missing key = %d, want default", got)
	}
	_ = s.Set("bad", []byte("{not json"))
	if got := session.Read(s, "bad", []string{"d"}); len(got) != 1 || got[0] != "d" {
		t.Errorf("corrupt value = %v, want default", got)
	}
	if err := session.Write(s, "n", 42); err != nil {
		t.Fatal(err)
	}
	if got := session.Read(s, "n", 0); got != 42 {
		t.Errorf("Read = %d, want 42", got)
	}
}

// --- View history ---

func TestPushView_DedupesMostRecentFirst(t *testing.T) {
	views := []string{}
	for _, id := range []string{"a", "b", "c", "a"} {
		views = session.PushView(views, id)
	}
	if fmt.Sprint(views) != "[a c b]" {
		t.Errorf("views = %v, want [a c b]", views)
	}
	if got := session.PushView(views, ""); len(got) != 3 {
		t.Errorf("blank id should be ignored, got %v", got)
	}
}

func TestPushView_Cap(t *testing.T) {
	var views []string
	for i := 0; i < 60; i++ {
		views = session.PushView(views, fmt.Sprintf("b%02d", i))
	}
	if len(views) != session.MaxViews {
		t.Fatalf("len = %d, want %d", len(views), session.MaxViews)
	}
	if views[0] != "b59" || views[len(views)-1] != "b10" {
		t.Errorf("views span %s..%s", views[0], views[len(views)-1])
	}
}

func TestRecordView_Persists(t *testing.T) {
	s := session.New(session.NewMemoryStore())
	if _, err := s.RecordView("bk-001"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordView("bk-003"); err != nil {
		t.Fatal(err)
	}
	if got := s.Views(); fmt.Sprint(got) != "[bk-003 bk-001]" {
		t.Errorf("Views = %v", got)
	}
	if err := s.ClearViews(); err != nil {
		t.Fatal(err)
	}
	if len(s.Views()) != 0 {
		t.Error("ClearViews left history behind")
	}
}

// --- Catalog cache ---

func TestCatalogCache(t *testing.T) {
	s := session.New(session.NewMemoryStore())
	if s.CachedBooks() != nil {
		t.Error("empty store should have no cached books")
	}
	if err := s.CacheBooks(catalog.Seed()); err != nil {
		t.Fatal(err)
	}
	got := s.CachedBooks()
	if len(got) != 5 || got[2].Title != "三體" {
		t.Fatalf("cached = %d books", len(got))
	}
	if got[0].Availability[1].Status != catalog.StatusOnHold {
		t.Errorf("status round trip = %q", got[0].Availability[1].Status)
	}

	var _ catalog.Cache = s
}

// --- User ---

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "reader@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestUser_LoginLogout(t *testing.T) {
	s := session.New(session.NewMemoryStore())
	if _, ok := s.User(); ok {
		t.Fatal("fresh session should be signed out")
	}
	u := session.NewMember("reader@example.com", token(t, time.Now().Add(time.Hour)))
	if err := s.SetUser(u); err != nil {
		t.Fatal(err)
	}
	got, ok := s.User()
	if !ok || got.Email != u.Email || len(got.Roles) != 1 || got.Roles[0] != session.RoleMember {
		t.Fatalf("User = %+v, %v", got, ok)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.User(); ok {
		t.Error("still signed in after Logout")
	}
}

func TestUser_ExpiredTokenSignsOut(t *testing.T) {
	store := session.NewMemoryStore()
	s := session.New(store)
	_ = s.SetUser(session.NewMember("reader@example.com", token(t, time.Now().Add(-time.Minute))))
	if _, ok := s.User(); ok {
		t.Fatal("expired token should read as signed out")
	}
	if _, err := store.Get(session.KeyUser); !errors.Is(err, session.ErrNotFound) {
		t.Error("expired user should be cleared")
	}
}

func TestUser_OpaqueTokenNeverExpires(t *testing.T) {
	u := session.NewMember("reader@example.com", "not-a-jwt")
	if u.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("opaque token should not expire client-side")
	}
	if _, ok := u.ExpiresAt(); ok {
		t.Error("opaque token has no exp")
	}
}
