package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/catalog"
)

func newServer(t *testing.T, h http.HandlerFunc) (*api.Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return api.New(srv.URL+"/api/", api.Options{Timeout: 5 * time.Second, FailureThreshold: 2, Cooldown: time.Minute}), &hits
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --- auth ---

func TestLogin_Success(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "reader@example.com" || body["password"] != "pw" {
			t.Errorf("body = %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "登入成功", "access_token": "tok"})
	})
	resp, err := c.Login(context.Background(), api.LoginRequest{Username: "reader@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "tok" {
		t.Errorf("token = %q", resp.AccessToken)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "使用者名稱或密碼錯誤"})
	})
	_, err := c.Login(context.Background(), api.LoginRequest{Username: "x", Password: "y"})
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 401 || apiErr.Message != "使用者名稱或密碼錯誤" {
		t.Errorf("api error = %+v", apiErr)
	}
}

func TestLogin_ValidatesBeforeSending(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := c.Login(context.Background(), api.LoginRequest{Username: "x"}); err == nil {
		t.Fatal("missing password should fail")
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Error("invalid payload reached the server")
	}
}

func TestRegister_Conflict(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "電子郵件已被註冊"})
	})
	_, err := c.Register(context.Background(), api.RegisterRequest{Username: "reader", Email: "r@example.com", Password: "secret1"})
	if !errors.Is(err, api.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if !strings.Contains(err.Error(), "電子郵件已被註冊") {
		t.Errorf("message lost: %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "使用者建立成功"})
	})
	msg, err := c.Register(context.Background(), api.RegisterRequest{Username: "reader", Email: "r@example.com", Password: "secret1"})
	if err != nil || msg != "使用者建立成功" {
		t.Errorf("Register = %q, %v", msg, err)
	}
}

// --- loans ---

func TestMyLoans_RequiresToken(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := c.MyLoans(context.Background()); !errors.Is(err, api.ErrNotSignedIn) {
		t.Errorf("err = %v, want ErrNotSignedIn", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Error("request sent without token")
	}
}

func TestMyLoans_SendsBearer(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/loans/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "user_id": 7, "book_title": "三體", "loan_date": "2025-11-01T10:00:00"},
		})
	})
	loans, err := c.WithToken("tok").MyLoans(context.Background())
	if err != nil {
		t.Fatalf("MyLoans: %v", err)
	}
	if len(loans) != 1 || loans[0].BookTitle != "三體" || loans[0].LoanDate != "2025-11-01T10:00:00" {
		t.Errorf("loans = %+v", loans)
	}
}

func TestCreateLoan(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req api.LoanRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.PickupLibrary != "花蓮總館" || req.PickupDate != "2025-11-20" || req.BookISBN != "9789863479101" {
			t.Errorf("payload = %s", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "book_title": req.BookTitle})
	})
	loan, err := c.WithToken("tok").CreateLoan(context.Background(), api.LoanRequest{
		BookTitle:     "三體",
		BookISBN:      "9789863479101",
		PickupLibrary: "花蓮總館",
		PickupDate:    "2025-11-20",
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if loan.ID != 3 {
		t.Errorf("loan = %+v", loan)
	}
}

func TestCreateLoan_DetailMessage(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "此書已被預約"})
	})
	_, err := c.WithToken("tok").CreateLoan(context.Background(), api.LoanRequest{
		BookTitle: "三體", PickupLibrary: "花蓮總館", PickupDate: "2025-11-20",
	})
	if !errors.Is(err, api.ErrBadRequest) || !strings.Contains(err.Error(), "此書已被預約") {
		t.Errorf("err = %v", err)
	}
}

// --- books ---

func TestListBooks_BothShapes(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":"bk-003","title":"三體","year":2008,"subjects":["科幻"],
			 "availability":[{"lib":"花蓮總館","status":"Available"}]},
			{"id":12,"name":"百年孤寂","author":"馬奎斯","category":"文學",
			 "publication_date":"1967-05-30","cover_image_url":"http://x/c.jpg"}
		]`)
	})
	books, err := c.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books", len(books))
	}
	if books[0].ID != "bk-003" || !books[0].Available() {
		t.Errorf("catalog shape = %+v", books[0])
	}
	b := books[1]
	if b.ID != "12" || b.Title != "百年孤寂" || b.Year != 1967 || len(b.Subjects) != 1 || b.Subjects[0] != "文學" || b.Cover != "http://x/c.jpg" {
		t.Errorf("backend shape = %+v", b)
	}

	var _ catalog.Fetcher = c
}

// --- circuit breaker ---

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	for i := 0; i < 2; i++ {
		if _, err := c.ListBooks(context.Background()); !errors.Is(err, api.ErrUnavailable) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	_, err := c.ListBooks(context.Background())
	if !errors.Is(err, api.ErrUnavailable) {
		t.Fatalf("open breaker: err = %v", err)
	}
	if got := atomic.LoadInt32(hits); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "missing"})
	})
	for i := 0; i < 4; i++ {
		if _, err := c.ListBooks(context.Background()); !errors.Is(err, api.ErrNotFound) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if got := atomic.LoadInt32(hits); got != 4 {
		t.Errorf("server hit %d times, want 4", got)
	}
}
