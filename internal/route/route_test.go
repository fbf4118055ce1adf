package route_test

import (
	"testing"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/route"
	"github.com/blackwell-systems/opacctl/internal/search"
)

var book = catalog.Book{ID: "bk-003", Title: "三體"}

func TestTransition_Search(t *testing.T) {
	q := search.Simple{Text: "三體"}
	f := search.Filters{Languages: search.NewSet("繁體中文")}
	got := route.Transition(route.Home{}, route.SubmitSearch{Query: q, Filters: f})
	r, ok := got.(route.Results)
	if !ok {
		t.Fatalf("got %T, want Results", got)
	}
	if r.Query.String() != "三體" || !r.Filters.Languages.Has("繁體中文") {
		t.Errorf("results = %+v", r)
	}
}

func TestTransition_PickTopic(t *testing.T) {
	got := route.Transition(route.Home{}, route.PickTopic{Topic: "歷史"})
	r, ok := got.(route.Results)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if s, ok := r.Query.(search.Simple); !ok || s.Text != "歷史" {
		t.Errorf("query = %#v", r.Query)
	}
}

func TestTransition_ReserveOnlyFromDetail(t *testing.T) {
	got := route.Transition(route.Detail{Book: book}, route.StartReserve{})
	if r, ok := got.(route.Reserve); !ok || r.Book.ID != "bk-003" {
		t.Fatalf("got %#v", got)
	}
	for _, cur := range []route.Route{route.Home{}, route.Results{}, route.Account{}} {
		if got := route.Transition(cur, route.StartReserve{}); got.Name() != cur.Name() {
			t.Errorf("StartReserve from %s moved to %s", cur.Name(), got.Name())
		}
	}
}

func TestTransition_ReserveDoneGoesToAccount(t *testing.T) {
	if got := route.Transition(route.Reserve{Book: book}, route.ReserveDone{}); got.Name() != "account" {
		t.Errorf("got %s", got.Name())
	}
	if got := route.Transition(route.Home{}, route.ReserveDone{}); got.Name() != "home" {
		t.Errorf("ReserveDone outside reserve moved to %s", got.Name())
	}
}

func TestTransition_Account(t *testing.T) {
	cases := []struct {
		cur  route.Route
		ev   route.Event
		want string
	}{
		{route.Home{}, route.OpenAccount{}, "account"},
		{route.Account{}, route.LoggedIn{}, "account"},
		{route.Account{}, route.LoggedOut{}, "home"},
		{route.Detail{Book: book}, route.GoHome{}, "home"},
		{route.Home{}, route.OpenAdvanced{}, "advanced"},
		{route.Results{}, route.OpenBook{Book: book}, "detail"},
		{route.Detail{Book: book}, route.OpenRecommend{}, "recommend"},
		{route.Home{}, route.OpenAssistant{}, "assistant"},
	}
	for _, c := range cases {
		if got := route.Transition(c.cur, c.ev); got.Name() != c.want {
			t.Errorf("%s + %T = %s, want %s", c.cur.Name(), c.ev, got.Name(), c.want)
		}
	}
}

func TestTopics(t *testing.T) {
	if len(route.Topics) != 6 || route.Topics[0] != "文學" {
		t.Errorf("Topics = %v", route.Topics)
	}
}
