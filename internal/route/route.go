// Package route models page navigation as a pure state machine: a Route
// is where the patron is, an Event is what they did, and Transition maps
// one to the next.
package route

import (
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
)

// Topics are the home page shortcuts; each runs a simple search.
var Topics = []string{"文學", "歷史", "科技", "心理", "藝術", "旅遊"}

// Route is one page. The set of routes is closed.
type Route interface {
	Name() string
	isRoute()
}

type (
	Home     struct{}
	Advanced struct{}
	Results  struct {
		Query   search.Query
		Filters search.Filters
	}
	Detail    struct{ Book catalog.Book }
	Reserve   struct{ Book catalog.Book }
	Recommend struct{}
	Account   struct{}
	Assistant struct{}
)

func (Home) isRoute()      {}
func (Advanced) isRoute()  {}
func (Results) isRoute()   {}
func (Detail) isRoute()    {}
func (Reserve) isRoute()   {}
func (Recommend) isRoute() {}
func (Account) isRoute()   {}
func (Assistant) isRoute() {}

func (Home) Name() string      { return "home" }
func (Advanced) Name() string  { return "advanced" }
func (Results) Name() string   { return "results" }
func (Detail) Name() string    { return "detail" }
func (Reserve) Name() string   { return "reserve" }
func (Recommend) Name() string { return "recommend" }
func (Account) Name() string   { return "account" }
func (Assistant) Name() string { return "assistant" }

// Event is a navigation intent.
type Event interface {
	isEvent()
}

type (
	GoHome       struct{}
	OpenAdvanced struct{}
	SubmitSearch struct {
		Query   search.Query
		Filters search.Filters
	}
	PickTopic     struct{ Topic string }
	OpenBook      struct{ Book catalog.Book }
	StartReserve  struct{}
	ReserveDone   struct{}
	OpenRecommend struct{}
	OpenAccount   struct{}
	LoggedIn      struct{}
	LoggedOut     struct{}
	OpenAssistant struct{}
)

func (GoHome) isEvent()        {}
func (OpenAdvanced) isEvent()  {}
func (SubmitSearch) isEvent()  {}
func (PickTopic) isEvent()     {}
func (OpenBook) isEvent()      {}
func (StartReserve) isEvent()  {}
func (ReserveDone) isEvent()   {}
func (OpenRecommend) isEvent() {}
func (OpenAccount) isEvent()   {}
func (LoggedIn) isEvent()      {}
func (LoggedOut) isEvent()     {}
func (OpenAssistant) isEvent() {}

// Transition returns the route reached from cur by ev. Events that do not
// apply to cur leave it unchanged.
func Transition(cur Route, ev Event) Route {
	switch ev := ev.(type) {
	case GoHome:
		return Home{}
	case OpenAdvanced:
		return Advanced{}
	case SubmitSearch:
		return Results{Query: ev.Query, Filters: ev.Filters}
	case PickTopic:
		return Results{Query: search.Simple{Text: ev.Topic}}
	case OpenBook:
		return Detail{Book: ev.Book}
	case StartReserve:
		if d, ok := cur.(Detail); ok {
			return Reserve{Book: d.Book}
		}
		return cur
	case ReserveDone:
		if _, ok := cur.(Reserve); ok {
			return Account{}
		}
		return cur
	case OpenRecommend:
		return Recommend{}
	case OpenAccount, LoggedIn:
		return Account{}
	case LoggedOut:
		return Home{}
	case OpenAssistant:
		return Assistant{}
	default:
		panic("route: unhandled event type")
	}
}
