// Package assistant answers free-text questions about the catalog by
// reducing them to a keyword search.
package assistant

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/search"
)

const (
	// MaxHits caps the books quoted in one answer.
	MaxHits = 5
	// MaxSuggestions caps the newest-title suggestions when nothing matches.
	MaxSuggestions = 3
)

// Role says who wrote a message.
type Role string

const (
	RolePatron    Role = "patron"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role  Role           `json:"role"`
	Text  string         `json:"text"`
	Books []catalog.Book `json:"books,omitempty"`
	At    time.Time      `json:"at"`
}

// Query is what a question reduces to.
type Query struct {
	Text          string
	AvailableOnly bool
}

// Phrases removed from questions before searching, longest first.
var fillerPhrases = []string{
	"可以幫我找", "有沒有關於", "請推薦", "推薦一些", "我想要找", "我想找", "幫我找", "有沒有",
	"請問", "我想", "一些", "有關", "關於", "的書", "書籍", "相關", "推薦", "嗎",
	"？", "?", "，", ",", "。", "!", "！",
}

var fillerWords = map[string]bool{
	"please": true, "find": true, "me": true, "i": true, "want": true, "looking": true,
	"for": true, "a": true, "an": true, "the": true, "book": true, "books": true,
	"about": true, "on": true, "some": true, "any": true, "show": true, "recommend": true,
	"is": true, "are": true, "there": true, "can": true, "you": true, "do": true,
	"have": true, "something": true, "with": true,
}

var availablePhrases = []string{"現在可借", "可借閱", "可借", "在架上"}

// Interpret strips conversational filler from question and detects a
// request for borrowable copies only.
func Interpret(question string) Query {
	q := Query{}
	text := question
	for _, p := range availablePhrases {
		if strings.Contains(text, p) {
			q.AvailableOnly = true
			text = strings.ReplaceAll(text, p, " ")
		}
	}
	for _, p := range fillerPhrases {
		text = strings.ReplaceAll(text, p, " ")
	}

	var kept []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, "的")
		if w == "" {
			continue
		}
		lw := strings.ToLower(w)
		if lw == "available" || lw == "borrowable" {
			q.AvailableOnly = true
			continue
		}
		if fillerWords[lw] {
			continue
		}
		kept = append(kept, w)
	}
	q.Text = strings.Join(kept, " ")
	return q
}

// Assistant keeps one conversation over a catalog.
type Assistant struct {
	books      []catalog.Book
	transcript []Message
	now        func() time.Time
}

// New starts a conversation over books.
func New(books []catalog.Book) *Assistant {
	return &Assistant{books: books, now: time.Now}
}

// Transcript returns every message so far, oldest first.
func (a *Assistant) Transcript() []Message {
	return slices.Clone(a.transcript)
}

// Ask records question and returns the reply, which is also recorded.
func (a *Assistant) Ask(question string) Message {
	a.transcript = append(a.transcript, Message{Role: RolePatron, Text: question, At: a.now()})
	reply := a.answer(Interpret(question))
	reply.Role = RoleAssistant
	reply.At = a.now()
	a.transcript = append(a.transcript, reply)
	return reply
}

func (a *Assistant) answer(q Query) Message {
	if q.Text == "" && !q.AvailableOnly {
		return Message{Text: "請告訴我想找的書名、作者或主題，例如「村上春樹」或「科幻」。"}
	}

	f := search.Filters{}
	if q.AvailableOnly {
		f.Statuses = search.NewSet(catalog.StatusAvailable, catalog.StatusOnShelf)
	}
	hits := search.Run(a.books, search.Simple{Text: q.Text}, f, search.SortRelevance, search.DefaultLocale)
	if len(hits) > 0 {
		total := len(hits)
		hits = hits[:min(MaxHits, total)]
		return Message{Text: describe(q, total, hits), Books: hits}
	}

	suggestions := newest(a.books, MaxSuggestions)
	label := q.Text
	if label == "" {
		label = "可借"
	}
	text := fmt.Sprintf("沒有找到符合「%s」的書。", label)
	if len(suggestions) > 0 {
		text += "或許你會喜歡這些新書：" + titles(suggestions)
	}
	return Message{Text: text, Books: suggestions}
}

// describe summarizes an answer; total counts every match, hits only the
// ones quoted.
func describe(q Query, total int, hits []catalog.Book) string {
	var sb strings.Builder
	if q.Text != "" {
		fmt.Fprintf(&sb, "找到 %d 本與「%s」相關的書", total, q.Text)
	} else {
		fmt.Fprintf(&sb, "找到 %d 本", total)
	}
	if q.AvailableOnly {
		sb.WriteString("（目前可借）")
	}
	if total > len(hits) {
		fmt.Fprintf(&sb, "，先列出前 %d 本", len(hits))
	}
	sb.WriteString("：")
	sb.WriteString(titles(hits))
	return sb.String()
}

func titles(books []catalog.Book) string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = "《" + b.Title + "》"
	}
	return strings.Join(out, "、")
}

func newest(books []catalog.Book, n int) []catalog.Book {
	out := slices.Clone(books)
	slices.SortStableFunc(out, func(a, b catalog.Book) int { return b.Year - a.Year })
	return out[:min(n, len(out))]
}
