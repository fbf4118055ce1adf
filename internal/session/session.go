package session

import (
	"errors"
	"slices"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/logging"
)

// Persisted keys. The names match the web client's local storage so a
// session directory can be inspected side by side.
const (
	KeyUser  = "hul.user"
	KeyViews = "hul.views"
	KeyBooks = "hul.books"
)

// MaxViews caps the view history.
const MaxViews = 50

// Read decodes key from s, returning def when the key is missing or holds
// something that does not decode.
func Read[T any](s Store, key string, def T) T {
	log := logging.With("session")
	data, err := s.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Debug().Err(err).Str("key", key).Msg("read failed, using default")
		}
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("undecodable value, using default")
		return def
	}
	return v
}

// Write encodes v as JSON under key.
func Write[T any](s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, data)
}

// Session is the typed view over a Store used by commands and the TUI.
type Session struct {
	store Store
}

// New wraps store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Close releases the underlying store.
func (s *Session) Close() error { return s.store.Close() }

// Views returns the view history, most recent first.
func (s *Session) Views() []string {
	return Read(s.store, KeyViews, []string{})
}

// RecordView moves id to the front of the history, dropping any earlier
// occurrence and trimming to MaxViews. It returns the new history.
func (s *Session) RecordView(id string) ([]string, error) {
	views := PushView(s.Views(), id)
	return views, Write(s.store, KeyViews, views)
}

// ClearViews forgets the view history.
func (s *Session) ClearViews() error {
	return s.store.Delete(KeyViews)
}

// PushView returns views with id at the front, deduplicated and capped.
func PushView(views []string, id string) []string {
	if id == "" {
		return views
	}
	out := make([]string, 0, min(len(views)+1, MaxViews))
	out = append(out, id)
	for _, v := range views {
		if v == id {
			continue
		}
		if len(out) == MaxViews {
			break
		}
		out = append(out, v)
	}
	return slices.Clip(out)
}

// CachedBooks returns the last catalog cached, or nil.
func (s *Session) CachedBooks() []catalog.Book {
	return Read[[]catalog.Book](s.store, KeyBooks, nil)
}

// CacheBooks stores books as the cached catalog.
func (s *Session) CacheBooks(books []catalog.Book) error {
	return Write(s.store, KeyBooks, books)
}
