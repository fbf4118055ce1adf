package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// ListBooks fetches the catalog. It accepts both the catalog's own record
// shape and the backend's book model (name, category, publication_date).
func (c *Client) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	var wire []wireBook
	if err := c.doJSON(ctx, http.MethodGet, "books", nil, &wire); err != nil {
		return nil, err
	}
	books := make([]catalog.Book, 0, len(wire))
	for _, w := range wire {
		books = append(books, w.book())
	}
	return books, nil
}

// flexID accepts a JSON string or number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

type wireBook struct {
	catalog.Book
	ID              flexID `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	PublicationDate string `json:"publication_date"`
	CoverImageURL   string `json:"cover_image_url"`
}

func (w wireBook) book() catalog.Book {
	b := w.Book
	b.ID = string(w.ID)
	if b.Title == "" {
		b.Title = w.Name
	}
	if len(b.Subjects) == 0 && w.Category != "" {
		b.Subjects = []string{w.Category}
	}
	if b.Year == 0 && len(w.PublicationDate) >= 4 {
		if y, err := strconv.Atoi(w.PublicationDate[:4]); err == nil {
			b.Year = y
		}
	}
	if b.Cover == "" {
		b.Cover = w.CoverImageURL
	}
	return b
}
