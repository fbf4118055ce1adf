package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/opacctl/internal/util"
)

// Marshal encodes a book list as YAML with two-space indentation.
func Marshal(books []Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(books); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the catalog to path, creating parent directories.
func Save(path string, books []Book) error {
	data, err := Marshal(books)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// ByID returns the book with the given id, or nil.
func ByID(books []Book, id string) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}

// ByIDs resolves ids against books, preserving the order of ids and
// skipping ids that are not in the catalog.
func ByIDs(books []Book, ids []string) []Book {
	index := make(map[string]int, len(books))
	for i, b := range books {
		if _, dup := index[b.ID]; !dup {
			index[b.ID] = i
		}
	}
	out := make([]Book, 0, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out = append(out, books[i])
		}
	}
	return out
}
