package search

import (
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// Per-field relevance weights, applied once per token per field.
const (
	WeightTitle       = 5
	WeightAuthor      = 3
	WeightSubject     = 3
	WeightDescription = 2
	WeightISBN        = 2
)

// Score returns the weighted keyword relevance of b for tokens. Tokens are
// expected lowercase (see Tokenize).
func Score(b catalog.Book, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author)
	desc := strings.ToLower(b.Description)
	isbn := strings.ToLower(b.ISBN)
	subjects := make([]string, len(b.Subjects))
	for i, s := range b.Subjects {
		subjects[i] = strings.ToLower(s)
	}

	score := 0
	for _, t := range tokens {
		if strings.Contains(title, t) {
			score += WeightTitle
		}
		if strings.Contains(author, t) {
			score += WeightAuthor
		}
		for _, s := range subjects {
			if strings.Contains(s, t) {
				score += WeightSubject
				break
			}
		}
		if strings.Contains(desc, t) {
			score += WeightDescription
		}
		if strings.Contains(isbn, t) {
			score += WeightISBN
		}
	}
	return score
}
