package catalog

import (
	"fmt"
	"strings"
)

// Status is the circulation state of one branch copy.
type Status string

const (
	StatusAvailable  Status = "Available"
	StatusOnShelf    Status = "On shelf"
	StatusOnHold     Status = "On hold"
	StatusCheckedOut Status = "Checked out"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusAvailable, StatusOnShelf, StatusOnHold, StatusCheckedOut}

// ParseStatus accepts a status name case-insensitively, with '-' or '_'
// standing in for spaces.
func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	for _, st := range Statuses {
		if strings.EqualFold(norm, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Lendable reports whether a copy in this state can be picked up today.
func (s Status) Lendable() bool {
	return s == StatusAvailable || s == StatusOnShelf
}

// Book is one bibliographic record in the union catalog.
type Book struct {
	ID           string         `yaml:"id" json:"id"`
	Title        string         `yaml:"title" json:"title"`
	Author       string         `yaml:"author,omitempty" json:"author,omitempty"`
	ISBN         string         `yaml:"isbn,omitempty" json:"isbn,omitempty"`
	Year         int            `yaml:"year,omitempty" json:"year,omitempty"`
	Language     string         `yaml:"language,omitempty" json:"language,omitempty"`
	Format       string         `yaml:"format,omitempty" json:"format,omitempty"`
	Cover        string         `yaml:"cover,omitempty" json:"cover,omitempty"`
	Subjects     []string       `yaml:"subjects,omitempty" json:"subjects,omitempty"`
	Description  string         `yaml:"description,omitempty" json:"description,omitempty"`
	Availability []Availability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// Availability describes a copy held at one branch.
type Availability struct {
	Library    string `yaml:"lib" json:"lib"`
	CallNumber string `yaml:"callno,omitempty" json:"callno,omitempty"`
	Location   string `yaml:"floor,omitempty" json:"floor,omitempty"`
	Status     Status `yaml:"status" json:"status"`
	Due        string `yaml:"due,omitempty" json:"due,omitempty"` // YYYY-MM-DD, empty when not on loan
}

// Available reports whether at least one branch copy can be borrowed.
func (b Book) Available() bool {
	for _, a := range b.Availability {
		if a.Status.Lendable() {
			return true
		}
	}
	return false
}

// Libraries returns the distinct branches holding a copy, in listing order.
func (b Book) Libraries() []string {
	seen := make(map[string]bool, len(b.Availability))
	var out []string
	for _, a := range b.Availability {
		if a.Library == "" || seen[a.Library] {
			continue
		}
		seen[a.Library] = true
		out = append(out, a.Library)
	}
	return out
}

// HasSubject reports whether the book is tagged with subject (exact match).
func (b Book) HasSubject(subject string) bool {
	for _, s := range b.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
