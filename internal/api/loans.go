package api

import (
	"context"
	"net/http"

	"github.com/blackwell-systems/opacctl/internal/validation"
)

// LoanRequest is the /loans payload sent when a reservation is confirmed.
type LoanRequest struct {
	BookTitle     string `json:"book_title" validate:"required"`
	BookISBN      string `json:"book_isbn,omitempty"`
	PickupLibrary string `json:"pickup_library" validate:"required"`
	PickupDate    string `json:"pickup_date" validate:"required,datetime=2006-01-02"`
}

// Loan is one loan or hold record of the signed-in patron.
type Loan struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id,omitempty"`
	BookTitle     string `json:"book_title"`
	BookISBN      string `json:"book_isbn,omitempty"`
	PickupLibrary string `json:"pickup_library,omitempty"`
	PickupDate    string `json:"pickup_date,omitempty"`
	LoanDate      string `json:"loan_date,omitempty"` // ISO 8601 as sent by the server
}

// MyLoans lists the signed-in patron's loans.
func (c *Client) MyLoans(ctx context.Context) ([]Loan, error) {
	if c.token == "" {
		return nil, ErrNotSignedIn
	}
	var out []Loan
	if err := c.doJSON(ctx, http.MethodGet, "loans/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLoan places a hold for pickup.
func (c *Client) CreateLoan(ctx context.Context, req LoanRequest) (*Loan, error) {
	if c.token == "" {
		return nil, ErrNotSignedIn
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var out Loan
	if err := c.doJSON(ctx, http.MethodPost, "loans", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
