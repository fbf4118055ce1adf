// Package reserve drives the four-step hold flow: pick a branch, pick a
// pickup date, confirm, done.
package reserve

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// DateLayout is the pickup date format.
const DateLayout = "2006-01-02"

// PickupDays is how many days a confirmed hold waits at the branch.
const PickupDays = 3

var (
	ErrNoLibrary      = errors.New("choose a pickup library first")
	ErrNoDate         = errors.New("choose a pickup date first")
	ErrUnknownLibrary = errors.New("library does not hold this book")
	ErrBadDate        = errors.New("pickup date must be YYYY-MM-DD")
	ErrNotConfirming  = errors.New("reservation is not at the confirm step")
	ErrNoCopies       = errors.New("no branch holds a copy of this book")
)

// Step is a position in the flow.
type Step int

const (
	StepLibrary Step = iota
	StepDate
	StepConfirm
	StepDone
)

// Steps lists every step in order.
var Steps = []Step{StepLibrary, StepDate, StepConfirm, StepDone}

func (s Step) String() string {
	switch s {
	case StepLibrary:
		return "選取書館"
	case StepDate:
		return "選日期"
	case StepConfirm:
		return "確認"
	case StepDone:
		return "成功"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Submitter places the hold with the library service.
type Submitter interface {
	CreateLoan(ctx context.Context, req api.LoanRequest) (*api.Loan, error)
}

// Receipt is what the patron gets after confirming.
type Receipt struct {
	Code       string    `json:"code"`
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	Library    string    `json:"library"`
	PickupDate time.Time `json:"pickup_date"`
	Deadline   time.Time `json:"deadline"`
	Loan       *api.Loan `json:"loan,omitempty"`
}

// ShortCode is the code as shown at the counter.
func (r Receipt) ShortCode() string {
	code := strings.ReplaceAll(r.Code, "-", "")
	return strings.ToUpper(code[:min(8, len(code))])
}

// Flow is one reservation in progress. The zero value is not usable; call New.
type Flow struct {
	book    catalog.Book
	step    Step
	library string
	date    time.Time
	receipt *Receipt
}

// New starts a reservation for book at StepLibrary.
func New(book catalog.Book) *Flow {
	return &Flow{book: book}
}

func (f *Flow) Book() catalog.Book { return f.book }
func (f *Flow) Step() Step         { return f.step }
func (f *Flow) Library() string    { return f.library }

// Date returns the chosen pickup date and whether one is set.
func (f *Flow) Date() (time.Time, bool) { return f.date, !f.date.IsZero() }

// Receipt returns the confirmation once the flow is done.
func (f *Flow) Receipt() (*Receipt, bool) { return f.receipt, f.receipt != nil }

// Libraries returns the branches the patron can pick from.
func (f *Flow) Libraries() []string { return f.book.Libraries() }

// SelectLibrary chooses the pickup branch.
func (f *Flow) SelectLibrary(lib string) error {
	libs := f.Libraries()
	if len(libs) == 0 {
		return ErrNoCopies
	}
	if !slices.Contains(libs, lib) {
		return fmt.Errorf("%w: %q", ErrUnknownLibrary, lib)
	}
	f.library = lib
	return nil
}

// SetDate chooses the pickup date from YYYY-MM-DD text.
func (f *Flow) SetDate(s string) error {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	f.date = d
	return nil
}

// Next advances one step. Leaving StepLibrary needs a library. StepConfirm
// only advances through Confirm, and StepDone is final.
func (f *Flow) Next() error {
	switch f.step {
	case StepLibrary:
		if f.library == "" {
			return ErrNoLibrary
		}
		f.step = StepDate
	case StepDate:
		f.step = StepConfirm
	case StepConfirm:
		return ErrNotConfirming
	}
	return nil
}

// Back returns to the previous step. It does nothing at StepLibrary or
// once the hold has been placed.
func (f *Flow) Back() {
	if f.step > StepLibrary && f.step < StepDone {
		f.step--
	}
}

// Request builds the /loans payload for the current choices. It fails
// unless the flow is at StepConfirm with a library and a date.
func (f *Flow) Request() (api.LoanRequest, error) {
	if f.step != StepConfirm {
		return api.LoanRequest{}, ErrNotConfirming
	}
	if f.library == "" {
		return api.LoanRequest{}, ErrNoLibrary
	}
	if f.date.IsZero() {
		return api.LoanRequest{}, ErrNoDate
	}
	return api.LoanRequest{
		BookTitle:     f.book.Title,
		BookISBN:      f.book.ISBN,
		PickupLibrary: f.library,
		PickupDate:    f.date.Format(DateLayout),
	}, nil
}

// Confirm submits the hold and moves to StepDone. On failure the flow stays
// at StepConfirm so the patron can retry.
func (f *Flow) Confirm(ctx context.Context, sub Submitter) (*Receipt, error) {
	req, err := f.Request()
	if err != nil {
		return nil, err
	}

	loan, err := sub.CreateLoan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("placing hold: %w", err)
	}

	f.receipt = &Receipt{
		Code:       uuid.NewString(),
		BookID:     f.book.ID,
		Title:      f.book.Title,
		Library:    f.library,
		PickupDate: f.date,
		Deadline:   f.date.AddDate(0, 0, PickupDays),
		Loan:       loan,
	}
	f.step = StepDone
	return f.receipt, nil
}
