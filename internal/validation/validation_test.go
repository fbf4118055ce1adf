package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/blackwell-systems/opacctl/internal/validation"
)

type payload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Date     string `json:"pickup_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct_Valid(t *testing.T) {
	if err := validation.Struct(payload{Email: "a@b.tw", Password: "secret", Date: "2025-11-20"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_CollectsFields(t *testing.T) {
	err := validation.Struct(payload{Email: "nope", Password: "123", Date: "20/11/2025"})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T %v, want *validation.Error", err, err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("got %d field errors, want 3: %v", len(verr.Fields), err)
	}
	if verr.Fields[0].Field != "email" || verr.Fields[0].Tag != "email" {
		t.Errorf("first field = %+v", verr.Fields[0])
	}
	if !strings.Contains(err.Error(), "password must be at least 6 characters") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestStruct_Required(t *testing.T) {
	err := validation.Struct(payload{})
	if err == nil || !strings.Contains(err.Error(), "email is required") {
		t.Errorf("err = %v", err)
	}
}
