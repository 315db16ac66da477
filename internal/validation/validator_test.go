package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Budget string `json:"budgetRange" validate:"required,oneof=low medium high"`
	Days   int    `json:"lengthDays" validate:"required,min=1,max=30"`
	Note   string `json:"-" validate:"max=3"`
}

func TestStructReportsEveryViolation(t *testing.T) {
	err := Struct(sampleRequest{Budget: "luxury", Days: 45, Note: "toolong"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var ve Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected Errors, got %T", err)
	}
	if len(ve) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(ve), ve)
	}

	fields := map[string]bool{}
	for _, fe := range ve {
		fields[fe.Field] = true
	}
	for _, want := range []string{"budgetRange", "lengthDays", "Note"} {
		if !fields[want] {
			t.Fatalf("expected violation for %q, got %v", want, ve)
		}
	}
	if !strings.Contains(ve.Error(), "budgetRange must be one of: low, medium, high") {
		t.Fatalf("unexpected message %q", ve.Error())
	}
}

func TestStructRequired(t *testing.T) {
	err := Struct(sampleRequest{})
	var ve Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected Errors, got %v", err)
	}
	msgs := ve.Messages()
	if len(msgs) != 2 || msgs[0] != "budgetRange is required" || msgs[1] != "lengthDays is required" {
		t.Fatalf("unexpected messages %v", msgs)
	}
}

func TestStructValid(t *testing.T) {
	if err := Struct(sampleRequest{Budget: "low", Days: 5}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
