package models

import (
	"errors"
	"testing"
)

func TestValidationErrorsAddKeepsCause(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("launch_id", nil)
	if validation.Err() != nil {
		t.Fatal("nil error must not be recorded")
	}

	validation.Add("launch_id", ErrValidationRejected)
	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	list := err.(*ValidationErrors)
	if !errors.Is(list.Errors[0], ErrValidationRejected) {
		t.Fatalf("expected cause ErrValidationRejected, got %v", list.Errors[0])
	}
	if err.Error() != "launch_id: value rejected" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidationErrorsNestedFields(t *testing.T) {
	nested := &ValidationErrors{}
	nested.AddMessage("token_add", "token address is required")

	validation := &ValidationErrors{}
	validation.Add("row", nested)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}

	list, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors type, got %T", err)
	}
	if len(list.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(list.Errors))
	}
	if list.Errors[0].Field != "row.token_add" {
		t.Fatalf("expected field row.token_add, got %q", list.Errors[0].Field)
	}
}

func TestRuleCheckNumeric(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"42", true},
		{" 0.25 ", true},
		{"-3e2", true},
		{"", false},
		{"abc", false},
		{"1,5", false},
		{"+.5", true},
		{"7.", true},
		{"NaN", false},
		{"Inf", false},
		{"-Infinity", false},
		{"0x1p4", false},
		{"0X10", false},
		{"1e400", false},
		{"1_000", false},
		{".", false},
	}

	for _, tt := range tests {
		err := RuleNumericOnly.Check("buy_rate", RuleNumericOnly.Normalize(tt.value))
		if tt.ok && err != nil {
			t.Fatalf("Check(%q) unexpected error: %v", tt.value, err)
		}
		if !tt.ok {
			if err == nil {
				t.Fatalf("Check(%q) expected error", tt.value)
			}
			if !errors.Is(err, ErrValidationRejected) {
				t.Fatalf("Check(%q) expected ErrValidationRejected, got %v", tt.value, err)
			}
		}
	}
}

func TestRuleCheckFreeTextAcceptsAnything(t *testing.T) {
	for _, value := range []string{"", "abc", "日本語", "12"} {
		if err := RuleFreeText.Check("remark", value); err != nil {
			t.Fatalf("Check(%q) unexpected error: %v", value, err)
		}
	}
}

func TestRuleCheckImmutable(t *testing.T) {
	err := RuleImmutable.Check("id", "7")
	if !errors.Is(err, ErrImmutableColumn) {
		t.Fatalf("expected ErrImmutableColumn, got %v", err)
	}
}

func TestRuleClassification(t *testing.T) {
	if RuleImmutable.Editable() {
		t.Fatal("immutable rule must not be editable")
	}
	if !RuleActionCopy.IsAction() || !RuleActionDelete.IsAction() {
		t.Fatal("copy and delete must be actions")
	}
	if RuleActionCopy.AcceptsInput() || RuleActionDelete.AcceptsInput() {
		t.Fatal("action rules must not accept typed input")
	}
	if !RuleNumericOnly.AcceptsInput() || !RuleFreeText.AcceptsInput() {
		t.Fatal("text rules must accept typed input")
	}
}

func TestRuleNormalize(t *testing.T) {
	if got := RuleNumericOnly.Normalize(" 0.25\t"); got != "0.25" {
		t.Fatalf("numeric normalize = %q", got)
	}
	if got := RuleFreeText.Normalize("  spaced  "); got != "  spaced  " {
		t.Fatalf("free text must be kept verbatim, got %q", got)
	}
}
