package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Validation errors.
var (
	ErrValidationRejected = errors.New("value rejected")
	ErrImmutableColumn    = errors.New("column is immutable")
)

// Rule decides what an edit gesture on a column does.
type Rule int

const (
	RuleFreeText Rule = iota
	RuleNumericOnly
	RuleActionCopy
	RuleActionDelete
	RuleImmutable
)

func (r Rule) String() string {
	switch r {
	case RuleFreeText:
		return "free-text"
	case RuleNumericOnly:
		return "numeric"
	case RuleActionCopy:
		return "copy"
	case RuleActionDelete:
		return "delete"
	case RuleImmutable:
		return "immutable"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// Editable reports whether the column can enter edit mode at all.
func (r Rule) Editable() bool {
	return r != RuleImmutable
}

// IsAction reports whether editing triggers a one-shot action instead of text input.
func (r Rule) IsAction() bool {
	return r == RuleActionCopy || r == RuleActionDelete
}

// AcceptsInput reports whether typed characters go into the edit buffer.
func (r Rule) AcceptsInput() bool {
	return r == RuleFreeText || r == RuleNumericOnly
}

// decimalNumber is the plain decimal notation a numeric column accepts:
// optional sign, digits with an optional fraction, optional exponent.
var decimalNumber = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Normalize returns the value that is checked and written for the rule.
// Numeric input is stored without surrounding whitespace.
func (r Rule) Normalize(value string) string {
	if r == RuleNumericOnly {
		return strings.TrimSpace(value)
	}
	return value
}

// Check validates a normalized value about to be written to column.
func (r Rule) Check(column, value string) error {
	switch r {
	case RuleImmutable:
		return ValidationError{Field: column, Message: "column cannot be edited", Cause: ErrImmutableColumn}
	case RuleNumericOnly:
		if !isDecimal(value) {
			return ValidationError{Field: column, Message: fmt.Sprintf("%q is not a number", value), Cause: ErrValidationRejected}
		}
	}
	return nil
}

// isDecimal rejects hex floats, NaN and infinities that ParseFloat would accept.
func isDecimal(value string) bool {
	if !decimalNumber.MatchString(value) {
		return false
	}
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Unwrap exposes the cause to errors.Is.
func (v ValidationError) Unwrap() error {
	return v.Cause
}

// ValidationErrors aggregates multiple validation failures.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Add records a validation error for a field.
func (v *ValidationErrors) Add(field string, err error) {
	if err == nil {
		return
	}

	var nested *ValidationErrors
	if errors.As(err, &nested) {
		for _, sub := range nested.Errors {
			v.Errors = append(v.Errors, ValidationError{
				Field:   joinField(field, sub.Field),
				Message: sub.Message,
				Cause:   sub.Cause,
			})
		}
		return
	}

	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: err.Error(),
		Cause:   err,
	})
}

// AddMessage records a validation error with a custom message.
func (v *ValidationErrors) AddMessage(field, message string) {
	if message == "" {
		return
	}
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

// Err returns nil if there are no errors, otherwise returns the validation error.
func (v *ValidationErrors) Err() error {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Error implements error.
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return "validation failed"
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	var builder strings.Builder
	for i, err := range v.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.Error())
	}

	return builder.String()
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}
