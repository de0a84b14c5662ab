// Package validator applies declarative field rules to request payloads.
// Rules carry caller-supplied messages so the HTTP layer can surface
// user-facing text in the client's language.
package validator

import (
	"errors"
	"regexp"
	"strings"
)

// ValidationError is a single failed rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed rule for a payload.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, err.Field+": "+err.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Rule is a single check with the error to report when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs the rules in order and returns the accumulated
// ValidationErrors, or nil when everything passes.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Extract returns the ValidationErrors inside err, or nil when err is not a
// validation failure.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Required fails when the value is empty after trimming whitespace.
func Required(field, value, message string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: message},
	}
}

// MinLen fails when the value is shorter than min bytes.
func MinLen(field, value string, min int, message string) Rule {
	return Rule{
		Check: func() bool { return len(value) >= min },
		Error: ValidationError{Field: field, Message: message},
	}
}

// MaxLen fails when the value is longer than max bytes.
func MaxLen(field, value string, max int, message string) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: ValidationError{Field: field, Message: message},
	}
}

// Matches fails when the value does not match the pattern. Patterns are
// compiled once by the caller and reused across requests.
func Matches(field, value string, pattern *regexp.Regexp, message string) Rule {
	return Rule{
		Check: func() bool { return pattern.MatchString(value) },
		Error: ValidationError{Field: field, Message: message},
	}
}

// Optional skips the wrapped rule when the value is empty, for fields that
// are validated only when present.
func Optional(value string, rule Rule) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return true
			}
			return rule.Check()
		},
		Error: rule.Error,
	}
}

// Equals fails when the two values differ, as with password confirmation.
func Equals(field, value, other, message string) Rule {
	return Rule{
		Check: func() bool { return value == other },
		Error: ValidationError{Field: field, Message: message},
	}
}
