package client

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/hungertracker/hungerd/pkg/phone"
)

// ValidationError reports a single rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired rejects blank values. Pure and idempotent: validating the
// same input twice yields the same verdict.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// ValidateEmail checks RFC 5322 address syntax.
func ValidateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: "email", Message: "must not be empty"}
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

// ValidatePhone normalizes the number and checks the result is plausible.
func ValidatePhone(value string) error {
	normalized := phone.Normalize(value)
	if !phone.Valid(normalized) {
		return &ValidationError{Field: "phone_number", Message: "must be a valid phone number"}
	}
	return nil
}

// ValidateUsername bounds the username length.
func ValidateUsername(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{Field: "username", Message: "must not be empty"}
	}
	if len(trimmed) > 30 {
		return &ValidationError{Field: "username", Message: "must be at most 30 characters"}
	}
	return nil
}

// ValidatePassword enforces the server's minimum length.
func ValidatePassword(value string) error {
	if len(value) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}
