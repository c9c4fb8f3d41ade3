// Package validation checks user supplied identifiers and addresses.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const maxLearnerIDLength = 128

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(field, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: field, Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: field, Message: fmt.Sprintf("invalid email format %q", email)}
	}
	return nil
}

// ValidateLearnerID checks an id used as token subject and storage key
func ValidateLearnerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ValidationError{Field: "learner_id", Message: "learner id is required"}
	}
	if len(id) > maxLearnerIDLength {
		return ValidationError{Field: "learner_id", Message: fmt.Sprintf("learner id must be at most %d bytes", maxLearnerIDLength)}
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ValidationError{Field: "learner_id", Message: "learner id must not contain whitespace"}
		}
	}
	return nil
}
