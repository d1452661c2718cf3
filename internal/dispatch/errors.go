package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHandler means the dispatcher has no handler bound to the request type.
// This is a configuration problem, not a per-request condition: main treats a
// failed registration as fatal before the server starts accepting traffic.
var ErrNoHandler = errors.New("no handler registered for request type")

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors struct {
	Violations []Violation
}

func (ve *ValidationErrors) Error() string {
	messages := make([]string, len(ve.Violations))
	for i, violation := range ve.Violations {
		messages[i] = violation.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Messages returns the bare violation messages, in rule order.
func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Violations))
	for i, violation := range ve.Violations {
		messages[i] = violation.Message
	}
	return messages
}

func NewValidationErrors(violations []Violation) error {
	return &ValidationErrors{Violations: violations}
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
