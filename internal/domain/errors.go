package domain

import "fmt"

// ValidationError reports a malformed or incomplete input bundle.
type ValidationError struct {
	Section string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Section == "" {
		return "invalid bundle: " + e.Reason
	}
	return fmt.Sprintf("invalid bundle: %s: %s", e.Section, e.Reason)
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(section, format string, args ...any) *ValidationError {
	return &ValidationError{Section: section, Reason: fmt.Sprintf(format, args...)}
}

// ComputationError reports a failed projection run. No partial ledger
// accompanies it.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("projection %s failed: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
