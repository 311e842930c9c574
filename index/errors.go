package index

import "github.com/cockroachdb/errors"

// ConfigurationError wraps an invalid constructor argument. bpptree.New
// validates its configuration up front and returns this error rather than
// panicking; the comparison baselines' constructors do not return it.
type ConfigurationError struct {
	Field string
	Value any
	err   error
}

func (e *ConfigurationError) Error() string { return e.err.Error() }
func (e *ConfigurationError) Unwrap() error { return e.err }

// NewConfigurationError builds a ConfigurationError for field/value with a
// human-readable reason.
func NewConfigurationError(field string, value any, reason string) *ConfigurationError {
	return &ConfigurationError{
		Field: field,
		Value: value,
		err:   errors.Newf("invalid %s=%v: %s", field, value, reason),
	}
}

// InvariantViolation marks a debug-mode assertion failure. It is always
// fatal to the operation in progress; the caller should consider the tree
// poisoned. Only ever raised by code compiled under the bpptreedebug build
// tag.
type InvariantViolation struct {
	err error
}

func (e *InvariantViolation) Error() string { return e.err.Error() }
func (e *InvariantViolation) Unwrap() error { return e.err }

// NewInvariantViolation builds an InvariantViolation from a format string,
// attaching a stack trace via cockroachdb/errors' assertion-failure kind.
func NewInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{err: errors.AssertionFailedf(format, args...)}
}
