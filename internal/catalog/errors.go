// Package catalog provides the immutable role catalog used by the scoring engine.
package catalog

import "fmt"

// ConfigurationError reports a malformed or missing role catalog.
// It is raised at load time and is not recoverable at runtime.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := "catalog configuration error"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
