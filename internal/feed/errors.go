package feed

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when the requested feed is missing or unknown.
type ConfigurationError struct {
	Feed  string
	Valid []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("--feed is required. Must be one of: %s", strings.Join(e.Valid, ", "))
}

// ValidationError is returned when an entry fails a field rule.
// Missing is set only for the required-field check.
type ValidationError struct {
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingFields(fields []string) *ValidationError {
	return &ValidationError{
		Missing: fields,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
	}
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
