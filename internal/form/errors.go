package form

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid descriptor list or payload mapping.
// It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "form config: " + e.Reason
	}
	return fmt.Sprintf("form config: field %q: %s", e.Field, e.Reason)
}

// UnknownFieldError is returned when a field name is outside the form domain
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown form field %q", e.Name)
}

// InvalidChoiceError is returned when a dropdown value is not one of its options
type InvalidChoiceError struct {
	Field   string
	Value   string
	Options []string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid value %q for %s (allowed: %s)", e.Value, e.Field, strings.Join(e.Options, ", "))
}
