package extract

import (
	"errors"
	"strings"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("entitysql: invalid entity description")

// ConfigurationError reports an entity description that cannot be turned
// into a table. It signals a definition-time mistake and is never retried.
type ConfigurationError struct {
	Entity  string // entity name, if known
	Field   string // field name or position, if applicable
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("entitysql: configuration error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func newConfigurationError(entity, field, message string) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Field: field, Message: message}
}
