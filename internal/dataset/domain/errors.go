package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource = errors.New("empty_source")
)

// SchemaError reports a missing or mistyped required column at load time.
// It is fatal to the load call and never silently patched.
type SchemaError struct {
	Table  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("schema error: table %q missing required field %q", e.Table, e.Field)
	}
	return fmt.Sprintf("schema error: table %q field %q: %s", e.Table, e.Field, e.Reason)
}

func NewSchemaError(table, field, reason string) *SchemaError {
	return &SchemaError{Table: table, Field: field, Reason: reason}
}
