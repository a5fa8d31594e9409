package profile

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected intake field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError reports malformed intake values
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
	}
	return "invalid intake fields: " + strings.Join(parts, ", ")
}
