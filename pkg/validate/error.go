package validate

import (
	"fmt"
	"strings"
)

// FieldError is a single validation failure at a specific path.
// Rendered as `` `<path>` <message> (got <value>)``, matching the
// dot-joined path format mock declarations are reported with.
type FieldError struct {
	Path    string
	Message string
	Got     any
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteByte('`')
	b.WriteString(e.Path)
	b.WriteString("` ")
	b.WriteString(e.Message)
	b.WriteString(" (got ")
	b.WriteString(inspect(e.Got))
	b.WriteByte(')')
	return b.String()
}

// Error is raised by Conform when one or more fields fail validation.
// It carries every FieldError so a caller can report the whole set at
// once, not just the first failure.
type Error struct {
	Fields []*FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "\n")
}

// inspect renders a value for a FieldError's "got" clause. Kept small
// and dependency-free: validation errors only need a short, readable
// echo of the offending value, not a full pretty-printer.
func inspect(v any) string {
	switch t := v.(type) {
	case nil:
		return "undefined"
	case string:
		return "\"" + t + "\""
	case []byte:
		return "\"" + string(t) + "\""
	default:
		return fmt.Sprintf("%v", t)
	}
}
