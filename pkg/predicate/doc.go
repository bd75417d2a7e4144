// Package predicate implements the polymorphic predicate value and the
// comparator that decides whether a predicate describes an actual value.
//
// A Value is a tagged union over the shapes a mock declaration may use at
// nearly any field: a literal string or byte buffer, a compiled regular
// expression, a callable, an absent/wildcard marker, or a nested record or
// sequence of further Values. The comparator (Compare) walks a desired
// Value against an actual Go value (string, []byte, map[string]any,
// []any, or a JSON-decoded scalar) and reports whether the desired value
// describes the actual one.
//
// Compare is total and pure: it never panics, and a fault raised by a
// user-supplied callable is swallowed into a "does not match" result
// rather than propagated, so a single bad mock cannot destabilize a
// shared server.
package predicate
