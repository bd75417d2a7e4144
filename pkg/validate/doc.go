// Package validate implements the compositional validator used to
// check mock declarations before they are accepted onto a server.
//
// Each Predicate is a pure function (value, path) -> (conformed,
// errors). Leaf predicates check a single type (String, Bytes, Bool,
// Int, Regexp, Absent); combinators build structured predicates out of
// smaller ones (Object, Array, Mapping, Or, And, Branch, Exclusive,
// Alias). Errors carry a dot-joined path so a failure inside a nested
// structure is unambiguous, and Conform aggregates every predicate's
// errors into a single Error rather than stopping at the first one.
package validate
