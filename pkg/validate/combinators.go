package validate

import (
	"fmt"
	"sort"
)

// Object validates value as a map[string]any against schema, applying
// each field's predicate to the corresponding key (nil when absent)
// and aggregating every field's errors — a mock declaration with three
// bad fields gets all three reported, not just the first.
func Object(schema map[string]Predicate) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		m, ok := value.(map[string]any)
		if !ok {
			return value, fail(path, "must be an object", value)
		}

		out := make(map[string]any, len(m))
		var errs []*FieldError

		keys := make([]string, 0, len(schema))
		for k := range schema {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			fieldPath := joinPath(path, key)
			conformed, fieldErrs := schema[key](m[key], fieldPath)
			errs = append(errs, fieldErrs...)
			if len(fieldErrs) == 0 {
				out[key] = conformed
			}
		}
		return out, errs
	}
}

// Array applies p to every element of value, which must be a []any.
func Array(p Predicate) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		items, ok := value.([]any)
		if !ok {
			return value, fail(path, "must be an array", value)
		}

		out := make([]any, len(items))
		var errs []*FieldError
		for i, item := range items {
			conformed, itemErrs := p(item, fmt.Sprintf("%s[%d]", path, i))
			errs = append(errs, itemErrs...)
			out[i] = conformed
		}
		return out, errs
	}
}

// Mapping applies keyP to every key (as a string) and valP to every
// value of value, which must be a map[string]any.
func Mapping(keyP, valP Predicate) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		m, ok := value.(map[string]any)
		if !ok {
			return value, fail(path, "must be a mapping", value)
		}

		out := make(map[string]any, len(m))
		var errs []*FieldError

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, keyErrs := keyP(k, joinPath(path, k)); len(keyErrs) > 0 {
				errs = append(errs, keyErrs...)
				continue
			}
			conformed, valErrs := valP(m[k], joinPath(path, k))
			errs = append(errs, valErrs...)
			out[k] = conformed
		}
		return out, errs
	}
}

// Or succeeds if any of ps conforms, returning that one's conformed
// value. If none conform, every branch's errors are reported.
func Or(ps ...Predicate) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		var all []*FieldError
		for _, p := range ps {
			conformed, errs := p(value, path)
			if len(errs) == 0 {
				return conformed, nil
			}
			all = append(all, errs...)
		}
		if len(ps) == 0 {
			return value, nil
		}
		return value, all
	}
}

// And applies every predicate in ps in sequence, threading the
// conformed value of each through to the next, and aggregates errors
// across all of them.
func And(ps ...Predicate) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		var errs []*FieldError
		current := value
		for _, p := range ps {
			conformed, pErrs := p(current, path)
			errs = append(errs, pErrs...)
			current = conformed
		}
		return current, errs
	}
}

// Branch picks the first gate in gates whose predicate conforms
// against value, then applies the corresponding entry in next. If no
// gate matches, msg is reported as the failure.
func Branch(gates []Predicate, next []Predicate, msg string) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		for i, gate := range gates {
			if _, errs := gate(value, path); len(errs) == 0 {
				return next[i](value, path)
			}
		}
		return value, fail(path, msg, value)
	}
}

// BranchCallable is Branch's late-binding specialization: value may
// additionally be a func() (any, error) that, when called, must
// itself conform to one of next's predicates. Validation returns a
// wrapper; the callable runs, and its result is checked, only when that
// wrapper is invoked. Errors from the check carry a path suffixed with
// "()" so a failing callable site is unambiguous (spec.md §4.3).
func BranchCallable(gates []Predicate, next []Predicate, msg string) Predicate {
	branch := Branch(gates, next, msg)
	return func(value any, path string) (any, []*FieldError) {
		fn, ok := value.(func() (any, error))
		if !ok {
			return branch(value, path)
		}

		wrapped := func() (any, error) {
			out, err := fn()
			if err != nil {
				return out, err
			}
			if _, errs := branch(out, path+"()"); len(errs) > 0 {
				return out, &Error{Fields: errs}
			}
			return out, nil
		}
		return wrapped, nil
	}
}

// Exclusive reports an error if value (a map[string]any) has any key
// present in both groupA and groupB, or any key from groupA together
// with any key from groupB.
func Exclusive(groupA, groupB []string) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		m, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}

		hasAny := func(group []string) (string, bool) {
			for _, k := range group {
				if v, present := m[k]; present && v != nil {
					return k, true
				}
			}
			return "", false
		}

		ka, okA := hasAny(groupA)
		kb, okB := hasAny(groupB)
		if okA && okB {
			return value, fail(path, fmt.Sprintf("cannot set both %q and %q", ka, kb), value)
		}
		return value, nil
	}
}

// Alias replaces p's error messages with msg, keeping each error's
// path and value intact. Used to surface a friendlier message at a
// combinator boundary without losing where the failure occurred.
func Alias(p Predicate, msg string) Predicate {
	return func(value any, path string) (any, []*FieldError) {
		conformed, errs := p(value, path)
		if len(errs) == 0 {
			return conformed, nil
		}
		aliased := make([]*FieldError, len(errs))
		for i, e := range errs {
			aliased[i] = &FieldError{Path: e.Path, Message: msg, Got: e.Got}
		}
		return value, aliased
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
