package validate

import (
	"regexp"
)

// Predicate is a pure validation function: given a value and the
// dot-joined path it was found at, it reports the conformed value (a
// per-field transformation may have been applied) together with any
// validation errors. An empty error slice means the value conforms.
type Predicate func(value any, path string) (conformed any, errs []*FieldError)

func fail(path, message string, got any) []*FieldError {
	return []*FieldError{{Path: path, Message: message, Got: got}}
}

// String requires value to be a string.
func String() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		s, ok := value.(string)
		if !ok {
			return value, fail(path, "must be a string", value)
		}
		return s, nil
	}
}

// Bytes requires value to be a []byte.
func Bytes() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		b, ok := value.([]byte)
		if !ok {
			return value, fail(path, "must be a byte buffer", value)
		}
		return b, nil
	}
}

// Bool requires value to be a bool.
func Bool() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		b, ok := value.(bool)
		if !ok {
			return value, fail(path, "must be a boolean", value)
		}
		return b, nil
	}
}

// Int requires value to be an integer (int or int64).
func Int() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		default:
			return value, fail(path, "must be an integer", value)
		}
	}
}

// Regexp requires value to be a *regexp.Regexp.
func Regexp() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		re, ok := value.(*regexp.Regexp)
		if !ok {
			return value, fail(path, "must be a regular expression", value)
		}
		return re, nil
	}
}

// Absent requires value to be nil (the field was not set at all).
func Absent() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		if value != nil {
			return value, fail(path, "must be absent", value)
		}
		return value, nil
	}
}

// Any accepts any value, including nil, without modification. Used as
// a schema leaf where a field's shape is intentionally unconstrained.
func Any() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		return value, nil
	}
}
