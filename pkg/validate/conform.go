package validate

// Conform runs p against value at the root path and returns the
// conformed value, or raises an *Error aggregating every FieldError
// produced, per spec.md §4.3's top-level adapter.
func Conform(p Predicate, value any) (any, error) {
	conformed, errs := p(value, "")
	if len(errs) == 0 {
		return conformed, nil
	}
	return nil, &Error{Fields: errs}
}
