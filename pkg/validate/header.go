package validate

import "golang.org/x/net/http/httpguts"

// HeaderName validates that a string is a legal HTTP header field name
// per RFC 7230, grounded on the teacher's transitive dependency on
// golang.org/x/net/http/httpguts for its own header handling. A mock
// declaration with an illegal header name fails validation rather than
// silently producing a header a real client or server would reject.
func HeaderName() Predicate {
	return func(value any, path string) (any, []*FieldError) {
		s, ok := value.(string)
		if !ok {
			return value, []*FieldError{{Path: path, Message: "not a string", Got: value}}
		}
		if !httpguts.ValidHeaderFieldName(s) {
			return value, []*FieldError{{Path: path, Message: "not a valid HTTP header field name", Got: value}}
		}
		return value, nil
	}
}
