package httpmock

import "strings"

// headerField is one "Name: Value" line as observed on the wire, kept
// in the exact case it was sent.
type headerField struct {
	Name  string
	Value string
}

// Headers is an ordered multimap of header fields, grounded on the
// Open Question decision in DESIGN.md: Go's net/http.Header folds
// every name through textproto.CanonicalMIMEHeaderKey, which destroys
// the wire case spec.md §4.4 and §9 require predicates to see. Headers
// keeps every field exactly as parsed, in arrival order, so repeated
// names stay distinct and "X-Bloop" never becomes indistinguishable
// from "x-bloop".
type Headers []headerField

// Add appends a field, preserving name and value exactly as given.
func (h *Headers) Add(name, value string) {
	*h = append(*h, headerField{Name: name, Value: value})
}

// Get returns the value of the first field whose name exactly matches
// name (case-sensitive), or "" if none does.
func (h Headers) Get(name string) string {
	for _, f := range h {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Has reports whether any field's name exactly matches name.
func (h Headers) Has(name string) bool {
	for _, f := range h {
		if f.Name == name {
			return true
		}
	}
	return false
}

// GetFold returns the value of the first field whose name matches name
// under case folding, ignoring wire case. RFC 7230 header field names
// are case-insensitive; this is used only for framing decisions
// (Content-Length, Transfer-Encoding), never for predicate matching,
// which stays case-sensitive on the wire per spec.md §4.4/§9.
func (h Headers) GetFold(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// ToPredicateRecord builds the map[string]any predicate.Compare's
// KindRecord rule expects: a single string for a name seen once, or a
// []any of strings, in arrival order, for a name repeated — matching
// spec.md §4.4's "ordered sequence of strings for repeated names" and
// the comparator's sequence-prefix rule for repeated-header predicates.
func (h Headers) ToPredicateRecord() map[string]any {
	out := make(map[string]any, len(h))
	order := make(map[string]int, len(h))
	for _, f := range h {
		if i, seen := order[f.Name]; seen {
			switch existing := out[f.Name].(type) {
			case []any:
				out[f.Name] = append(existing, f.Value)
			default:
				out[f.Name] = []any{out[f.Name], f.Value}
			}
			_ = i
			continue
		}
		order[f.Name] = len(order)
		out[f.Name] = f.Value
	}
	return out
}
