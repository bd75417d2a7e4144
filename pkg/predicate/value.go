package predicate

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Kind identifies which variant of the polymorphic predicate a Value holds.
type Kind int

// Predicate kinds, in the order the comparator considers them.
const (
	// KindAbsent is the wildcard: it matches anything.
	KindAbsent Kind = iota
	// KindLiteral holds a literal string or byte buffer.
	KindLiteral
	// KindRegex holds a compiled regular expression.
	KindRegex
	// KindCallable holds a user-supplied predicate function.
	KindCallable
	// KindRecord holds a map of field name to nested Value.
	KindRecord
	// KindSequence holds an ordered list of nested Values.
	KindSequence
	// KindJSON holds a Value tree to compare against a JSON-decoded actual.
	KindJSON
	// KindJSONSchema holds a compiled JSON Schema to validate the actual against.
	KindJSONSchema
	// KindScalar holds a non-string JSON scalar (bool, float64, or nil),
	// used internally by JSON-tree construction; not constructible directly.
	KindScalar
)

// CallableFunc is a user-supplied predicate. It receives the actual value
// being matched (a string, []byte, or map[string]any, depending on where
// the predicate sits in the tree, or the listener's request environment
// for a whole-request predicate) and reports whether it matches.
//
// A CallableFunc may return an error instead of panicking to signal a
// fault; either way, the comparator treats the call as "no match" and
// never lets the fault escape to the caller.
type CallableFunc func(actual any) (bool, error)

// Value is a polymorphic predicate leaf or tree, per spec.md §3 and §9's
// tagged-union design note: Literal(bytes|string) | Regex | Callable(Fn) |
// Absent | Record(fields) | Sequence(items), plus the JSON and JSONSchema
// extensions documented in SPEC_FULL.md's domain stack.
type Value struct {
	kind Kind

	literal []byte // KindLiteral
	regex   *regexp.Regexp
	fn      CallableFunc
	name    string // source name for callables, used in the printable form
	fields  map[string]Value
	items   []Value
	inner   *Value // KindJSON: the tree to compare the decoded body against
	schema  jsonSchemaValidator
	scalar  any // KindScalar: bool, float64, or nil
}

// Absent is the wildcard predicate: it matches any actual value,
// including a missing field.
func Absent() Value { return Value{kind: KindAbsent} }

// IsAbsent reports whether v is the wildcard predicate.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str builds a literal string predicate.
func Str(s string) Value { return Value{kind: KindLiteral, literal: []byte(s)} }

// Bytes builds a literal byte-buffer predicate.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindLiteral, literal: cp}
}

// Regex builds a predicate from an already-compiled regular expression.
func Regex(re *regexp.Regexp) Value { return Value{kind: KindRegex, regex: re} }

// RegexString compiles pattern and builds a regex predicate from it.
func RegexString(pattern string) (Value, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Value{}, fmt.Errorf("predicate: invalid regex %q: %w", pattern, err)
	}
	return Regex(re), nil
}

// Func wraps fn as a callable predicate. name is used only for the
// printable form (spec.md §6): mocks display callables "by their source
// name" rather than dumping the closure.
func Func(fn CallableFunc, name string) Value {
	return Value{kind: KindCallable, fn: fn, name: name}
}

// Record builds a structured predicate over named fields. Matching
// recurses into each field of desired; fields absent from fields are
// simply not checked (equivalent to being set to Absent()).
func Record(fields map[string]Value) Value {
	return Value{kind: KindRecord, fields: fields}
}

// Seq builds a sequence predicate. desired may be a strict prefix of the
// actual sequence: trailing actual elements beyond len(items) are ignored.
func Seq(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// JSON builds a predicate that JSON-decodes the actual value (expected to
// be a []byte or string) and recursively compares the decoded tree
// against v, converted to the same shape json.Unmarshal would produce.
// This grounds the "jsonMatch" scenario in spec.md §8.
func JSON(v any) Value {
	norm := normalizeJSON(v)
	inner := fromDecodedJSON(norm)
	return Value{kind: KindJSON, inner: &inner}
}

// normalizeJSON round-trips v through the JSON codec so arbitrary Go
// values (structs, typed maps, ints) collapse to the same six shapes
// json.Unmarshal produces: map[string]any, []any, string, float64, bool,
// nil. A round-trip failure degrades to the original value, which
// fromDecodedJSON's default case then treats as a literal scalar.
func normalizeJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return v
	}
	return decoded
}

func fromDecodedJSON(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{kind: KindScalar, scalar: nil}
	case bool:
		return Value{kind: KindScalar, scalar: t}
	case float64:
		return Value{kind: KindScalar, scalar: t}
	case string:
		return Str(t)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, vv := range t {
			fields[k] = fromDecodedJSON(vv)
		}
		return Record(fields)
	case []any:
		items := make([]Value, len(t))
		for i, vv := range t {
			items[i] = fromDecodedJSON(vv)
		}
		return Seq(items...)
	default:
		return Value{kind: KindScalar, scalar: t}
	}
}

// String renders v using the printable form spec.md §6 prescribes for
// mocks: callables show their source name, literals show their raw text,
// and absent values render as nothing (callers suppress empty fields).
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return ""
	case KindLiteral:
		return string(v.literal)
	case KindRegex:
		if v.regex == nil {
			return "/.../"
		}
		return "/" + v.regex.String() + "/"
	case KindCallable:
		if v.name != "" {
			return v.name + "()"
		}
		return "function()"
	case KindRecord:
		return fmt.Sprintf("{%d fields}", len(v.fields))
	case KindSequence:
		return fmt.Sprintf("[%d items]", len(v.items))
	case KindJSON:
		return "jsonMatch(...)"
	case KindJSONSchema:
		return "jsonSchema(...)"
	case KindScalar:
		return fmt.Sprintf("%v", v.scalar)
	default:
		return "<predicate>"
	}
}
