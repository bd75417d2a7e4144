package resolve

// Value is a polymorphic response descriptor: either a literal value
// already in its final shape, or a callable that is invoked at resolve
// time to produce one. It mirrors predicate.Value's tagged-union shape
// (spec.md §3) but on the response side, where the possible literal
// shapes are []byte, string, int64, bool, and map[string]Value rather
// than predicate leaves.
type Value struct {
	isCallable bool
	literal    any
	fn         CallableFunc
	name       string
}

// CallableFunc is a user-supplied response function. It receives the
// arguments the coercer was called with (conventionally the matched
// request and its body) and returns the value to resolve, or an error
// to signal a fault. A CallableFunc may also panic; both are treated
// identically by the coercers: the fault is swallowed and resolution
// falls through to the coercer's documented default.
type CallableFunc func(args ...any) (any, error)

// Bytes wraps a literal []byte.
func Bytes(b []byte) Value { return Value{literal: append([]byte(nil), b...)} }

// Str wraps a literal string.
func Str(s string) Value { return Value{literal: s} }

// Int wraps a literal integer.
func Int(i int64) Value { return Value{literal: i} }

// Bool wraps a literal bool.
func Bool(b bool) Value { return Value{literal: b} }

// Headers wraps a literal header map. Values may themselves be Values
// (including callables), so a single header can be resolved lazily.
func Headers(m map[string]Value) Value { return Value{literal: m} }

// Func wraps fn as a callable response descriptor. name is used only
// for diagnostics.
func Func(fn CallableFunc, name string) Value {
	return Value{isCallable: true, fn: fn, name: name}
}

// IsSet reports whether v carries a callable or a non-nil literal, as
// opposed to the zero Value (absent). Used by callers that need to
// distinguish "no descriptor was supplied" from "resolves to nil".
func IsSet(v Value) bool {
	return v.isCallable || v.literal != nil
}

// Resolve invokes v with args and returns its raw resolved value,
// without coercing it to any particular shape. Used when the caller
// needs to inspect the resolved value's own type, e.g. a whole-response
// callable that returns a map[string]any of sub-fields.
func Resolve(v Value, args ...any) (any, bool) {
	return resolveOnce(v, args...)
}

// Lift wraps a raw value (as might come from decoding a whole-response
// callable's map[string]any result) into a literal Value, so the
// coercers in coerce.go can be reused on it. A Value passed in is
// returned unchanged.
func Lift(raw any) Value {
	if v, ok := raw.(Value); ok {
		return v
	}
	return Value{literal: raw}
}

// resolveOnce invokes v if it is callable, swallowing any fault (error
// or panic) into (nil, false). A non-callable Value resolves to its
// literal immediately.
func resolveOnce(v Value, args ...any) (result any, ok bool) {
	if !v.isCallable {
		return v.literal, true
	}
	if v.fn == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			result, ok = nil, false
		}
	}()
	out, err := v.fn(args...)
	if err != nil {
		return nil, false
	}
	return out, true
}
