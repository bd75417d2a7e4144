package resolve

// DefaultStatusCode is the status code ToStatusCode falls back to when
// the resolved value is not an integer, per spec.md §4.2.
const DefaultStatusCode = 200

// ToBytes resolves v (invoking it with args if callable) and coerces
// the result to bytes: bytes pass through, strings are UTF-8 encoded,
// and anything else — including a swallowed fault — resolves to an
// empty buffer.
func ToBytes(v Value, args ...any) []byte {
	result, ok := resolveOnce(v, args...)
	if !ok {
		return []byte{}
	}
	switch t := result.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte{}
	}
}

// ToInt resolves v and coerces the result to an integer, falling back
// to def when the resolved value is not an integer or the call faulted.
func ToInt(v Value, def int64, args ...any) int64 {
	result, ok := resolveOnce(v, args...)
	if !ok {
		return def
	}
	switch t := result.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	default:
		return def
	}
}

// ToStatusCode is ToInt with the dedicated status-code default of 200.
func ToStatusCode(v Value, args ...any) int64 {
	return ToInt(v, DefaultStatusCode, args...)
}

// ToBool resolves v and coerces the result to a bool, falling back to
// false when the resolved value is not a bool or the call faulted.
func ToBool(v Value, args ...any) bool {
	result, ok := resolveOnce(v, args...)
	if !ok {
		return false
	}
	b, isBool := result.(bool)
	return isBool && b
}

// ToHeaders resolves v to a header map, then resolves every value in
// that map with ToBytes. A non-map result, or a swallowed fault,
// yields an empty map rather than propagating.
func ToHeaders(v Value, args ...any) map[string][]byte {
	result, ok := resolveOnce(v, args...)
	if !ok {
		return map[string][]byte{}
	}

	out := map[string][]byte{}
	switch t := result.(type) {
	case map[string]Value:
		for k, hv := range t {
			out[k] = ToBytes(hv, args...)
		}
	case map[string]any:
		for k, raw := range t {
			out[k] = ToBytes(toValue(raw), args...)
		}
	default:
		return map[string][]byte{}
	}
	return out
}

// toValue lifts a raw any into a literal Value so ToHeaders can reuse
// ToBytes for map[string]any inputs (e.g. a header map built from a
// decoded YAML mock set) the same way it does for map[string]Value.
func toValue(raw any) Value {
	switch t := raw.(type) {
	case Value:
		return t
	default:
		return Value{literal: t}
	}
}
