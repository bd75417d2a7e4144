package predicate

import (
	"bytes"
	"encoding/json"
	"reflect"
	"regexp"
)

// Compare reports whether desired describes actual, applying the rules
// of spec.md §4.1 in order:
//
//  1. desired absent -> true
//  2. desired callable -> invoke; any fault or non-bool result -> false
//  3. both maps -> recurse per key, desired's keys only, missing actual
//     keys treated as absent
//  4. both sequences -> recurse per index, desired may be a prefix
//  5. both byte buffers -> byte-exact equality
//  6. bytes <-> string -> compare via UTF-8 interpretation
//  7. both strings -> exact, case-sensitive equality
//  8. regex vs string/bytes -> regex test against the UTF-8 interpretation
//  9. otherwise -> false
//
// Compare is pure and total: calling it twice with the same arguments
// always returns the same result, and it never panics.
func Compare(desired Value, actual any) bool {
	switch desired.kind {
	case KindAbsent:
		return true
	case KindCallable:
		ok, err := invoke(desired.fn, actual)
		return err == nil && ok
	case KindRecord:
		return compareRecord(desired, actual)
	case KindSequence:
		return compareSequence(desired, actual)
	case KindLiteral:
		return compareLiteral(desired.literal, actual)
	case KindRegex:
		return compareRegex(desired.regex, actual)
	case KindJSON:
		return compareJSON(desired, actual)
	case KindJSONSchema:
		return compareJSONSchema(desired, actual)
	case KindScalar:
		return compareScalar(desired.scalar, actual)
	default:
		return false
	}
}

// invoke calls fn, converting a panic into an error so a faulty
// user-supplied predicate can never crash the matching engine
// (spec.md §4.1 rule 2, §7 taxonomy 2).
func invoke(fn CallableFunc, actual any) (ok bool, err error) {
	if fn == nil {
		return false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, errFault
		}
	}()
	return fn(actual)
}

var errFault = faultError("predicate callable raised a fault")

type faultError string

func (e faultError) Error() string { return string(e) }

func compareRecord(desired Value, actual any) bool {
	am, ok := actual.(map[string]any)
	if !ok {
		return false
	}
	for key, dv := range desired.fields {
		if !Compare(dv, am[key]) {
			return false
		}
	}
	return true
}

func compareSequence(desired Value, actual any) bool {
	as, ok := actual.([]any)
	if !ok {
		return false
	}
	for i, dv := range desired.items {
		var av any
		if i < len(as) {
			av = as[i]
		}
		if !Compare(dv, av) {
			return false
		}
	}
	return true
}

func compareLiteral(want []byte, actual any) bool {
	switch v := actual.(type) {
	case []byte:
		return bytes.Equal(want, v)
	case string:
		return bytes.Equal(want, []byte(v))
	default:
		return false
	}
}

func compareRegex(re *regexp.Regexp, actual any) bool {
	if re == nil {
		return false
	}
	switch v := actual.(type) {
	case []byte:
		return re.Match(v)
	case string:
		return re.MatchString(v)
	default:
		return false
	}
}

func compareScalar(want any, actual any) bool {
	return reflect.DeepEqual(want, actual)
}

func compareJSON(desired Value, actual any) bool {
	if desired.inner == nil {
		return false
	}
	var data []byte
	switch v := actual.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return false
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return false
	}
	return Compare(*desired.inner, decoded)
}
