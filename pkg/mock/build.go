package mock

import (
	"regexp"

	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
	"github.com/griffinmyers/wirepig/pkg/validate"
)

// leafPredicateSchema validates that an HTTP structured-predicate field is
// one of the shapes spec.md §3 allows: absent, string, []byte,
// *regexp.Regexp, or a callable. Grounded on the teacher's cascading
// per-field Validate() style in pkg/mock/validator.go, recast as a
// pkg/validate combinator so every bad field is reported at once
// instead of failing fast on the first.
func leafPredicateSchema() validate.Predicate {
	isCallable := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(func(any) (bool, error)); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a callable", Got: value}}
		}
		return value, nil
	}
	isRegex := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(*regexp.Regexp); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a regex", Got: value}}
		}
		return value, nil
	}
	// Callers may also pass an already-built predicate.Value directly
	// (e.g. predicate.JSON(...) or predicate.JSONSchema(...)), bypassing
	// the literal/regex/callable shapes this schema otherwise enforces.
	isPredicateValue := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(predicate.Value); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a predicate value", Got: value}}
		}
		return value, nil
	}
	return validate.Or(validate.Absent(), validate.String(), validate.Bytes(), isRegex, isCallable, isPredicateValue)
}

func headerFieldSchema() validate.Predicate {
	leaf := leafPredicateSchema()
	return validate.Or(leaf, validate.Array(leaf))
}

// buildLeafPredicate compiles a validated leaf value into a
// predicate.Value. The schema above has already rejected anything
// that doesn't fit one of these cases.
func buildLeafPredicate(v any) predicate.Value {
	switch t := v.(type) {
	case nil:
		return predicate.Absent()
	case string:
		return predicate.Str(t)
	case []byte:
		return predicate.Bytes(t)
	case *regexp.Regexp:
		return predicate.Regex(t)
	case func(any) (bool, error):
		return predicate.Func(t, "")
	case predicate.Value:
		return t
	default:
		return predicate.Absent()
	}
}

func buildHeaderFieldPredicate(v any) predicate.Value {
	if items, ok := v.([]any); ok {
		vals := make([]predicate.Value, len(items))
		for i, item := range items {
			vals[i] = buildLeafPredicate(item)
		}
		return predicate.Seq(vals...)
	}
	return buildLeafPredicate(v)
}

// BuildHTTP validates decl and compiles it into a pending HTTP Mock.
// Returns a *validate.Error (never a bare error from elsewhere) if
// decl is malformed, per spec.md §7 taxonomy 1.
func BuildHTTP(decl Declaration) (*Mock, error) {
	schema := validate.Object(map[string]validate.Predicate{
		"whole":         leafWholeSchema(),
		"method":        leafPredicateSchema(),
		"path":          leafPredicateSchema(),
		"query":         leafPredicateSchema(),
		"headers":       validate.Or(validate.Absent(), validate.Mapping(validate.HeaderName(), headerFieldSchema())),
		"body":          leafPredicateSchema(),
		"resWhole":      responseWholeSchema(),
		"resBody":       responseLeafSchema(),
		"statusCode":    responseLeafSchema(),
		"resHeaders":    validate.Or(validate.Absent(), validate.Mapping(validate.HeaderName(), responseLeafSchema())),
		"headerDelayMs": responseLeafSchema(),
		"bodyDelayMs":   responseLeafSchema(),
		"destroySocket": responseLeafSchema(),
	})

	input := map[string]any{
		"whole":         decl.Whole,
		"method":        decl.Method,
		"path":          decl.Path,
		"query":         decl.Query,
		"headers":       decl.Headers,
		"body":          decl.Body,
		"resWhole":      decl.ResWhole,
		"resBody":       decl.ResBody,
		"statusCode":    decl.StatusCode,
		"resHeaders":    decl.ResHeaders,
		"headerDelayMs": decl.HeaderDelayMs,
		"bodyDelayMs":   decl.BodyDelayMs,
		"destroySocket": decl.DestroySocket,
	}

	if _, err := validate.Conform(schema, input); err != nil {
		return nil, err
	}

	m := &Mock{ID: NewID(), Protocol: ProtocolHTTP, Name: decl.Name, isHead: true}

	if decl.Whole != nil {
		m.HTTPReq.Whole = buildLeafPredicate(decl.Whole)
	} else {
		m.HTTPReq.Method = buildLeafPredicate(decl.Method)
		m.HTTPReq.Path = buildLeafPredicate(decl.Path)
		m.HTTPReq.Query = buildLeafPredicate(decl.Query)
		m.HTTPReq.Headers = buildHeaderRecordPredicate(decl.Headers)
		m.HTTPReq.Body = buildLeafPredicate(decl.Body)
	}

	if decl.ResWhole != nil {
		m.HTTPRes.Whole = buildResponseWhole(decl.ResWhole)
	} else {
		m.HTTPRes.Body = buildResponseLeaf(decl.ResBody)
		m.HTTPRes.StatusCode = buildResponseLeaf(decl.StatusCode)
		m.HTTPRes.Headers = buildResponseHeaders(decl.ResHeaders)
		m.HTTPRes.HeaderDelayMs = buildResponseLeaf(decl.HeaderDelayMs)
		m.HTTPRes.BodyDelayMs = buildResponseLeaf(decl.BodyDelayMs)
		m.HTTPRes.DestroySocket = buildResponseLeaf(decl.DestroySocket)
	}

	return m, nil
}

// BuildTCP validates decl and compiles it into a pending TCP Mock,
// enforcing the init-xor-(req,res) invariant from spec.md §3.
func BuildTCP(decl Declaration) (*Mock, error) {
	hasInit := decl.Init != nil
	hasReqRes := decl.Req != nil || decl.TCPResBody != nil

	if hasInit && hasReqRes {
		return nil, &validate.Error{Fields: []*validate.FieldError{{
			Path:    "",
			Message: "exactly one of init or (req, res) may be populated",
			Got:     "both",
		}}}
	}
	if !hasInit && !hasReqRes {
		return nil, &validate.Error{Fields: []*validate.FieldError{{
			Path:    "",
			Message: "exactly one of init or (req, res) must be populated",
			Got:     "neither",
		}}}
	}

	schema := validate.Object(map[string]validate.Predicate{
		"init":          responseLeafSchema(),
		"req":           leafPredicateSchema(),
		"tcpResBody":    responseLeafSchema(),
		"bodyDelayMs":   responseLeafSchema(),
		"destroySocket": responseLeafSchema(),
	})
	input := map[string]any{
		"init":          decl.Init,
		"req":           decl.Req,
		"tcpResBody":    decl.TCPResBody,
		"bodyDelayMs":   decl.BodyDelayMs,
		"destroySocket": decl.DestroySocket,
	}
	if _, err := validate.Conform(schema, input); err != nil {
		return nil, err
	}

	m := &Mock{ID: NewID(), Protocol: ProtocolTCP, Name: decl.Name, isHead: true}

	if hasInit {
		m.IsInit = true
		m.Init = buildResponseLeaf(decl.Init)
	} else {
		m.TCPReq = buildLeafPredicate(decl.Req)
		m.TCPRes.Body = buildResponseLeaf(decl.TCPResBody)
		m.TCPRes.BodyDelayMs = buildResponseLeaf(decl.BodyDelayMs)
		m.TCPRes.DestroySocket = buildResponseLeaf(decl.DestroySocket)
	}

	return m, nil
}

// BuildTCPTail validates decl and compiles it into a tail Mock pinned
// to head's connection. head is promoted to a pinning-group head (it
// gets a *pinGroup, created lazily on the first child) if it is not
// already one; per spec.md §4.5 a child may not itself be an init mock.
func BuildTCPTail(head *Mock, decl Declaration) (*Mock, error) {
	if head.Protocol != ProtocolTCP {
		return nil, &validate.Error{Fields: []*validate.FieldError{{
			Message: "pinned children are TCP-only", Got: head.Protocol,
		}}}
	}
	if decl.Init != nil {
		return nil, &validate.Error{Fields: []*validate.FieldError{{
			Message: "a pinned child may not be an init mock", Got: decl.Init,
		}}}
	}

	child, err := BuildTCP(decl)
	if err != nil {
		return nil, err
	}

	if head.pin == nil {
		head.pin = &pinGroup{}
	}
	child.isHead = false
	child.pin = head.pin
	return child, nil
}

func buildHeaderRecordPredicate(v any) predicate.Value {
	m, ok := v.(map[string]any)
	if !ok {
		return predicate.Absent()
	}
	fields := make(map[string]predicate.Value, len(m))
	for k, hv := range m {
		fields[k] = buildHeaderFieldPredicate(hv)
	}
	return predicate.Record(fields)
}

func leafWholeSchema() validate.Predicate {
	isCallable := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(func(any) (bool, error)); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a callable", Got: value}}
		}
		return value, nil
	}
	return validate.Or(validate.Absent(), isCallable)
}

func responseWholeSchema() validate.Predicate {
	isCallable := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(func(any, []byte) (any, error)); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a callable", Got: value}}
		}
		return value, nil
	}
	return validate.Or(validate.Absent(), isCallable)
}

// responseLeafSchema validates a response-descriptor field, which may
// be a literal (string/[]byte/int64/int/bool) or a callable
// (args...) -> (any, error).
func responseLeafSchema() validate.Predicate {
	isCallable := func(value any, path string) (any, []*validate.FieldError) {
		if _, ok := value.(func(...any) (any, error)); !ok {
			return value, []*validate.FieldError{{Path: path, Message: "not a callable", Got: value}}
		}
		return value, nil
	}
	isLiteral := func(value any, path string) (any, []*validate.FieldError) {
		switch value.(type) {
		case string, []byte, int, int64, bool:
			return value, nil
		default:
			return value, []*validate.FieldError{{Path: path, Message: "not a literal", Got: value}}
		}
	}
	return validate.Or(validate.Absent(), isLiteral, isCallable)
}

func buildResponseLeaf(v any) resolve.Value {
	switch t := v.(type) {
	case nil:
		return resolve.Value{}
	case string:
		return resolve.Str(t)
	case []byte:
		return resolve.Bytes(t)
	case int:
		return resolve.Int(int64(t))
	case int64:
		return resolve.Int(t)
	case bool:
		return resolve.Bool(t)
	case func(...any) (any, error):
		return resolve.Func(t, "")
	case resolve.Value:
		return t
	default:
		return resolve.Value{}
	}
}

func buildResponseWhole(v any) resolve.Value {
	fn, ok := v.(func(any, []byte) (any, error))
	if !ok {
		return resolve.Value{}
	}
	return resolve.Func(func(args ...any) (any, error) {
		var req any
		var body []byte
		if len(args) > 0 {
			req = args[0]
		}
		if len(args) > 1 {
			body, _ = args[1].([]byte)
		}
		return fn(req, body)
	}, "")
}

func buildResponseHeaders(v any) resolve.Value {
	m, ok := v.(map[string]any)
	if !ok {
		return resolve.Value{}
	}
	fields := make(map[string]resolve.Value, len(m))
	for k, hv := range m {
		fields[k] = buildResponseLeaf(hv)
	}
	return resolve.Headers(fields)
}
