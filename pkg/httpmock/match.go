package httpmock

import (
	"encoding/json"

	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/mockset"
	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
)

// buildEnv converts the raw parsed request into the typed environment
// scripted predicates/responses evaluate against (pkg/mockset.Expr) and
// that a whole-request/whole-response Go callable also receives as its
// "request" argument.
func buildEnv(req *request) mockset.RequestEnv {
	env := mockset.RequestEnv{
		Method:  req.Method,
		Path:    req.Path,
		Query:   req.Query,
		Headers: req.Headers.ToPredicateRecord(),
		Body:    string(req.Body),
	}
	var decoded any
	if json.Unmarshal(req.Body, &decoded) == nil {
		env.BodyJSON = decoded
	}
	return env
}

// matches reports whether m's request predicate is satisfied by req,
// per spec.md §4.4 step 3 and the header edge cases in the same
// section: header names compare case-sensitive on the wire, and an
// absent predicate field matches unconditionally.
func matches(m *mock.Mock, req *request, env mockset.RequestEnv) bool {
	if m.HTTPReq.IsWhole() {
		return predicate.Compare(m.HTTPReq.Whole, env)
	}
	if !predicate.Compare(m.HTTPReq.Method, req.Method) {
		return false
	}
	if !predicate.Compare(m.HTTPReq.Path, req.Path) {
		return false
	}
	if !predicate.Compare(m.HTTPReq.Query, req.Query) {
		return false
	}
	if !predicate.Compare(m.HTTPReq.Headers, req.Headers.ToPredicateRecord()) {
		return false
	}
	if !predicate.Compare(m.HTTPReq.Body, req.Body) {
		return false
	}
	return true
}

// resolvedResponse is the concrete form a mock's response descriptor
// resolves to, per spec.md §4.2's coercion discipline.
type resolvedResponse struct {
	StatusCode    int64
	Headers       map[string][]byte
	HeaderDelayMs int64
	BodyDelayMs   int64
	DestroySocket bool
	Body          []byte
}

// resolveResponse resolves m's response descriptor against (env, body).
// When the descriptor is a whole-response callable, its result (a
// map[string]any) supplies every sub-field; otherwise each structured
// field resolves independently. Every coercion falls back to its
// documented default on a swallowed fault (spec.md §4.2).
func resolveResponse(m *mock.Mock, env mockset.RequestEnv, body []byte) resolvedResponse {
	args := []any{env, body}

	get := func(field resolve.Value, _ string) resolve.Value { return field }
	if resolve.IsSet(m.HTTPRes.Whole) {
		if raw, ok := resolve.Resolve(m.HTTPRes.Whole, args...); ok {
			if mp, ok := raw.(map[string]any); ok {
				get = func(field resolve.Value, key string) resolve.Value {
					if v, present := mp[key]; present {
						return resolve.Lift(v)
					}
					return resolve.Value{}
				}
			}
		}
	}

	return resolvedResponse{
		StatusCode:    resolve.ToStatusCode(get(m.HTTPRes.StatusCode, "statusCode"), args...),
		Headers:       resolve.ToHeaders(get(m.HTTPRes.Headers, "headers"), args...),
		HeaderDelayMs: resolve.ToInt(get(m.HTTPRes.HeaderDelayMs, "headerDelayMs"), 0, args...),
		BodyDelayMs:   resolve.ToInt(get(m.HTTPRes.BodyDelayMs, "bodyDelayMs"), 0, args...),
		DestroySocket: resolve.ToBool(get(m.HTTPRes.DestroySocket, "destroySocket"), args...),
		Body:          resolve.ToBytes(get(m.HTTPRes.Body, "body"), args...),
	}
}
