package mockset

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
)

// RequestEnv is the typed environment an Expr predicate or response
// evaluates against: the fields of the matched (or candidate) request
// spelled out so expr-lang can type-check the expression at compile
// time. BodyJSON is the JSON-decoded body, or nil if it did not parse.
type RequestEnv struct {
	Method   string
	Path     string
	Query    string
	Headers  map[string]any
	Body     string
	BodyJSON any
}

var (
	programMu    sync.RWMutex
	programCache = map[string]*vm.Program{}
)

// compile compiles source once and caches the program, grounded on
// pkg/stateful/executor.go's compileExpr double-checked cache.
func compile(source string) (*vm.Program, error) {
	programMu.RLock()
	if p, ok := programCache[source]; ok {
		programMu.RUnlock()
		return p, nil
	}
	programMu.RUnlock()

	p, err := expr.Compile(source, expr.Env(RequestEnv{}))
	if err != nil {
		return nil, err
	}

	programMu.Lock()
	if existing, ok := programCache[source]; ok {
		programMu.Unlock()
		return existing, nil
	}
	programCache[source] = p
	programMu.Unlock()
	return p, nil
}

// CompilePredicateFunc compiles source and returns a plain
// func(any) (bool, error) that evaluates it against a RequestEnv,
// suitable for Declaration.Whole or for wrapping with predicate.Func
// directly. A compile error is returned immediately (a declaration
// error); a runtime fault becomes (false, error) and a non-bool result
// becomes (false, nil), both left for the caller (predicate.Compare, for
// a Declaration built through BuildHTTP) to treat as no match.
func CompilePredicateFunc(source string) (func(any) (bool, error), error) {
	program, err := compile(source)
	if err != nil {
		return nil, err
	}
	return func(actual any) (bool, error) {
		env, ok := actual.(RequestEnv)
		if !ok {
			return false, nil
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false, err
		}
		b, ok := out.(bool)
		return ok && b, nil
	}, nil
}

// CompileResponseFunc compiles source and returns a plain
// func(any, []byte) (any, error) that evaluates it against the
// request's RequestEnv, suitable for Declaration.ResWhole.
func CompileResponseFunc(source string) (func(any, []byte) (any, error), error) {
	program, err := compile(source)
	if err != nil {
		return nil, err
	}
	return func(req any, _ []byte) (any, error) {
		env, _ := req.(RequestEnv)
		return expr.Run(program, env)
	}, nil
}

// ExprPredicate compiles source as an expr-lang expression and wraps
// it as a predicate.Value callable: the actual value passed to
// Compare must be a RequestEnv, and the expression must evaluate to a
// bool. A runtime fault or non-bool result is swallowed into
// "no match" by predicate.Compare, same as any other callable.
func ExprPredicate(source string) (predicate.Value, error) {
	fn, err := CompilePredicateFunc(source)
	if err != nil {
		return predicate.Value{}, err
	}
	return predicate.Func(fn, "expr("+source+")"), nil
}

// ExprResponse compiles source as an expr-lang expression and wraps it
// as a resolve.Value callable evaluated against the request env passed
// as the first resolver argument.
func ExprResponse(source string) (resolve.Value, error) {
	program, err := compile(source)
	if err != nil {
		return resolve.Value{}, err
	}
	return resolve.Func(func(args ...any) (any, error) {
		var env RequestEnv
		if len(args) > 0 {
			if e, ok := args[0].(RequestEnv); ok {
				env = e
			}
		}
		return expr.Run(program, env)
	}, "expr("+source+")"), nil
}
