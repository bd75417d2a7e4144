package mockset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
)

func TestExprPredicate_MatchesOnEnv(t *testing.T) {
	v, err := ExprPredicate(`Method == "GET" && Path startsWith "/widgets"`)
	require.NoError(t, err)

	assert.True(t, predicate.Compare(v, RequestEnv{Method: "GET", Path: "/widgets/1"}))
	assert.False(t, predicate.Compare(v, RequestEnv{Method: "POST", Path: "/widgets/1"}))
}

func TestExprPredicate_NonEnvActualDoesNotMatch(t *testing.T) {
	v, err := ExprPredicate(`Method == "GET"`)
	require.NoError(t, err)
	assert.False(t, predicate.Compare(v, "not a RequestEnv"))
}

func TestExprPredicate_CompileErrorSurfacesImmediately(t *testing.T) {
	_, err := ExprPredicate(`this is not ) valid expr (`)
	require.Error(t, err)
}

func TestExprResponse_EvaluatesAgainstEnv(t *testing.T) {
	v, err := ExprResponse(`Method + " " + Path`)
	require.NoError(t, err)

	out := resolve.ToBytes(v, RequestEnv{Method: "GET", Path: "/x"})
	assert.Equal(t, []byte("GET /x"), out)
}

func TestCompilePredicateFunc_CompileErrorSurfacesImmediately(t *testing.T) {
	_, err := CompilePredicateFunc(`this is not ) valid expr (`)
	require.Error(t, err)
}

func TestCompileResponseFunc_EvaluatesAgainstEnv(t *testing.T) {
	fn, err := CompileResponseFunc(`Path`)
	require.NoError(t, err)

	out, err := fn(RequestEnv{Path: "/widgets"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/widgets", out)
}
