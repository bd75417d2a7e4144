package mock

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinmyers/wirepig/pkg/predicate"
)

func TestBuildHTTP_Minimal(t *testing.T) {
	m, err := BuildHTTP(Declaration{})
	require.NoError(t, err)
	assert.Equal(t, ProtocolHTTP, m.Protocol)
	assert.True(t, m.Pending())
	assert.True(t, m.HTTPReq.Method.IsAbsent())
}

func TestBuildHTTP_StructuredFields(t *testing.T) {
	m, err := BuildHTTP(Declaration{
		Method:  "GET",
		Path:    "/widgets",
		Headers: map[string]any{"Accept": "application/json"},
		ResBody: "ok",
	})
	require.NoError(t, err)
	assert.True(t, predicate.Compare(m.HTTPReq.Method, "GET"))
	assert.True(t, predicate.Compare(m.HTTPReq.Path, "/widgets"))
}

func TestBuildHTTP_RejectsBadFieldWithPath(t *testing.T) {
	_, err := BuildHTTP(Declaration{Method: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method")
}

func TestBuildHTTP_RegexField(t *testing.T) {
	m, err := BuildHTTP(Declaration{Path: regexp.MustCompile(`^/widgets/\d+$`)})
	require.NoError(t, err)
	assert.True(t, predicate.Compare(m.HTTPReq.Path, "/widgets/5"))
}

func TestBuildHTTP_RepeatedHeaderPredicate(t *testing.T) {
	m, err := BuildHTTP(Declaration{
		Headers: map[string]any{"X-Tag": []any{"a", "b"}},
	})
	require.NoError(t, err)
	ok := predicate.Compare(m.HTTPReq.Headers, map[string]any{
		"X-Tag": []any{"a", "b"},
	})
	assert.True(t, ok)
}

func TestBuildTCP_InitXorReqRes(t *testing.T) {
	_, err := BuildTCP(Declaration{})
	require.Error(t, err, "neither init nor req/res is invalid")

	_, err = BuildTCP(Declaration{Init: "hello", Req: "x"})
	require.Error(t, err, "both init and req/res is invalid")

	m, err := BuildTCP(Declaration{Init: "hello"})
	require.NoError(t, err)
	assert.True(t, m.IsInit)

	m, err = BuildTCP(Declaration{Req: "ping", TCPResBody: "pong"})
	require.NoError(t, err)
	assert.False(t, m.IsInit)
}

func TestBuildTCPTail_SharesPinGroupWithHead(t *testing.T) {
	head, err := BuildTCP(Declaration{Req: "A", TCPResBody: "1"})
	require.NoError(t, err)
	assert.True(t, head.IsHead())

	tail, err := BuildTCPTail(head, Declaration{Req: "B", TCPResBody: "2"})
	require.NoError(t, err)
	assert.True(t, head.IsHead(), "spawning a child promotes the head to a pinning-group head")
	assert.False(t, tail.IsHead())

	assert.False(t, tail.EligibleOn("conn-1"))
	head.BindPin("conn-1")
	assert.True(t, tail.EligibleOn("conn-1"))
	assert.False(t, tail.EligibleOn("conn-2"))
}

func TestBuildTCPTail_RejectsInit(t *testing.T) {
	head, err := BuildTCP(Declaration{Req: "A", TCPResBody: "1"})
	require.NoError(t, err)
	_, err = BuildTCPTail(head, Declaration{Init: "nope"})
	require.Error(t, err)
}

func TestMock_TryMatch_OnlyOnce(t *testing.T) {
	m, err := BuildHTTP(Declaration{})
	require.NoError(t, err)

	assert.True(t, m.TryMatch())
	assert.False(t, m.TryMatch())
	assert.False(t, m.Pending())
}

func TestMock_String(t *testing.T) {
	m, err := BuildHTTP(Declaration{Method: "POST", Name: "create-widget"})
	require.NoError(t, err)
	s := m.String()
	assert.Contains(t, s, "HTTP{")
	assert.Contains(t, s, "method=POST")
	assert.Contains(t, s, "name=create-widget")
}
