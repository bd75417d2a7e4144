package httpmock

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/predicate"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Teardown() })
	return s
}

func TestServer_BasicMatch(t *testing.T) {
	s := startServer(t)
	_, err := s.Mock(mock.Declaration{Method: "POST", Path: "/bloop", ResBody: "bloop"})
	require.NoError(t, err)

	resp, err := http.Post(fmt.Sprintf("http://127.0.0.1:%d/bloop", s.Port()), "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bloop", string(body))
}

func TestServer_NoMatchFallback(t *testing.T) {
	s := startServer(t)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/nope", s.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, "No matching mock was found for [GET /nope HTTP/1.1]", string(body))
}

func TestServer_JSONBodyMatch(t *testing.T) {
	s := startServer(t)
	_, err := s.Mock(mock.Declaration{
		Body:    predicate.JSON(map[string]any{"a": 1, "b": []any{"c", 2, map[string]any{}}}),
		ResBody: "ok",
	})
	require.NoError(t, err)

	url := fmt.Sprintf("http://127.0.0.1:%d/anything", s.Port())

	resp, err := http.Post(url, "application/json", strings.NewReader(`{"a":1,"b":["c",2,{}]}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp2, err := http.Post(url, "application/json", strings.NewReader(`{"a":1,"b":["c",3,{}]}`))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestServer_WireCaseHeaderMatch(t *testing.T) {
	s := startServer(t)
	_, err := s.Mock(mock.Declaration{
		Headers: map[string]any{"X-Bloop": "true"},
		ResBody: "matched",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://127.0.0.1:%d/", s.Port()), nil)
	require.NoError(t, err)
	req.Header["X-Bloop"] = []string{"true"}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "matched", string(body))
}

func TestServer_OnlyOneMockConsumedPerRequest(t *testing.T) {
	s := startServer(t)
	h1, err := s.Mock(mock.Declaration{Method: "GET", ResBody: "first"})
	require.NoError(t, err)
	_, err = s.Mock(mock.Declaration{Method: "GET", ResBody: "second"})
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", s.Port()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "first", string(body))
	assert.False(t, h1.Underlying().Pending())
}

func TestServer_DestroySocketSendsAbortiveClose(t *testing.T) {
	s := startServer(t)
	_, err := s.Mock(mock.Declaration{Method: "GET", DestroySocket: true})
	require.NoError(t, err)

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", s.Port()), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 4096)
	_, readErr := conn.Read(buf)
	// Either the headers arrive and then the connection resets on a
	// further read, or the reset happens immediately — both are valid
	// observations of an abortive close; what must never happen is a
	// clean, complete HTTP response.
	if readErr == nil {
		_, readErr = conn.Read(buf)
	}
	assert.Error(t, readErr)
}

func TestServer_Reset_ThrowsOnPending(t *testing.T) {
	s := startServer(t)
	_, err := s.Mock(mock.Declaration{Method: "GET"})
	require.NoError(t, err)

	err = s.Reset(true)
	require.Error(t, err)
}

func TestServer_PortIsEphemeralByDefault(t *testing.T) {
	s := startServer(t)
	assert.NotZero(t, s.Port())
}
