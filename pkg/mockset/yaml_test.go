package mockset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinmyers/wirepig/pkg/mock"
)

func TestLoadYAML_StructuredFields(t *testing.T) {
	doc := []byte(`
mocks:
  - name: get-widget
    request:
      method: GET
      pathRegex: "^/widgets/\\d+$"
      headers:
        Accept: application/json
    response:
      statusCode: 200
      body: '{"ok":true}'
      headers:
        Content-Type: application/json
      bodyDelayMs: 5
`)

	decls, err := LoadYAML(doc)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d := decls[0]
	assert.Equal(t, "get-widget", d.Name)
	assert.Equal(t, "GET", d.Method)
	assert.NotNil(t, d.Path)
	assert.Equal(t, `{"ok":true}`, d.ResBody)
	assert.Equal(t, 200, d.StatusCode)
	assert.Equal(t, 5, d.BodyDelayMs)

	m, err := mock.BuildHTTP(d)
	require.NoError(t, err)
	assert.True(t, m.Pending())
}

func TestLoadYAML_ExprFields(t *testing.T) {
	doc := []byte(`
mocks:
  - name: expr-mock
    request:
      expr: 'Method == "POST"'
    response:
      expr: '"hi"'
`)

	decls, err := LoadYAML(doc)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.NotNil(t, decls[0].Whole)
	assert.NotNil(t, decls[0].ResWhole)
}

func TestLoadYAML_InvalidPathRegex(t *testing.T) {
	doc := []byte(`
mocks:
  - request:
      pathRegex: "("
`)
	_, err := LoadYAML(doc)
	require.Error(t, err)
}

func TestLoadYAML_InvalidExpr(t *testing.T) {
	doc := []byte(`
mocks:
  - request:
      expr: "this is not ) valid ("
`)
	_, err := LoadYAML(doc)
	require.Error(t, err)
}

func TestLoadYAML_MalformedDocument(t *testing.T) {
	_, err := LoadYAML([]byte("not: [valid"))
	require.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/to/mocks.yaml")
	require.Error(t, err)
}
