package predicate

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Absent(t *testing.T) {
	assert.True(t, Compare(Absent(), "anything"))
	assert.True(t, Compare(Absent(), nil))
	assert.True(t, Compare(Absent(), 42))
}

func TestCompare_Literal(t *testing.T) {
	assert.True(t, Compare(Str("hello"), "hello"))
	assert.True(t, Compare(Str("hello"), []byte("hello")))
	assert.False(t, Compare(Str("hello"), "Hello"))
	assert.False(t, Compare(Str("hello"), 5))

	assert.True(t, Compare(Bytes([]byte("abc")), []byte("abc")))
	assert.True(t, Compare(Bytes([]byte("abc")), "abc"))
}

func TestCompare_Regex(t *testing.T) {
	v, err := RegexString(`^\d+$`)
	require.NoError(t, err)

	assert.True(t, Compare(v, "12345"))
	assert.True(t, Compare(v, []byte("999")))
	assert.False(t, Compare(v, "12a"))
	assert.False(t, Compare(v, 12345))

	assert.False(t, Compare(Regex(nil), "anything"))
}

func TestCompare_Callable(t *testing.T) {
	matchesFoo := Func(func(actual any) (bool, error) {
		return actual == "foo", nil
	}, "isFoo")

	assert.True(t, Compare(matchesFoo, "foo"))
	assert.False(t, Compare(matchesFoo, "bar"))
}

func TestCompare_CallableFaultIsSwallowed(t *testing.T) {
	errs := Func(func(actual any) (bool, error) {
		return true, errors.New("boom")
	}, "errs")
	assert.False(t, Compare(errs, "x"))

	panics := Func(func(actual any) (bool, error) {
		panic("boom")
	}, "panics")
	assert.False(t, Compare(panics, "x"))
}

func TestCompare_Record(t *testing.T) {
	desired := Record(map[string]Value{
		"method": Str("GET"),
		"path":   Absent(),
	})

	assert.True(t, Compare(desired, map[string]any{
		"method": "GET",
		"path":   "/ignored",
		"extra":  "also ignored",
	}))

	assert.False(t, Compare(desired, map[string]any{
		"method": "POST",
	}))

	// missing key is treated as nil, which only Absent() matches
	assert.True(t, Compare(Record(map[string]Value{"missing": Absent()}), map[string]any{}))
	assert.False(t, Compare(Record(map[string]Value{"missing": Str("x")}), map[string]any{}))

	assert.False(t, Compare(desired, "not a map"))
}

func TestCompare_Sequence(t *testing.T) {
	desired := Seq(Str("a"), Str("b"))

	assert.True(t, Compare(desired, []any{"a", "b"}))
	assert.True(t, Compare(desired, []any{"a", "b", "c"}), "desired is a prefix of actual")
	assert.False(t, Compare(desired, []any{"a"}), "missing trailing element treated as nil")
	assert.False(t, Compare(desired, "not a sequence"))
}

func TestCompare_JSON(t *testing.T) {
	desired := JSON(map[string]any{
		"name": "widget",
		"qty":  3,
	})

	assert.True(t, Compare(desired, []byte(`{"name":"widget","qty":3,"extra":"ignored"}`)))
	assert.False(t, Compare(desired, []byte(`{"name":"widget","qty":4}`)))
	assert.False(t, Compare(desired, []byte(`not json`)))
	assert.False(t, Compare(desired, 5))
}

func TestCompare_JSONSchema(t *testing.T) {
	v, err := JSONSchema([]byte(`{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`))
	require.NoError(t, err)

	assert.True(t, Compare(v, []byte(`{"name":"widget"}`)))
	assert.False(t, Compare(v, []byte(`{}`)))
	assert.False(t, Compare(v, []byte(`not json`)))
}

func TestCompare_ScalarFromJSONTree(t *testing.T) {
	desired := JSON(map[string]any{"ok": true, "count": nil})
	assert.True(t, Compare(desired, []byte(`{"ok":true,"count":null}`)))
	assert.False(t, Compare(desired, []byte(`{"ok":false,"count":null}`)))
}

func TestCompare_UnknownKindIsFalse(t *testing.T) {
	assert.False(t, Compare(Value{kind: Kind(99)}, "x"))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Absent().String())
	assert.Equal(t, "hello", Str("hello").String())
	assert.Equal(t, "isFoo()", Func(nil, "isFoo").String())
	assert.Equal(t, "function()", Func(nil, "").String())

	re := regexp.MustCompile(`^\d+$`)
	assert.Equal(t, "/^\\d+$/", Regex(re).String())
}
