package predicate

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// jsonSchemaValidator is the subset of *jsonschema.Schema the comparator
// needs; defined as an interface so value.go does not have to import the
// jsonschema package just to carry a pointer around.
type jsonSchemaValidator interface {
	Validate(v any) error
}

// JSONSchema builds a predicate that validates the actual value (a
// []byte or string request/response body) against a compiled JSON
// Schema. Grounded on pkg/validation/validator.go's use of
// santhosh-tekuri/jsonschema/v5 in the teacher; wired here as a
// comparator leaf rather than a request-validation middleware, per
// SPEC_FULL.md's domain stack table.
//
// A schema compilation failure at construction time is surfaced to the
// caller immediately (it is a declaration error, not a runtime fault);
// a validation failure at match time is not an error, it is simply "no
// match", consistent with every other predicate kind.
func JSONSchema(schemaJSON []byte) (Value, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("mock.json", bytes.NewReader(schemaJSON)); err != nil {
		return Value{}, err
	}
	schema, err := compiler.Compile("mock.json")
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindJSONSchema, schema: schema}, nil
}

func compareJSONSchema(desired Value, actual any) bool {
	if desired.schema == nil {
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
	return desired.schema.Validate(decoded) == nil
}
