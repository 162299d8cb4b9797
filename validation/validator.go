package validation

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator validates documents against a schema loaded from disk,
// for dialects extending the embedded schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

func New(schemaUrl string) (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)

	schema, err := compiler.Compile(schemaUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to compile schema %v: %w", schemaUrl, err)
	}

	return &SchemaValidator{
		schema: schema,
	}, nil
}

func (v *SchemaValidator) ValidateObject(obj any) error {
	normalized, err := normalize(obj)
	if err != nil {
		return err
	}
	return v.schema.Validate(normalized)
}
