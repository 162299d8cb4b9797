// Package validation checks API documents against the JSON schema of the
// authoring format before they are compiled.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaBytes []byte

const schemaUrl = "rentdocs-schema.json"

var schema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)

	object, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		panic(err)
	}

	if err := compiler.AddResource(schemaUrl, object); err != nil {
		panic(err)
	}

	schema = compiler.MustCompile(schemaUrl)
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return schemaBytes
}

// Validate checks an already decoded document.
func Validate(document any) error {
	normalized, err := normalize(document)
	if err != nil {
		return err
	}
	return schema.Validate(normalized)
}

// ValidateBytes decodes YAML (or JSON) bytes and validates them.
func ValidateBytes(documentBytes []byte) error {
	var document any

	if err := yaml.Unmarshal(documentBytes, &document); err != nil {
		return fmt.Errorf("unable to parse document: %w", err)
	}

	return Validate(document)
}

// normalize turns decoded YAML into the value model jsonschema expects:
// string keyed maps and json.Number numbers.
func normalize(document any) (any, error) {
	raw, err := json.Marshal(stringKeys(document))
	if err != nil {
		return nil, fmt.Errorf("unable to convert document: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[key] = stringKeys(value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[fmt.Sprint(key)] = stringKeys(value)
		}
		return out
	case yaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[fmt.Sprint(item.Key)] = stringKeys(item.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for idx, value := range t {
			out[idx] = stringKeys(value)
		}
		return out
	default:
		return v
	}
}
