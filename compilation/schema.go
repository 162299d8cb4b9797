package compilation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

type SchemaType string

const (
	SchemaNull    SchemaType = "null"
	SchemaBoolean SchemaType = "boolean"
	SchemaInteger SchemaType = "integer"
	SchemaNumber  SchemaType = "number"
	SchemaString  SchemaType = "string"
	SchemaArray   SchemaType = "array"
	SchemaObject  SchemaType = "object"
)

type Schema struct {
	Type SchemaType `json:"type" yaml:"type"`

	Properties           Properties   `json:"properties,omitempty" yaml:"properties,omitempty"`
	AdditionalProperties *bool        `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Items                *SchemaOrRef `json:"items,omitempty" yaml:"items,omitempty"`

	nullable bool

	Default *any `json:"default,omitempty" yaml:"default,omitempty"`

	Required []string `json:"required,omitempty" yaml:"required,omitempty"`

	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum   []any  `json:"enum,omitempty" yaml:"enum,omitempty"`

	UniqueItems bool `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`

	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	MinLength *uint `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *uint `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`

	MinItems *uint `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *uint `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	Examples []any `json:"examples,omitempty" yaml:"examples,omitempty"`
}

func (s Schema) Nullable() bool { return s.nullable }

// Property keeps object properties in declaration order.
type Property struct {
	Name   string
	Schema SchemaOrRef
}

type Properties []Property

// Get returns the schema of the named property.
func (p Properties) Get(name string) (SchemaOrRef, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema, true
		}
	}
	return SchemaOrRef{}, false
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, prop := range p {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop.Schema)
		if err != nil {
			return nil, fmt.Errorf("property %v: %w", prop.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if tok, err := dec.Token(); err != nil {
		return err
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties must be an object")
	}

	out := make(Properties, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("property name must be a string, got %T", tok)
		}
		var schema SchemaOrRef
		if err := dec.Decode(&schema); err != nil {
			return fmt.Errorf("property %v: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: schema})
	}

	*p = out
	return nil
}

func (p Properties) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(p))
	for _, prop := range p {
		out = append(out, yaml.MapItem{Key: prop.Name, Value: prop.Schema})
	}
	return out, nil
}

// SchemaOrRef holds either an inline Schema or a "$ref" string.
type SchemaOrRef struct {
	value any
}

func (SchemaOrRef) IsEmpty() bool { return false }
func (SchemaOrRef) IsZero() bool  { return false }

func NewSchemaRef(ref string) SchemaOrRef {
	return SchemaOrRef{
		value: ref,
	}
}

func NewSchemaDef(schema Schema) SchemaOrRef {
	return SchemaOrRef{
		value: schema,
	}
}

func (t Schema) marshalYAML(nullable bool) (any, error) {
	if nullable {
		nonNull := t
		nonNull.nullable = false

		return map[string]any{
			"oneOf": []any{
				map[string]string{"type": string(SchemaNull)},
				nonNull,
			},
		}, nil
	}

	return t, nil
}

func (t SchemaOrRef) MarshalYAML() (any, error) {
	if t.value == nil {
		return nil, nil
	}

	switch v := t.value.(type) {
	case string:
		return map[string]string{"$ref": v}, nil
	case Schema:
		return v.marshalYAML(v.nullable)
	default:
		return nil, fmt.Errorf("invalid SchemaOrRef value type: %T", v)
	}
}

func (t SchemaOrRef) MarshalJSON() ([]byte, error) {
	switch v := t.value.(type) {
	case string:
		return json.Marshal(map[string]string{"$ref": v})
	case Schema:
		// nullable: {"oneOf":[{"type":"null"}, <schema>]}
		if v.nullable {
			nonNull := v
			nonNull.nullable = false

			oneOf := []any{
				map[string]string{"type": string(SchemaNull)},
				nonNull,
			}
			return json.Marshal(map[string]any{"oneOf": oneOf})
		}
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("invalid SchemaOrRef value type: %T", t.value)
	}
}

func (t *SchemaOrRef) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Ref   string            `json:"$ref"`
		OneOf []json.RawMessage `json:"oneOf"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if envelope.Ref != "" {
		t.value = envelope.Ref
		return nil
	}

	if len(envelope.OneOf) == 2 {
		var head struct {
			Type SchemaType `json:"type"`
		}
		if err := json.Unmarshal(envelope.OneOf[0], &head); err == nil && head.Type == SchemaNull {
			var schema Schema
			if err := json.Unmarshal(envelope.OneOf[1], &schema); err != nil {
				return err
			}
			schema.nullable = true
			t.value = schema
			return nil
		}
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return err
	}
	t.value = schema
	return nil
}

func (t SchemaOrRef) IsRef() bool {
	_, ok := t.value.(string)
	return ok
}

func (t SchemaOrRef) GetRef() (string, bool) {
	ref, ok := t.value.(string)
	return ref, ok
}

func (t SchemaOrRef) GetSchema() (Schema, bool) {
	schema, ok := t.value.(Schema)
	return schema, ok
}

// Walk calls fn for t and every schema nested inside it.
func (t SchemaOrRef) Walk(fn func(SchemaOrRef)) {
	fn(t)

	schema, ok := t.value.(Schema)
	if !ok {
		return
	}
	for _, prop := range schema.Properties {
		prop.Schema.Walk(fn)
	}
	if schema.Items != nil {
		schema.Items.Walk(fn)
	}
}
