package docs

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Property is one entry of an inline object schema. A name ending in "?"
// marks the property as optional.
type Property struct {
	Name   string
	Schema Schema
}

type Properties []Property

// Schema is either a schema expression (string) or an ordered set of
// Properties. The expression is parsed by the compiler.
type Schema struct {
	Value any
}

// TypedSchema maps media types to schemas.
type TypedSchema = map[string]Schema

func (s Schema) IsExpr() bool {
	_, ok := s.Value.(string)
	return ok
}

func (s *Schema) UnmarshalYAML(data []byte) error {

	var str string
	if err := yaml.Unmarshal(data, &str); err == nil {
		s.Value = str
		return nil
	}

	// decode as MapSlice to keep property order
	var rawMap yaml.MapSlice
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return fmt.Errorf("failed to unmarshal as string or object: %w", err)
	}

	props := make(Properties, 0, len(rawMap))
	for _, item := range rawMap {
		name, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("property key must be a string, got %T", item.Key)
		}

		valueBytes, err := yaml.Marshal(item.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal property %q: %w", name, err)
		}

		var propSchema Schema
		if err := yaml.Unmarshal(valueBytes, &propSchema); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}

		props = append(props, Property{
			Name:   name,
			Schema: propSchema,
		})
	}

	s.Value = props
	return nil
}
