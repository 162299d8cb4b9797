package docs

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

type Example struct {
	Summary string `yaml:"summary,omitempty"`
	Value   any    `yaml:"value"`
}

type Examples = map[string]Example

// Response keys containing "/" are media types, everything else is an
// attribute of the response itself.
type Response struct {
	Description string
	Example     any
	Examples    Examples
	TypedSchema
}

type StatusCode = string

type Responses = map[StatusCode]Response

// Body follows the same layout as Response. Bodies are required unless
// marked optional.
type Body struct {
	Description string
	Optional    bool
	Example     any
	Examples    Examples
	TypedSchema
}

func isMediaType(key string) bool {
	return strings.Contains(key, "/")
}

// splitContent separates attribute keys from media type keys.
func splitContent(data []byte) (map[string]yaml.RawMessage, TypedSchema, error) {
	var raw map[string]yaml.RawMessage
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	attrs := make(map[string]yaml.RawMessage)
	content := make(TypedSchema)

	for key, value := range raw {
		if !isMediaType(key) {
			attrs[key] = value
			continue
		}
		var out Schema
		if err := yaml.Unmarshal(value, &out); err != nil {
			return nil, nil, fmt.Errorf("media type %v: %w", key, err)
		}
		content[key] = out
	}

	return attrs, content, nil
}

func decodeAttr(attrs map[string]yaml.RawMessage, key string, out any) error {
	value, ok := attrs[key]
	if !ok {
		return nil
	}
	delete(attrs, key)

	if err := yaml.Unmarshal(value, out); err != nil {
		return fmt.Errorf("%v: %w", key, err)
	}
	return nil
}

func unknownAttrs(attrs map[string]yaml.RawMessage) error {
	for key := range attrs {
		return fmt.Errorf("unknown attribute %q (media types must contain '/')", key)
	}
	return nil
}

// UnmarshalYAML implements BytesUnmarshaler for goccy/go-yaml
func (r *Response) UnmarshalYAML(data []byte) error {
	attrs, content, err := splitContent(data)
	if err != nil {
		return err
	}

	if err := decodeAttr(attrs, "description", &r.Description); err != nil {
		return err
	}
	if err := decodeAttr(attrs, "example", &r.Example); err != nil {
		return err
	}
	if err := decodeAttr(attrs, "examples", &r.Examples); err != nil {
		return err
	}
	if err := unknownAttrs(attrs); err != nil {
		return err
	}

	r.TypedSchema = content
	return nil
}

// UnmarshalYAML implements BytesUnmarshaler for goccy/go-yaml
func (b *Body) UnmarshalYAML(data []byte) error {
	attrs, content, err := splitContent(data)
	if err != nil {
		return err
	}

	if err := decodeAttr(attrs, "description", &b.Description); err != nil {
		return err
	}
	if err := decodeAttr(attrs, "optional", &b.Optional); err != nil {
		return err
	}
	if err := decodeAttr(attrs, "example", &b.Example); err != nil {
		return err
	}
	if err := decodeAttr(attrs, "examples", &b.Examples); err != nil {
		return err
	}
	if err := unknownAttrs(attrs); err != nil {
		return err
	}

	if len(content) == 0 {
		return fmt.Errorf("body without media type")
	}

	b.TypedSchema = content
	return nil
}
